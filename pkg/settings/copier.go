package settings

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/metrics"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

type Kind string

const (
	KindAppSettings       Kind = "App Settings"
	KindConnectionStrings Kind = "Connection Strings"
	KindGeneralConfig     Kind = "General Configuration"
)

type Options struct {
	AppSettings       bool
	ConnectionStrings bool
	GeneralConfig     bool
	Include           []string
	Exclude           []string
	// Overwrite updates target values that differ from the source. Without it, differing values are reported as conflicts.
	Overwrite bool
	WhatIf    bool
}

// AllKinds copies everything with the default filter.
func AllKinds() Options {
	return Options{
		AppSettings:       true,
		ConnectionStrings: true,
		GeneralConfig:     true,
	}
}

// Result lists setting names by outcome for one kind. Values are never included.
type Result struct {
	Kind      Kind     `json:"kind"`
	Added     []string `json:"added"`
	Updated   []string `json:"updated"`
	Unchanged []string `json:"unchanged"`
	Conflicts []string `json:"conflicts"`
	Excluded  []string `json:"excluded"`
	Applied   bool     `json:"applied"`
	Error     string   `json:"error,omitempty"`
}

func (r Result) Changes() int {
	return len(r.Added) + len(r.Updated)
}

type Report struct {
	Source  azure.AppRef `json:"source"`
	Target  azure.AppRef `json:"target"`
	WhatIf  bool         `json:"whatIf"`
	Results []Result     `json:"results"`
}

func (r Report) Changes() int {
	n := 0
	for _, result := range r.Results {
		n += result.Changes()
	}
	return n
}

// Errors returns the failures of the kinds that could not be copied.
func (r Report) Errors() []string {
	errs := make([]string, 0)
	for _, result := range r.Results {
		if len(result.Error) > 0 {
			errs = append(errs, fmt.Sprintf("%s: %s", result.Kind, result.Error))
		}
	}
	return errs
}

func (r Report) Conflicts() int {
	n := 0
	for _, result := range r.Results {
		n += len(result.Conflicts)
	}
	return n
}

type Copier struct {
	reader azure.Settings
	writer azure.SettingsWriter
}

func NewCopier(reader azure.Settings, writer azure.SettingsWriter) Copier {
	return Copier{reader: reader, writer: writer}
}

// Copy brings the target's settings in line with the source's. Settings that only exist on the target are kept.
// A kind that fails to read or write is recorded on its Result and the remaining kinds are still copied.
func (c Copier) Copy(tx transaction.Transaction, source, target azure.AppRef, opts Options) (*Report, error) {
	filter, err := NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Source:  source,
		Target:  target,
		WhatIf:  opts.WhatIf,
		Results: make([]Result, 0),
	}

	if opts.AppSettings {
		result, err := c.copyAppSettings(tx, source, target, filter, opts)
		report.add(tx, KindAppSettings, result, err)
	}

	if opts.ConnectionStrings {
		result, err := c.copyConnectionStrings(tx, source, target, filter, opts)
		report.add(tx, KindConnectionStrings, result, err)
	}

	if opts.GeneralConfig {
		result, err := c.copyGeneralConfig(tx, source, target, opts)
		report.add(tx, KindGeneralConfig, result, err)
	}

	return report, nil
}

func (c Copier) copyAppSettings(tx transaction.Transaction, source, target azure.AppRef, filter Filter, opts Options) (*Result, error) {
	src, err := c.reader.GetAppSettings(tx.Ctx, source)
	if err != nil {
		return nil, fmt.Errorf("reading source app settings: %w", err)
	}
	dst, err := c.reader.GetAppSettings(tx.Ctx, target)
	if err != nil {
		return nil, fmt.Errorf("reading target app settings: %w", err)
	}

	merged, result := merge(KindAppSettings, src, dst, filter.Allows, opts.Overwrite)
	if result.Changes() == 0 || opts.WhatIf {
		return result, nil
	}

	if err := c.writer.SetAppSettings(tx.Ctx, target, merged); err != nil {
		return result, fmt.Errorf("writing app settings: %w", err)
	}
	return applied(tx, result), nil
}

func (c Copier) copyConnectionStrings(tx transaction.Transaction, source, target azure.AppRef, filter Filter, opts Options) (*Result, error) {
	src, err := c.reader.GetConnectionStrings(tx.Ctx, source)
	if err != nil {
		return nil, fmt.Errorf("reading source connection strings: %w", err)
	}
	dst, err := c.reader.GetConnectionStrings(tx.Ctx, target)
	if err != nil {
		return nil, fmt.Errorf("reading target connection strings: %w", err)
	}

	merged, result := merge(KindConnectionStrings, src, dst, filter.Allows, opts.Overwrite)
	if result.Changes() == 0 || opts.WhatIf {
		return result, nil
	}

	if err := c.writer.SetConnectionStrings(tx.Ctx, target, merged); err != nil {
		return result, fmt.Errorf("writing connection strings: %w", err)
	}
	return applied(tx, result), nil
}

func (c Copier) copyGeneralConfig(tx transaction.Transaction, source, target azure.AppRef, opts Options) (*Result, error) {
	src, err := c.reader.GetGeneralConfig(tx.Ctx, source)
	if err != nil {
		return nil, fmt.Errorf("reading source configuration: %w", err)
	}
	dst, err := c.reader.GetGeneralConfig(tx.Ctx, target)
	if err != nil {
		return nil, fmt.Errorf("reading target configuration: %w", err)
	}

	all := func(string) bool { return true }
	merged, result := merge(KindGeneralConfig, configFields(*src), configFields(*dst), all, opts.Overwrite)
	if result.Changes() == 0 || opts.WhatIf {
		return result, nil
	}

	cfg := *dst
	for _, f := range generalConfigFields {
		f.set(&cfg, merged[f.name])
	}
	if err := c.writer.SetGeneralConfig(tx.Ctx, target, cfg); err != nil {
		return result, fmt.Errorf("writing configuration: %w", err)
	}
	return applied(tx, result), nil
}

// add records the outcome of one kind. A failed kind keeps whatever was computed before the failure.
func (r *Report) add(tx transaction.Transaction, kind Kind, result *Result, err error) {
	if result == nil {
		result = newResult(kind)
	}
	if err != nil {
		result.Error = err.Error()
		tx.Logger.Warnf("%s not copied: %v", kind, err)
	}
	r.Results = append(r.Results, *result)
}

func applied(tx transaction.Transaction, result *Result) *Result {
	result.Applied = true
	metrics.SettingsWrittenCount.Add(float64(result.Changes()))
	tx.Logger.Infof("%s: %d added, %d updated", result.Kind, len(result.Added), len(result.Updated))
	return result
}

// merge overlays the allowed source entries on the target. The returned map is the complete desired target state.
func merge[V comparable](kind Kind, source, target map[string]V, allowed func(string) bool, overwrite bool) (map[string]V, *Result) {
	result := newResult(kind)
	merged := maps.Clone(target)
	if merged == nil {
		merged = make(map[string]V)
	}

	for _, name := range slices.Sorted(maps.Keys(source)) {
		value := source[name]
		if !allowed(name) {
			result.Excluded = append(result.Excluded, name)
			continue
		}

		existing, found := target[name]
		switch {
		case !found:
			merged[name] = value
			result.Added = append(result.Added, name)
		case existing == value:
			result.Unchanged = append(result.Unchanged, name)
		case overwrite:
			merged[name] = value
			result.Updated = append(result.Updated, name)
		default:
			result.Conflicts = append(result.Conflicts, name)
		}
	}
	return merged, result
}

func newResult(kind Kind) *Result {
	return &Result{
		Kind:      kind,
		Added:     make([]string, 0),
		Updated:   make([]string, 0),
		Unchanged: make([]string, 0),
		Conflicts: make([]string, 0),
		Excluded:  make([]string, 0),
	}
}
