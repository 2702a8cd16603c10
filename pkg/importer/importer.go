package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/metrics"
	"github.com/nais/appsvcmigrator/pkg/migration"
	"github.com/nais/appsvcmigrator/pkg/settings"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

const (
	MessageSkippedByUser = "Skipped by user"
	MessageAppExists     = "target app already exists"

	tagMigratedFrom = "migrated-from"
)

// Client is the subset of the Azure boundary needed to create and populate target apps.
type Client interface {
	azure.Inventory
	azure.Settings
	azure.Writer
}

// Checkpointer persists the full row set.
type Checkpointer interface {
	Save(rows []*migration.Row) error
}

type Importer struct {
	client Client
	store  Checkpointer
	copier settings.Copier
	copy   settings.Options
	now    func() time.Time
}

// New returns an Importer. The kinds and filters in copyOpts select what is copied to every new app; overwrite and what-if are managed per run.
func New(client Client, store Checkpointer, copyOpts settings.Options) Importer {
	return Importer{
		client: client,
		store:  store,
		copier: settings.NewCopier(client, client),
		copy:   copyOpts,
		now:    time.Now,
	}
}

func (i Importer) WithClock(now func() time.Time) Importer {
	i.now = now
	return i
}

// Run processes every row in order and saves the row set after each one.
// Only a failed checkpoint or a cancelled context stops the run early.
func (i Importer) Run(tx transaction.Transaction, rows []*migration.Row) error {
	for n, row := range rows {
		if err := tx.Ctx.Err(); err != nil {
			return fmt.Errorf("import interrupted before row %d: %w", n+1, err)
		}

		rtx := tx.ForApp(row.SourceRef()).WithFields(log.Fields{"row": n + 1})
		if row.IsDone() {
			rtx.Logger.Debugf("already migrated to %s; skipping", row.TargetRef())
			continue
		}

		i.process(rtx, row)
		metrics.IncRow(string(row.Status()))
		metrics.IncApp(tx.Command)

		if err := i.store.Save(rows); err != nil {
			return fmt.Errorf("saving progress after row %d: %w", n+1, err)
		}
	}
	return nil
}

func (i Importer) process(tx transaction.Transaction, row *migration.Row) {
	if row.Skip {
		tx.Logger.Info(MessageSkippedByUser)
		row.Mark(migration.StatusSkipped, MessageSkippedByUser, i.now())
		return
	}

	if missing := row.MissingTargetFields(); len(missing) > 0 {
		msg := fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", "))
		tx.Logger.Warn(msg)
		row.Mark(migration.StatusSkipped, msg, i.now())
		return
	}

	if err := row.ValidateNewAppName(); err != nil {
		tx.Logger.Warn(err.Error())
		row.Mark(migration.StatusSkipped, err.Error(), i.now())
		return
	}

	if tx.WhatIf {
		msg := i.describe(*row)
		tx.Logger.Info(msg)
		row.Mark(migration.StatusWhatIf, msg, i.now())
		return
	}

	msg, err := i.migrate(tx, *row)
	if err != nil {
		tx.Logger.Errorf("migrating to %s: %v", row.TargetRef(), err)
		row.Mark(migration.StatusFailed, err.Error(), i.now())
		return
	}
	tx.Logger.Info(msg)
	row.Mark(migration.StatusSuccess, msg, i.now())
}

func (i Importer) migrate(tx transaction.Transaction, row migration.Row) (string, error) {
	source, err := i.client.GetApp(tx.Ctx, row.SourceRef())
	if err != nil {
		return "", fmt.Errorf("reading source app: %w", err)
	}

	if err := i.ensureResourceGroup(tx, row); err != nil {
		return "", err
	}

	plan, err := i.ensurePlan(tx, row, *source)
	if err != nil {
		return "", err
	}

	target := row.TargetRef()
	exists, err := i.client.AppExists(tx.Ctx, target)
	if err != nil {
		return "", fmt.Errorf("checking target app: %w", err)
	}

	action := "reused existing app"
	switch {
	case exists && !tx.Force:
		return "", errors.New(MessageAppExists)
	case exists:
		tx.Logger.Warnf("%s; continuing with --force", MessageAppExists)
	default:
		if _, err := i.client.CreateApp(tx.Ctx, appSpec(row, *source, plan.ID)); err != nil {
			return "", fmt.Errorf("creating app: %w", err)
		}
		action = "created app"
		tx.Logger.Infof("created app %s", target)
	}

	opts := i.copy
	opts.Overwrite = true
	opts.WhatIf = false
	report, err := i.copier.Copy(tx, row.SourceRef(), target, opts)
	if err != nil {
		return "", fmt.Errorf("copying settings: %w", err)
	}
	if errs := report.Errors(); len(errs) > 0 {
		return "", fmt.Errorf("copying settings: %s", strings.Join(errs, "; "))
	}

	return fmt.Sprintf("%s %s in plan %s; %d setting(s) copied", action, row.NewAppName, plan.Name, report.Changes()), nil
}

func (i Importer) ensureResourceGroup(tx transaction.Transaction, row migration.Row) error {
	exists, err := i.client.ResourceGroupExists(tx.Ctx, row.TargetSubscriptionId, row.TargetResourceGroup)
	if err != nil {
		return fmt.Errorf("checking resource group: %w", err)
	}
	if exists {
		return nil
	}

	if err := i.client.CreateResourceGroup(tx.Ctx, row.TargetSubscriptionId, row.TargetResourceGroup, row.TargetLocation); err != nil {
		return fmt.Errorf("creating resource group: %w", err)
	}
	tx.Logger.Infof("created resource group %s in %s", row.TargetResourceGroup, row.TargetLocation)
	return nil
}

func (i Importer) ensurePlan(tx transaction.Transaction, row migration.Row, source azure.App) (*azure.Plan, error) {
	plan, err := i.client.GetPlan(tx.Ctx, row.TargetSubscriptionId, row.TargetResourceGroup, row.TargetAppServicePlan)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, azure.ErrNotFound) {
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	sku := targetSku(row)
	if len(sku) == 0 {
		return nil, fmt.Errorf("plan %s does not exist and neither TargetSku nor SourceSku is set", row.TargetAppServicePlan)
	}

	plan, err = i.client.CreatePlan(tx.Ctx, azure.PlanSpec{
		SubscriptionID: row.TargetSubscriptionId,
		ResourceGroup:  row.TargetResourceGroup,
		Name:           row.TargetAppServicePlan,
		Location:       row.TargetLocation,
		Sku:            sku,
		Linux:          isLinux(row, source),
	})
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	tx.Logger.Infof("created plan %s (%s)", plan.Name, sku)
	return plan, nil
}

func (i Importer) describe(row migration.Row) string {
	platform := "windows"
	if azure.IsLinuxKind(row.SourceKind) {
		platform = "linux"
	}
	kinds := make([]string, 0)
	if i.copy.AppSettings {
		kinds = append(kinds, "app settings")
	}
	if i.copy.ConnectionStrings {
		kinds = append(kinds, "connection strings")
	}
	if i.copy.GeneralConfig {
		kinds = append(kinds, "general configuration")
	}
	copied := "nothing"
	if len(kinds) > 0 {
		copied = strings.Join(kinds, ", ")
	}

	return fmt.Sprintf("would ensure resource group %s in %s, ensure plan %s (%s, %s), create app %s and copy %s from %s",
		row.TargetResourceGroup, row.TargetLocation, row.TargetAppServicePlan, targetSku(row), platform, row.NewAppName, copied, row.SourceRef())
}

func appSpec(row migration.Row, source azure.App, planID azure.ResourceId) azure.AppSpec {
	kind := source.Kind
	if len(kind) == 0 {
		kind = row.SourceKind
	}
	return azure.AppSpec{
		Ref:       row.TargetRef(),
		Location:  row.TargetLocation,
		Kind:      kind,
		PlanID:    planID,
		HTTPSOnly: source.HTTPSOnly,
		Tags: map[string]string{
			tagMigratedFrom: row.SourceRef().String(),
		},
	}
}

func targetSku(row migration.Row) string {
	if len(row.TargetSku) > 0 {
		return row.TargetSku
	}
	return row.SourceSku
}

func isLinux(row migration.Row, source azure.App) bool {
	return source.IsLinux() || azure.IsLinuxKind(row.SourceKind)
}
