package migration

import (
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/nais/appsvcmigrator/pkg/azure"
)

type Status string

const (
	StatusPending Status = "Pending"
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
	StatusSkipped Status = "Skipped"
	StatusWhatIf  Status = "WhatIf"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusPending, StatusSuccess, StatusFailed, StatusSkipped, StatusWhatIf}

func (s Status) MarshalCSV() (string, error) {
	return string(s), nil
}

// UnmarshalCSV reads an empty cell as Pending.
func (s *Status) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		*s = StatusPending
		return nil
	}
	for _, status := range Statuses {
		if strings.EqualFold(value, string(status)) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown import status '%s'", value)
}

type Skip bool

func (s Skip) MarshalCSV() (string, error) {
	if s {
		return "Yes", nil
	}
	return "No", nil
}

func (s *Skip) UnmarshalCSV(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1":
		*s = true
	default:
		*s = false
	}
	return nil
}

type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalCSV() (string, error) {
	if t.IsZero() {
		return "", nil
	}
	return t.UTC().Format(time.RFC3339), nil
}

func (t *Timestamp) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("parsing import timestamp '%s': %w", value, err)
	}
	t.Time = parsed
	return nil
}

// Row is one source app and its planned target.
type Row struct {
	SourceSubscriptionId string `csv:"SourceSubscriptionId"`
	SourceResourceGroup  string `csv:"SourceResourceGroup"`
	SourceAppName        string `csv:"SourceAppName"`
	SourceAppServicePlan string `csv:"SourceAppServicePlan"`
	SourceLocation       string `csv:"SourceLocation"`
	SourceSku            string `csv:"SourceSku"`
	SourceKind           string `csv:"SourceKind"`
	TargetSubscriptionId string `csv:"TargetSubscriptionId"`
	TargetResourceGroup  string `csv:"TargetResourceGroup"`
	TargetAppServicePlan string `csv:"TargetAppServicePlan"`
	TargetLocation       string `csv:"TargetLocation"`
	TargetSku            string `csv:"TargetSku"`
	NewAppName           string `csv:"NewAppName"`

	Skip            Skip      `csv:"Skip"`
	ImportStatus    Status    `csv:"ImportStatus"`
	ImportMessage   string    `csv:"ImportMessage"`
	ImportTimestamp Timestamp `csv:"ImportTimestamp"`
}

func (r Row) SourceRef() azure.AppRef {
	return azure.AppRef{
		SubscriptionID: r.SourceSubscriptionId,
		ResourceGroup:  r.SourceResourceGroup,
		Name:           r.SourceAppName,
	}
}

func (r Row) TargetRef() azure.AppRef {
	return azure.AppRef{
		SubscriptionID: r.TargetSubscriptionId,
		ResourceGroup:  r.TargetResourceGroup,
		Name:           r.NewAppName,
	}
}

func (r Row) Status() Status {
	if len(r.ImportStatus) == 0 {
		return StatusPending
	}
	return r.ImportStatus
}

func (r Row) IsDone() bool {
	return r.Status() == StatusSuccess
}

// MissingTargetFields returns the header names of required target columns that are empty.
func (r Row) MissingTargetFields() []string {
	missing := make([]string, 0)
	for _, field := range []struct {
		name  string
		value string
	}{
		{"TargetSubscriptionId", r.TargetSubscriptionId},
		{"TargetResourceGroup", r.TargetResourceGroup},
		{"TargetAppServicePlan", r.TargetAppServicePlan},
		{"TargetLocation", r.TargetLocation},
		{"NewAppName", r.NewAppName},
	} {
		if len(strings.TrimSpace(field.value)) == 0 {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// ValidateNewAppName checks that NewAppName can be used as the app's host name label.
// Global uniqueness is only known to the provider.
func (r Row) ValidateNewAppName() error {
	name := r.NewAppName
	if !govalidator.IsByteLength(name, 2, 60) {
		return fmt.Errorf("NewAppName '%s' must be between 2 and 60 characters", name)
	}
	if !govalidator.Matches(name, `^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`) {
		return fmt.Errorf("NewAppName '%s' may only contain letters, digits and hyphens, and must not start or end with a hyphen", name)
	}
	return nil
}

// Mark moves the row to a terminal status.
func (r *Row) Mark(status Status, message string, now time.Time) {
	r.ImportStatus = status
	r.ImportMessage = message
	r.ImportTimestamp = Timestamp{Time: now.UTC().Truncate(time.Second)}
}

// Count returns the number of rows per status.
func Count(rows []*Row) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, r := range rows {
		counts[r.Status()]++
	}
	return counts
}
