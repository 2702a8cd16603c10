package migration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/migration"
)

func completeRow() migration.Row {
	return migration.Row{
		SourceSubscriptionId: "source-sub",
		SourceResourceGroup:  "source-rg",
		SourceAppName:        "my-app",
		TargetSubscriptionId: "target-sub",
		TargetResourceGroup:  "target-rg",
		TargetAppServicePlan: "target-plan",
		TargetLocation:       "norwayeast",
		NewAppName:           "my-app-new",
	}
}

func TestSkip_UnmarshalCSV(t *testing.T) {
	for _, value := range []string{"Yes", "yes", "Y", "y", "True", "TRUE", "1", " yes "} {
		t.Run(value+" skips", func(t *testing.T) {
			var s migration.Skip
			require.NoError(t, s.UnmarshalCSV(value))
			assert.True(t, bool(s))
		})
	}
	for _, value := range []string{"", "No", "n", "false", "0", "maybe"} {
		t.Run("'"+value+"' does not skip", func(t *testing.T) {
			s := migration.Skip(true)
			require.NoError(t, s.UnmarshalCSV(value))
			assert.False(t, bool(s))
		})
	}
}

func TestStatus_UnmarshalCSV(t *testing.T) {
	t.Run("empty is pending", func(t *testing.T) {
		var s migration.Status
		require.NoError(t, s.UnmarshalCSV(""))
		assert.Equal(t, migration.StatusPending, s)
	})

	t.Run("case insensitive", func(t *testing.T) {
		var s migration.Status
		require.NoError(t, s.UnmarshalCSV("whatif"))
		assert.Equal(t, migration.StatusWhatIf, s)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		var s migration.Status
		assert.Error(t, s.UnmarshalCSV("Done"))
	})
}

func TestRow_MissingTargetFields(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		assert.Empty(t, completeRow().MissingTargetFields())
	})

	t.Run("missing fields are named", func(t *testing.T) {
		row := completeRow()
		row.TargetAppServicePlan = ""
		row.NewAppName = "  "
		assert.Equal(t, []string{"TargetAppServicePlan", "NewAppName"}, row.MissingTargetFields())
	})
}

func TestRow_ValidateNewAppName(t *testing.T) {
	for _, tt := range []struct {
		name  string
		valid bool
	}{
		{"my-app-new", true},
		{"ab", true},
		{"App01", true},
		{"a", false},
		{"-leading", false},
		{"trailing-", false},
		{"under_score", false},
		{"dotted.name", false},
		{"a123456789012345678901234567890123456789012345678901234567890", false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			row := completeRow()
			row.NewAppName = tt.name
			err := row.ValidateNewAppName()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRow_Mark(t *testing.T) {
	row := completeRow()
	now := time.Date(2024, 3, 1, 12, 30, 15, 500, time.UTC)

	row.Mark(migration.StatusFailed, "boom", now)

	assert.Equal(t, migration.StatusFailed, row.Status())
	assert.Equal(t, "boom", row.ImportMessage)
	stamp, err := row.ImportTimestamp.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:30:15Z", stamp)
}

func TestRow_Refs(t *testing.T) {
	row := completeRow()
	assert.Equal(t, "source-sub/source-rg/my-app", row.SourceRef().String())
	assert.Equal(t, "target-sub/target-rg/my-app-new", row.TargetRef().String())
}

func TestCount(t *testing.T) {
	rows := []*migration.Row{
		{ImportStatus: migration.StatusSuccess},
		{ImportStatus: migration.StatusSuccess},
		{ImportStatus: migration.StatusFailed},
		{},
	}
	counts := migration.Count(rows)
	assert.Equal(t, 2, counts[migration.StatusSuccess])
	assert.Equal(t, 1, counts[migration.StatusFailed])
	assert.Equal(t, 1, counts[migration.StatusPending])
	assert.Zero(t, counts[migration.StatusSkipped])
}
