package migration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/migration"
)

const header = "SourceSubscriptionId,SourceResourceGroup,SourceAppName,SourceAppServicePlan,SourceLocation,SourceSku,SourceKind," +
	"TargetSubscriptionId,TargetResourceGroup,TargetAppServicePlan,TargetLocation,TargetSku,NewAppName," +
	"Skip,ImportStatus,ImportMessage,ImportTimestamp"

func TestRead(t *testing.T) {
	input := header + "\n" +
		"sub,rg,app-a,plan,westeurope,P1v3,app,sub,rg-new,plan-new,norwayeast,P1v3,app-a-new,No,,,\n" +
		"sub,rg,app-b,plan,westeurope,P1v3,\"app,linux\",sub,rg-new,plan-new,norwayeast,P1v3,app-b-new,Yes,Success,done,2024-03-01T12:00:00Z\n"

	rows, err := migration.Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	t.Run("empty status reads as pending", func(t *testing.T) {
		assert.Equal(t, migration.StatusPending, rows[0].ImportStatus)
		assert.False(t, bool(rows[0].Skip))
		assert.True(t, rows[0].ImportTimestamp.IsZero())
	})

	t.Run("populated row", func(t *testing.T) {
		assert.Equal(t, "app,linux", rows[1].SourceKind)
		assert.True(t, bool(rows[1].Skip))
		assert.Equal(t, migration.StatusSuccess, rows[1].ImportStatus)
		assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), rows[1].ImportTimestamp.UTC())
	})
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migration.csv")
	store := migration.NewStore(path)

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Load()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	rows := []*migration.Row{
		{
			SourceSubscriptionId: "sub",
			SourceResourceGroup:  "rg",
			SourceAppName:        "app-a",
			TargetSubscriptionId: "sub",
			NewAppName:           "app-a-new",
			ImportStatus:         migration.StatusPending,
		},
	}
	rows[0].Mark(migration.StatusFailed, "creating app: conflict, try again", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, store.Save(rows))

	t.Run("header uses column names", func(t *testing.T) {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), header+"\n"))
	})

	t.Run("saved rows load back", func(t *testing.T) {
		loaded, err := store.Load()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "app-a", loaded[0].SourceAppName)
		assert.Equal(t, migration.StatusFailed, loaded[0].ImportStatus)
		assert.Equal(t, "creating app: conflict, try again", loaded[0].ImportMessage)
		assert.Equal(t, rows[0].ImportTimestamp.Unix(), loaded[0].ImportTimestamp.Unix())
	})

	t.Run("no temporary files are left behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("new file is readable by others", func(t *testing.T) {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	})

	t.Run("saving keeps the permissions of the existing file", func(t *testing.T) {
		require.NoError(t, os.Chmod(path, 0o664))
		require.NoError(t, store.Save(rows))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o664), info.Mode().Perm())
	})
}
