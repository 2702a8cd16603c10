package transaction_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

func TestNew(t *testing.T) {
	tx := transaction.New(context.Background(), "import")

	_, err := uuid.Parse(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "import", tx.Command)
	assert.Equal(t, tx.ID, tx.Logger.Data["run_id"])
	assert.False(t, tx.WhatIf)
	assert.False(t, tx.Force)

	t.Run("every run gets its own id", func(t *testing.T) {
		other := transaction.New(context.Background(), "import")
		assert.NotEqual(t, tx.ID, other.ID)
	})
}

func TestTransaction_ForApp(t *testing.T) {
	tx := transaction.New(context.Background(), "copy").WithWhatIf(true).WithForce(true)
	scoped := tx.ForApp(azure.AppRef{SubscriptionID: "sub", ResourceGroup: "rg", Name: "app"})

	assert.True(t, scoped.WhatIf)
	assert.True(t, scoped.Force)
	assert.Equal(t, "app", scoped.Logger.Data["app"])
	assert.Equal(t, tx.ID, scoped.Logger.Data["run_id"])

	t.Run("original logger is left untouched", func(t *testing.T) {
		assert.NotContains(t, tx.Logger.Data, "app")
	})
}
