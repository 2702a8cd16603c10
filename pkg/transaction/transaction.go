package transaction

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nais/appsvcmigrator/pkg/azure"
)

// Transaction carries the per-run state shared by every step of a command.
type Transaction struct {
	Ctx     context.Context
	Logger  log.Entry
	ID      string
	Command string
	WhatIf  bool
	Force   bool
}

func New(ctx context.Context, command string) Transaction {
	id := uuid.New().String()
	return Transaction{
		Ctx:     ctx,
		ID:      id,
		Command: command,
		Logger: *log.WithFields(log.Fields{
			"command": command,
			"run_id":  id,
		}),
	}
}

func (t Transaction) WithWhatIf(whatIf bool) Transaction {
	t.WhatIf = whatIf
	return t
}

func (t Transaction) WithForce(force bool) Transaction {
	t.Force = force
	return t
}

// ForApp returns a copy whose logger is scoped to the given app.
func (t Transaction) ForApp(ref azure.AppRef) Transaction {
	t.Logger = *t.Logger.WithFields(log.Fields{
		"subscription":   ref.SubscriptionID,
		"resource_group": ref.ResourceGroup,
		"app":            ref.Name,
	})
	return t
}

func (t Transaction) WithFields(fields log.Fields) Transaction {
	t.Logger = *t.Logger.WithFields(fields)
	return t
}
