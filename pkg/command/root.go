package command

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/client"
	"github.com/nais/appsvcmigrator/pkg/config"
	"github.com/nais/appsvcmigrator/pkg/logger"
	"github.com/nais/appsvcmigrator/pkg/metrics"
	"github.com/nais/appsvcmigrator/pkg/report"
	"github.com/nais/appsvcmigrator/pkg/transaction"
)

// ClientFactory signs in and returns a client for the configured tenant.
type ClientFactory func(ctx context.Context, cfg *config.Config) (azure.Client, *azure.Account, error)

type env struct {
	newClient ClientFactory
	out       io.Writer
}

// NewRootCommand returns the appsvcmigrator command tree, signing in through the Azure SDK.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(client.New, os.Stdout)
}

// NewRootCommandWith returns the command tree using the given client factory and report output.
func NewRootCommandWith(newClient ClientFactory, out io.Writer) *cobra.Command {
	e := env{newClient: newClient, out: out}

	root := &cobra.Command{
		Use:          "appsvcmigrator",
		Short:        "Migrate Azure App Service apps between subscriptions, resource groups and plans",
		SilenceUsage: true,
	}
	root.AddCommand(
		e.exportCommand(),
		e.importCommand(),
		e.copyCommand(),
		e.scanCommand(),
		e.compareCommand(),
		e.whoamiCommand(),
	)
	return root
}

// session is the signed-in state of a single command invocation.
type session struct {
	cfg     *config.Config
	format  string
	client  azure.Client
	account *azure.Account
	tx      transaction.Transaction
	out     io.Writer
	close   func()
}

// start loads configuration, checks required keys and signs in. Every failure here is fatal.
func (e env) start(cmd *cobra.Command, required ...string) (*session, error) {
	cfg, err := config.New(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger.SetupLogrus(cfg.LogFormat, cfg.Debug)
	cfg.Print([]string{config.AuthClientSecret})

	if err := cfg.Validate(append([]string{config.Tenant}, required...)); err != nil {
		return nil, err
	}

	format, err := cfg.ReportFormat()
	if err != nil {
		return nil, err
	}

	closer := func() {}
	if cfg.Debug {
		closer, err = logger.SetupAzureSDK()
		if err != nil {
			return nil, fmt.Errorf("setting up Azure SDK logging: %w", err)
		}
	}

	c, account, err := e.newClient(cmd.Context(), cfg)
	if err != nil {
		closer()
		return nil, err
	}

	tx := transaction.New(cmd.Context(), cmd.Name()).WithWhatIf(cfg.WhatIf).WithForce(cfg.Force)
	tx.Logger.WithFields(log.Fields{
		"tenant":    account.TenantID,
		"principal": account.PrincipalName,
	}).Info("signed in")

	return &session{
		cfg:     cfg,
		format:  format,
		client:  c,
		account: account,
		tx:      tx,
		out:     e.out,
		close:   closer,
	}, nil
}

// report prints the report to the console and, with --output, writes it to a file.
func (s *session) report(lines []string, v any) error {
	var err error
	if s.format == config.FormatText {
		err = report.Print(s.out, lines)
	} else {
		err = report.Write(s.out, s.format, lines, v)
	}
	if err != nil {
		return fmt.Errorf("printing report: %w", err)
	}

	if len(s.cfg.Output) == 0 {
		return nil
	}
	if err := report.WriteFile(s.cfg.Output, s.format, lines, v); err != nil {
		return err
	}
	s.tx.Logger.Infof("report written to %s", s.cfg.Output)
	return nil
}

// finish detaches loggers and writes the metrics textfile.
func (s *session) finish() error {
	s.close()
	return metrics.WriteTextfile(s.cfg.MetricsTextfile)
}

// run starts a session, hands it to fn and always finishes it.
func (e env) run(cmd *cobra.Command, required []string, fn func(s *session) error) error {
	s, err := e.start(cmd, required...)
	if err != nil {
		return err
	}

	err = fn(s)
	if ferr := s.finish(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
