package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/comparison"
	"github.com/nais/appsvcmigrator/pkg/config"
	"github.com/nais/appsvcmigrator/pkg/importer"
	"github.com/nais/appsvcmigrator/pkg/inventory"
	"github.com/nais/appsvcmigrator/pkg/migration"
	"github.com/nais/appsvcmigrator/pkg/report"
	"github.com/nais/appsvcmigrator/pkg/scanner"
	"github.com/nais/appsvcmigrator/pkg/settings"
)

var pairKeys = []string{
	config.SourceSubscription,
	config.SourceResourceGroup,
	config.SourceApp,
	config.TargetResourceGroup,
	config.TargetApp,
}

func (e env) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the apps in scope to a migration CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.run(cmd, []string{config.CSV}, func(s *session) error {
				rows, err := inventory.NewCollector(s.client).Collect(s.tx, scope(s.cfg))
				if err != nil {
					return err
				}

				store := migration.NewStore(s.cfg.CSV)
				if err := store.Save(rows); err != nil {
					return err
				}
				return s.report(report.ExportSummaryLines(rows, store.Path()), rows)
			})
		},
	}
	config.GlobalFlags(cmd.Flags())
	config.ScopeFlags(cmd.Flags())
	config.CSVFlag(cmd.Flags(), "Path of the migration CSV to write")
	config.OutputFlags(cmd.Flags())
	return cmd
}

func (e env) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create the target apps listed in a migration CSV and copy their settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.run(cmd, []string{config.CSV}, func(s *session) error {
				store := migration.NewStore(s.cfg.CSV)
				rows, err := store.Load()
				if err != nil {
					return err
				}

				err = importer.New(s.client, store, copyOptions(s.cfg)).Run(s.tx, rows)
				if rerr := s.report(report.ImportSummaryLines(rows), rows); rerr != nil && err == nil {
					err = rerr
				}
				return err
			})
		},
	}
	config.GlobalFlags(cmd.Flags())
	config.CSVFlag(cmd.Flags(), "Path of the migration CSV to read and update")
	config.WhatIfFlag(cmd.Flags())
	config.ForceFlag(cmd.Flags(), "Copy settings into target apps that already exist instead of failing the row")
	config.CopyFlags(cmd.Flags())
	config.OutputFlags(cmd.Flags())
	return cmd
}

func (e env) copyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy app settings, connection strings and general configuration from one app to another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.run(cmd, pairKeys, func(s *session) error {
				source, target := pair(s.cfg)
				opts := copyOptions(s.cfg)
				opts.Overwrite = s.tx.Force
				opts.WhatIf = s.tx.WhatIf

				r, err := settings.NewCopier(s.client, s.client).Copy(s.tx.ForApp(target), source, target, opts)
				if err != nil {
					return err
				}
				return s.report(report.CopyLines(*r), r)
			})
		},
	}
	config.GlobalFlags(cmd.Flags())
	config.PairFlags(cmd.Flags())
	config.WhatIfFlag(cmd.Flags())
	config.ForceFlag(cmd.Flags(), "Overwrite target settings whose values differ from the source")
	config.CopyFlags(cmd.Flags())
	config.OutputFlags(cmd.Flags())
	return cmd
}

func (e env) scanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the configuration that must be recreated by hand after migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.run(cmd, nil, func(s *session) error {
				refs, err := scanRefs(s)
				if err != nil {
					return err
				}

				configs := scanner.New(s.client).ScanAll(s.tx, refs)
				return s.report(report.ConfigurationsLines(configs), configs)
			})
		},
	}
	config.GlobalFlags(cmd.Flags())
	config.ScopeFlags(cmd.Flags())
	config.CSVFlag(cmd.Flags(), "Scan the source apps of this migration CSV instead of the scope flags")
	config.OutputFlags(cmd.Flags())
	return cmd
}

func (e env) compareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare source and target apps and report whether the targets are ready for production",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			required := pairKeys
			if csv, _ := cmd.Flags().GetString(config.CSV); len(csv) > 0 {
				required = nil
			}

			return e.run(cmd, required, func(s *session) error {
				opts := comparison.Options{IgnoreValues: s.cfg.IgnoreValues}

				if len(s.cfg.CSV) == 0 {
					source, target := pair(s.cfg)
					c := comparison.CompareApps(s.tx.ForApp(source), s.client, source, target, opts)
					return s.report(report.ComparisonLines(c), c)
				}

				rows, err := migration.NewStore(s.cfg.CSV).Load()
				if err != nil {
					return err
				}
				comparisons := comparison.CompareRows(s.tx, s.client, rows, opts)
				return s.report(report.ComparisonsLines(comparisons), comparisons)
			})
		},
	}
	config.GlobalFlags(cmd.Flags())
	config.PairFlags(cmd.Flags())
	config.CSVFlag(cmd.Flags(), "Compare every successfully imported row of this migration CSV instead of a single pair")
	config.IgnoreValuesFlag(cmd.Flags())
	config.OutputFlags(cmd.Flags())
	return cmd
}

func (e env) whoamiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity used against Azure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.run(cmd, nil, func(s *session) error {
				a := s.account
				lines := []string{
					fmt.Sprintf("Tenant:    %s", a.TenantID),
					fmt.Sprintf("Principal: %s", a.PrincipalName),
					fmt.Sprintf("Object ID: %s", a.ObjectID),
				}
				if len(a.ApplicationID) > 0 {
					lines = append(lines, fmt.Sprintf("App ID:    %s", a.ApplicationID))
				}
				if !a.ExpiresOn.IsZero() {
					lines = append(lines, fmt.Sprintf("Token expires: %s", a.ExpiresOn.UTC().Format(time.RFC3339)))
				}
				return s.report(lines, a)
			})
		},
	}
	config.GlobalFlags(cmd.Flags())
	config.OutputFlags(cmd.Flags())
	return cmd
}

func scope(cfg *config.Config) inventory.Scope {
	return inventory.Scope{
		Subscription:  cfg.Subscription,
		ResourceGroup: cfg.ResourceGroup,
		App:           cfg.App,
	}
}

func pair(cfg *config.Config) (azure.AppRef, azure.AppRef) {
	source := azure.AppRef{
		SubscriptionID: cfg.Source.Subscription,
		ResourceGroup:  cfg.Source.ResourceGroup,
		Name:           cfg.Source.App,
	}
	target := azure.AppRef{
		SubscriptionID: cfg.Target.Subscription,
		ResourceGroup:  cfg.Target.ResourceGroup,
		Name:           cfg.Target.App,
	}
	return source, target
}

func copyOptions(cfg *config.Config) settings.Options {
	return settings.Options{
		AppSettings:       cfg.Include.AppSettings,
		ConnectionStrings: cfg.Include.ConnectionStrings,
		GeneralConfig:     cfg.Include.GeneralConfig,
		Include:           cfg.Filter.Include,
		Exclude:           cfg.Filter.Exclude,
	}
}

// scanRefs returns the source apps of the migration CSV, or the apps in scope when no CSV is given.
func scanRefs(s *session) ([]azure.AppRef, error) {
	if len(s.cfg.CSV) > 0 {
		rows, err := migration.NewStore(s.cfg.CSV).Load()
		if err != nil {
			return nil, err
		}
		refs := make([]azure.AppRef, 0, len(rows))
		for _, row := range rows {
			refs = append(refs, row.SourceRef())
		}
		return refs, nil
	}

	apps, err := inventory.NewCollector(s.client).Apps(s.tx, scope(s.cfg))
	if err != nil {
		return nil, err
	}
	refs := make([]azure.AppRef, 0, len(apps))
	for _, app := range apps {
		refs = append(refs, app.Ref())
	}
	return refs, nil
}
