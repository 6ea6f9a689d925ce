package main

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"nicks/internal/di"
	"nicks/internal/migration"
	"nicks/internal/snapshot"
	"nicks/internal/structures"
)

func newRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:          "nicks",
		Short:        "Schema migration daemon for the nickname store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "force debug logging")

	root.AddCommand(
		newServeCmd(flags),
		newMigrateCmd(flags),
		newCheckCmd(flags),
		newStatusCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newServeCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Upgrade the store, then serve the read API until stopped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cleanup, err := di.InitApp(flags)
			if err != nil {
				return err
			}
			cleanup()
			return nil
		},
	}
}

func newMigrateCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply every pending migration step up to the target version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := di.InitMigrationService(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			reports, err := svc.Upgrade()
			if perr := printJSON(cmd.OutOrStdout(), reports); perr != nil {
				return perr
			}
			return err
		},
	}
}

func newCheckCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the pre-upgrade verification of the next pending step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := di.InitMigrationService(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			cp, err := svc.Check()
			if err != nil {
				var checkErr *migration.CheckError
				if errors.As(err, &checkErr) {
					return fmt.Errorf("invariant %q does not hold: %w", checkErr.Invariant, checkErr.Err)
				}
				return err
			}
			if cp == nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "store is at the target version")
				return err
			}
			return printJSON(cmd.OutOrStdout(), cp)
		},
	}
}

func newStatusCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the on-chain and target versions and the record count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := di.InitMigrationService(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := svc.Status()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
}

func newExportCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a compressed snapshot of the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, flags, args, "exported", func(m snapshot.ManagerInterface, file string) (int, error) {
				return m.Export(file)
			})
		},
	}
}

func newImportCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Load a snapshot or a nickname seed file into an empty store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, flags, args, "imported", func(m snapshot.ManagerInterface, file string) (int, error) {
				return m.Import(file)
			})
		},
	}
}

func withSnapshot(cmd *cobra.Command, flags *structures.CliFlags, args []string, verb string, fn func(snapshot.ManagerInterface, string) (int, error)) error {
	mgr, cleanup, err := di.InitSnapshotManager(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	file := ""
	if len(args) == 1 {
		file = args[0]
	}
	n, err := fn(mgr, file)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries\n", verb, n)
	return err
}
