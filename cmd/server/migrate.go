package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"lireddit-server/internal/db"
)

// migrator is the part of db.Migrator the subcommands drive.
type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Close() error
}

// NewMigrateCmd creates the migrate subcommand and its children.
func NewMigrateCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back or inspect the schema migrations embedded in the binary.`,
	}

	open := func(cmd *cobra.Command) (migrator, error) {
		cfg, err := loadConfig(cmd, *configFile)
		if err != nil {
			return nil, err
		}
		m, err := db.NewMigrator(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "open migrator").Wrap(err)
		}
		return m, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open(cmd)
				if err != nil {
					return err
				}
				return runMigrateUp(cmd, m)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open(cmd)
				if err != nil {
					return err
				}
				return runMigrateDown(cmd, m)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open(cmd)
				if err != nil {
					return err
				}
				return runMigrateVersion(cmd, m)
			},
		},
	)

	return cmd
}

func runMigrateUp(cmd *cobra.Command, m migrator) error {
	defer func() { _ = m.Close() }()

	cmd.Println("Running migrations...")
	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, m migrator) error {
	defer func() { _ = m.Close() }()

	cmd.Println("Rolling back migrations...")
	if err := m.Down(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "roll back migrations").Wrap(err)
	}
	cmd.Println("Rollback completed successfully")
	return nil
}

func runMigrateVersion(cmd *cobra.Command, m migrator) error {
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	if err != nil {
		return oops.Code("MIGRATION_VERSION_FAILED").Wrap(err)
	}
	if dirty {
		cmd.Printf("version %d (dirty)\n", version)
		return nil
	}
	cmd.Printf("version %d\n", version)
	return nil
}
