package main

import (
	"fmt"

	"CapybaraPetService/internal/database/seed"
	"CapybaraPetService/pkg/database"
	"CapybaraPetService/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedDevUser bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB, _ string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data (pet types, emotions, weather assets)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB, appEnv string) error {
			seeder := seed.NewSeeder(db, logger.NewLogger("info", "console"))
			if err := seeder.SeedReferenceData(cmd.Context()); err != nil {
				return err
			}
			if seedDevUser {
				if err := seeder.SeedTestUser(cmd.Context(), appEnv); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reference data seeded")
			return nil
		})
	},
}

// withDB подключается к PostgreSQL, применяет миграции и вызывает run
func withDB(run func(db *gorm.DB, appEnv string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		return err
	}
	return run(db, cfg.AppEnv)
}

func init() {
	seedCmd.Flags().BoolVar(&seedDevUser, "dev-user", false, "Also create the development test user (development env only)")
	rootCmd.AddCommand(migrateCmd, seedCmd)
}
