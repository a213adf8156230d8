package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-LessonBookingService/internal/config"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/database"
)

// commandContext лениво загружает конфигурацию и открывает базу
type commandContext struct {
	configPath *string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configPath: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Lesson booking service admin CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.toml", "Configuration file path")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSlotsCommand(ctx))
	rootCmd.AddCommand(newQuoteCommand(ctx))

	return rootCmd
}

func (c *commandContext) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// openDB открывает базу из конфигурации; закрывает вызывающий
func (c *commandContext) openDB(ctx context.Context) (*sql.DB, database.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, database.Options{}, err
	}

	opts, err := cfg.Database.Options()
	if err != nil {
		return nil, opts, err
	}

	db, err := database.Open(ctx, opts)
	if err != nil {
		return nil, opts, fmt.Errorf("open database: %w", err)
	}
	return db, opts, nil
}
