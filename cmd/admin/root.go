package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"kbcportal/config"
	"kbcportal/internal/domain"
	"kbcportal/internal/infrastructure/database"
	"kbcportal/internal/infrastructure/vimeo"
)

type dbOpener func(configDir string) (*gorm.DB, error)

// videoLookup is the part of the video host client the CLI uses.
type videoLookup interface {
	ListVideos(ctx context.Context) ([]domain.Video, error)
	ListVideosByIDs(ctx context.Context, ids []string) ([]domain.Video, error)
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
}

type videoOpener func(configDir string) (videoLookup, error)

func openVideoClient(configDir string) (videoLookup, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.VimeoAccessToken == "" {
		return nil, errors.New("VIMEO_ACCESS_TOKEN is required")
	}
	return vimeo.NewClient(vimeo.Options{
		BaseURL:  cfg.VimeoAPIBase,
		Token:    cfg.VimeoAccessToken,
		PerPage:  cfg.VimeoPerPage,
		MaxPages: cfg.VimeoMaxPages,
		Timeout:  cfg.VimeoTimeout,
	}, nil), nil
}

func openDatabase(configDir string) (*gorm.DB, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return database.Open(cfg.DSN())
}

// commandContext opens the database once, on first use.
type commandContext struct {
	configDir  *string
	open       dbOpener
	openVideos videoOpener
	db         *gorm.DB
}

func (c *commandContext) videos() (videoLookup, error) {
	return c.openVideos(*c.configDir)
}

func (c *commandContext) database() (*gorm.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := c.open(*c.configDir)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	c.db = db
	return db, nil
}

func newRootCommand(open dbOpener, openVideos videoOpener) *cobra.Command {
	var configDir string
	ctx := &commandContext{configDir: &configDir, open: open, openVideos: openVideos}

	rootCmd := &cobra.Command{
		Use:           "kbc-admin",
		Short:         "KBC portal maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory holding app.env")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newCreateAdminCommand(ctx))
	rootCmd.AddCommand(newUsersCommand(ctx))
	rootCmd.AddCommand(newVideosCommand(ctx))

	return rootCmd
}
