package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schematic-io/schematic/config"
	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/ddl"
	"github.com/schematic-io/schematic/loader"
	"github.com/schematic-io/schematic/schema"
	"github.com/schematic-io/schematic/utils"
)

var createFile string

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Meta-model file (default: MODEL_META_PATH)")
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create missing tables from the meta-model (create-only, never alters)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := utils.NewLogger(cfg.LogLevel)
		defer log.Sync()

		model, err := loadSanitizedMeta(metaPath(cfg, createFile), log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		conn, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := ddl.Materialize(ctx, conn, model, log); err != nil {
			return err
		}
		fmt.Printf("✅ Schema materialized (%d tables in model)\n", len(model.Tables))
		return nil
	},
}

func metaPath(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.MetaPath
}

func loadSanitizedMeta(path string, log *zap.Logger) (*schema.Model, error) {
	model, err := loader.LoadMeta(path)
	if err != nil {
		return nil, err
	}
	rep, err := schema.Sanitize(model)
	if err != nil {
		return nil, err
	}
	log.Info("loaded meta-model",
		zap.String("path", path),
		zap.Int("tables", len(model.Tables)),
		zap.Int("fkFixes", rep.FKFixes),
		zap.Int("fkDefaulted", rep.FKDefaulted),
	)
	return model, nil
}
