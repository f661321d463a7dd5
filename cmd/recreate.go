package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schematic-io/schematic/config"
	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/ddl"
	"github.com/schematic-io/schematic/utils"
)

var (
	recreateFile  string
	recreateForce bool
)

func init() {
	recreateCmd.Flags().StringVarP(&recreateFile, "file", "f", "", "Meta-model file (default: MODEL_META_PATH)")
	recreateCmd.Flags().BoolVar(&recreateForce, "force", false, "Confirm dropping every model table before recreating")
}

var recreateCmd = &cobra.Command{
	Use:   "recreate",
	Short: "Drop all model tables and create them fresh (destructive)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !recreateForce {
			return fmt.Errorf("recreate drops every table in the model; re-run with --force to confirm")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := utils.NewLogger(cfg.LogLevel)
		defer log.Sync()

		model, err := loadSanitizedMeta(metaPath(cfg, recreateFile), log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		conn, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := ddl.DropAll(ctx, conn, model, log); err != nil {
			return err
		}
		if err := ddl.Materialize(ctx, conn, model, log); err != nil {
			return err
		}
		fmt.Printf("✅ Recreated %d table(s)\n", len(model.Tables))
		return nil
	},
}
