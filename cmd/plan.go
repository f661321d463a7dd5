package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/schematic-io/schematic/config"
	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/diff"
	"github.com/schematic-io/schematic/introspect"
	"github.com/schematic-io/schematic/migrate"
	"github.com/schematic-io/schematic/schema"
	"github.com/schematic-io/schematic/utils"
)

var planFile string

func init() {
	planCmd.Flags().StringVarP(&planFile, "file", "f", "", "Meta-model file (default: MODEL_META_PATH)")
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the additive migration plan without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := utils.NewLogger(cfg.LogLevel)
		defer log.Sync()

		model, err := loadSanitizedMeta(metaPath(cfg, planFile), log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		conn, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		existing, err := introspect.Catalog(ctx, conn)
		if err != nil {
			return err
		}

		d := diff.Compute(model, existing)
		plan := migrate.Build(model, existing, conn.Dialect())

		fp, err := schema.Fingerprint(model)
		if err != nil {
			return err
		}
		gate := migrate.NewGate(fp)
		printPlan(d, plan, gate)
		fmt.Println("PLAN ONLY. No writes will occur.")
		return nil
	},
}

// printPlan shows the diff, plan, and the fingerprint the operator must
// acknowledge; every refusal path reuses it so the operator never has to
// re-run in plan-only mode to get the token.
func printPlan(d *diff.SchemaDiff, plan *migrate.Plan, gate *migrate.Gate) {
	bold := color.New(color.Bold)
	yellow := color.New(color.FgYellow)

	bold.Println("=== SCHEMA DIFF ===")
	fmt.Println(d.Format())
	fmt.Println()
	fmt.Print(plan.Format())
	fmt.Println()
	fmt.Printf("Meta-model fingerprint: %s\n", gate.Fingerprint)
	yellow.Printf("Acknowledgment token (--ack): %s\n", schema.AckPrefix(gate.Fingerprint))
	gate.MarkPlanned()
}
