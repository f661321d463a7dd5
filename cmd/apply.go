package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schematic-io/schematic/config"
	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/diff"
	"github.com/schematic-io/schematic/introspect"
	"github.com/schematic-io/schematic/migrate"
	"github.com/schematic-io/schematic/schema"
	"github.com/schematic-io/schematic/utils"
)

var (
	applyFile          string
	applyAck           string
	applyAllowRemote   bool
	applyAllowNonEmpty bool
)

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Meta-model file (default: MODEL_META_PATH)")
	applyCmd.Flags().StringVar(&applyAck, "ack", "", "Acknowledgment token: prefix of the reviewed meta-model fingerprint")
	applyCmd.Flags().BoolVar(&applyAllowRemote, "allow-remote", false, "Confirm applying against a non-local database")
	applyCmd.Flags().BoolVar(&applyAllowNonEmpty, "allow-non-empty", false, "Confirm applying against a database that already contains tables")
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the additive migration plan (gated by acknowledgment)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := utils.NewLogger(cfg.LogLevel)
		defer log.Sync()

		model, err := loadSanitizedMeta(metaPath(cfg, applyFile), log)
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
		hadTables := len(existing) > 0

		d := diff.Compute(model, existing)
		plan := migrate.Build(model, existing, conn.Dialect())

		fp, err := schema.Fingerprint(model)
		if err != nil {
			return err
		}
		gate := migrate.NewGate(fp)
		printPlan(d, plan, gate)

		opts := migrate.Options{
			ApplyRequested: true,
			AckToken:       applyAck,
			AllowRemote:    applyAllowRemote,
			AllowNonEmpty:  applyAllowNonEmpty,
		}
		if err := gate.Authorize(opts, conn.Local(), hadTables); err != nil {
			return err
		}

		if plan.Empty() {
			fmt.Println("✅ Nothing to apply.")
			return nil
		}

		applied, failed := migrate.Apply(ctx, conn, plan, log)
		fmt.Printf("Applied %d statement(s), %d failure(s).\n", applied, failed)

		after, err := introspect.Catalog(ctx, conn)
		if err != nil {
			return err
		}
		residual := diff.Compute(model, after)
		// Missing tables are out of apply's scope; convergence is judged on
		// the columns the plan was responsible for.
		if len(residual.MissingColumns) > 0 {
			fmt.Println(residual.Format())
			return fmt.Errorf("%w:\n%s", migrate.ErrNotConverged, residual.Format())
		}

		fmt.Println("✅ Apply converged.")
		return nil
	},
}
