package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/schematic-io/schematic/compiler"
	"github.com/schematic-io/schematic/config"
	"github.com/schematic-io/schematic/loader"
	"github.com/schematic-io/schematic/schema"
	"github.com/schematic-io/schematic/utils"
)

var (
	compileInput     string
	compileOutput    string
	compileSchemaURI string
	compileTypes     string
	compileNormalize bool
	compileQuiet     bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileInput, "file", "f", "entities.schema.json", "Entity document to compile (JSON or YAML)")
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "schema.meta.json", "Path to write the meta-model")
	compileCmd.Flags().StringVar(&compileSchemaURI, "schema-uri", compiler.DefaultSchemaURI, "Value for the output $schema field")
	compileCmd.Flags().StringVar(&compileTypes, "types", "core", "Type set: 'core' (UUID/VARCHAR/INTEGER/TIMESTAMP) or 'full'")
	compileCmd.Flags().BoolVar(&compileNormalize, "fk-normalize", false, "Normalize pointer-style FK hints to plain table/column names (opt-in)")
	compileCmd.Flags().BoolVarP(&compileQuiet, "quiet", "q", false, "Suppress per-entity diagnostics")
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile an entity document into the canonical meta-model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := utils.NewLogger(cfg.LogLevel)
		defer log.Sync()

		mode := compiler.TypeMode(compileTypes)
		if mode != compiler.TypeModeCore && mode != compiler.TypeModeFull {
			return fmt.Errorf("invalid --types %q (want 'core' or 'full')", compileTypes)
		}

		doc, err := loader.LoadDocument(compileInput)
		if err != nil {
			return err
		}

		model, diags, err := compiler.Assemble(doc, compiler.Options{
			SchemaURI:   compileSchemaURI,
			TypeMode:    mode,
			FKNormalize: compileNormalize,
			Logger:      log,
		})
		if err != nil {
			return err
		}

		if !compileQuiet {
			yellow := color.New(color.FgYellow)
			for _, d := range diags {
				yellow.Printf("  • %s\n", d)
			}
		}

		if err := model.Validate(); err != nil {
			return fmt.Errorf("compiled meta-model is invalid: %w", err)
		}
		// Repair pointer-style FK targets before saving: the written artifact
		// is exactly what plan and apply will load, so the fingerprint printed
		// here is a usable ack token.
		rep, err := schema.Sanitize(model)
		if err != nil {
			return err
		}
		if !compileQuiet && (rep.FKFixes > 0 || rep.FKDefaulted > 0) {
			color.New(color.FgYellow).Printf("  • sanitized foreign keys: fixes=%d defaulted=%d\n", rep.FKFixes, rep.FKDefaulted)
		}
		if err := loader.SaveMeta(compileOutput, model); err != nil {
			return err
		}

		fp, err := schema.Fingerprint(model)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Wrote %s (%d tables)\n", compileOutput, len(model.Tables))
		fmt.Printf("Fingerprint: %s\n", fp)
		return nil
	},
}
