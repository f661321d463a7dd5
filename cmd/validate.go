package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schematic-io/schematic/loader"
	"github.com/schematic-io/schematic/schema"
)

var validateFile string

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "schema.meta.json", "Meta-model file to validate")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a meta-model file and report its fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loader.LoadMeta(validateFile)
		if err != nil {
			return err
		}

		rep, err := schema.Sanitize(model)
		if err != nil {
			return err
		}
		if rep.FKFixes > 0 || rep.FKDefaulted > 0 {
			fmt.Printf("⚠️  Sanitization would repair: fkFixes=%d fkDefaulted=%d\n", rep.FKFixes, rep.FKDefaulted)
		}

		fp, err := schema.Fingerprint(model)
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s is valid (%d tables)\n", validateFile, len(model.Tables))
		fmt.Printf("Fingerprint: %s\n", fp)
		return nil
	},
}
