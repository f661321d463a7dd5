package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schematic-io/schematic/migrate"
)

var rootCmd = &cobra.Command{
	Use:   "schematic",
	Short: "Compile entity schemas into a relational meta-model and evolve live databases additively",
	Long: `schematic compiles a JSON-Schema-style entity document into a canonical
relational meta-model, materializes it against a live database, and keeps the
database in sync through additive-only migrations.

Examples:

  schematic compile -f entities.schema.json -o schema.meta.json
  schematic create
  schematic plan
  schematic apply --ack <fingerprint-prefix>
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Refusal states exit with distinguishable codes:
// 2 for safety-gate refusals, 3 for a residual diff after apply, 1 otherwise.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case migrate.IsRefusal(err):
		return 2
	case errors.Is(err, migrate.ErrNotConverged):
		return 3
	}
	return 1
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(recreateCmd)
}
