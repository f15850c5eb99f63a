package cli

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/millrun-io/millrun/internal/demo"
	"github.com/millrun-io/millrun/internal/solver"
)

func init() {
	demoCmd.Flags().StringVar(&demoSize, "size", "small", "Scenario size: small, large, or extreme")
	demoCmd.Flags().BoolVar(&demoTight, "tight", false, "Use impossible deadlines (small size only)")
	demoCmd.Flags().Int64Var(&demoSeed, "seed", 0, "Random seed for large and extreme sizes")
	demoCmd.Flags().BoolVar(&demoSolve, "solve", false, "Solve the scenario instead of printing it")
	rootCmd.AddCommand(demoCmd)
}

var (
	demoSize  string
	demoTight bool
	demoSeed  int64
	demoSolve bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate a demo scenario as TOML, or solve it directly",
	Long: `Generate a demo scenario and print it as TOML, ready to save and
feed back to 'millrun solve'. With --solve the scenario is scheduled
immediately and the timetable printed instead.`,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	sc := demo.BySize(demoSize, demoTight, demoSeed)

	if demoSolve {
		opts := solver.DefaultOptions()
		res, err := solver.Solve(context.Background(), sc, opts)
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	}

	return toml.NewEncoder(os.Stdout).Encode(sc)
}
