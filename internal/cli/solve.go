package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/millrun-io/millrun/internal/domain"
	"github.com/millrun-io/millrun/internal/solver"
)

func init() {
	solveCmd.Flags().DurationVar(&solveBudget, "budget", 60*time.Second, "Search time budget")
	solveCmd.Flags().IntVar(&solveWorkers, "workers", 0, "Parallel search workers (0 = auto)")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Emit the raw result as JSON")
	rootCmd.AddCommand(solveCmd)
}

var (
	solveBudget  time.Duration
	solveWorkers int
	solveJSON    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve SCENARIO.toml",
	Short: "Solve a scheduling scenario from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func runSolve(cmd *cobra.Command, args []string) error {
	var sc domain.Scenario
	if _, err := toml.DecodeFile(args[0], &sc); err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}

	opts := solver.DefaultOptions()
	opts.TimeBudget = solveBudget
	opts.Workers = solveWorkers

	res, err := solver.Solve(context.Background(), sc, opts)
	if err != nil {
		return err
	}

	if solveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(res)
	return nil
}

func printResult(res domain.Result) {
	fmt.Printf("Status: %s\n", res.Status)
	if res.Message != "" {
		fmt.Println(res.Message)
		return
	}
	fmt.Printf("Makespan: %d hours (from %s)\n\n", res.Makespan, res.StartTime)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MACHINE\tORDER\tOPERATION\tSTART\tEND\tSETUP")
	for _, e := range res.Schedule {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			e.Machine, e.Order, e.Operation, e.StartTime, e.EndTime, e.SetupTime)
	}
	w.Flush()

	if len(res.SkippedOrders) > 0 {
		fmt.Printf("\nSkipped orders (unknown product): %v\n", res.SkippedOrders)
	}

	if len(res.Violations) > 0 {
		fmt.Printf("\nDeadline violations (%d hours total):\n", res.TotalViolationHours)
		for _, v := range res.Violations {
			fmt.Printf("  %s x%d: due hour %d, finished hour %d (%d late)\n",
				v.Product, v.Quantity, v.Deadline, v.ActualCompletion, v.ViolationHours)
		}
	} else {
		fmt.Println("\nAll deadlines met.")
	}
	fmt.Printf("Solved in %s\n", res.SolveTime.Round(time.Millisecond))
}
