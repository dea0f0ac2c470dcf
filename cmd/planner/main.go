package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
	"github.com/LuizHUlmi/profiles-sub000/pkg/dateutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Personal financial planning projections",
	Long: `Projects yearly cash flow and monthly net worth for a client plan,
compares what-if scenarios and solves for break-even savings targets.`,
	SilenceUsage: true,
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planner %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path, bi.GoVersion)
			}
		},
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Plan file %s is valid: profile %s, %d scenarios, %d projects, %d cash flow items\n",
			args[0], plan.Profile.ID, len(plan.Scenarios), len(plan.Projects), len(plan.CashFlowItems))

		birthYear, hasBirth := dateutil.BirthYear(plan.Profile.BirthDate)
		for _, item := range plan.CashFlowItems {
			fmt.Fprintf(out, "  %-28s %-8s %s\n", item.Description, item.Kind, activeYears(item, birthYear, hasBirth))
		}
		return nil
	},
}

// activeYears describes the calendar years an item contributes to the cash flow
func activeYears(item domain.CashFlowItem, birthYear int, hasBirth bool) string {
	if item.StartType == domain.AnchorAge && !hasBirth {
		return "needs a birth date"
	}
	if item.DurationYears <= 0 {
		return "never active"
	}
	return fmt.Sprintf("%d-%d", item.StartYear(birthYear), item.EndYear(birthYear)-1)
}

// newCLILogger returns a text logger on stderr; debug lowers the level
func newCLILogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// loadPlan parses the plan file and builds an engine logging through logrus
func loadPlan(cmd *cobra.Command, path string) (*domain.Plan, *calculation.CalculationEngine, error) {
	plan, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}

	debugMode, _ := cmd.Flags().GetBool("debug")
	engine := calculation.NewCalculationEngine().WithCache(calculation.NewProjectionCache(0))
	engine.SetLogger(newCLILogger(debugMode))
	engine.Debug = debugMode
	return plan, engine, nil
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of calculations")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(cashFlowCmd)
	rootCmd.AddCommand(netWorthCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
