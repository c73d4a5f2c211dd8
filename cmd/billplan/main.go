package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "billplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "billplan",
		Short: "Paycheck bill planner",
		Long: "Assigns every upcoming bill to the paycheck that should pay it, " +
			"flags late and underfunded bills, and tracks savings per paycheck.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", "Settings file (default $BILLPLAN_CONFIG or ~/.config/billplan/config.toml)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Override database path (\":memory:\" for a throwaway store)")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		scheduleCmd(opts),
		summaryCmd(opts),
		validateCmd(opts),
		moveCmd(opts),
		overridesCmd(opts),
		breakEvenCmd(opts),
		compareCmd(opts),
		serveCmd(opts),
		tuiCmd(opts),
		versionCmd(),
	)
	return root
}

var rootCmd = newRootCmd()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
