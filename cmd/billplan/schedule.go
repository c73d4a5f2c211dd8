package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/billplan/internal/calculation"
	"github.com/rgehrsitz/billplan/internal/output"
	"github.com/rgehrsitz/billplan/internal/report"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func scheduleCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [plan-file]",
		Short: "Compute and print the paycheck schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg, _, err := e.loadPlan(args)
			if err != nil {
				return err
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sched, rec, err := e.compute(cmd.Context(), cfg, st)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			if format == "" {
				format = e.settings.Output.Format
			}
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown format %q (available: %s; aliases: %s)", format,
					strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", "))
			}

			r := output.NewReport(cfg, sched, rec)
			r.Currency = e.settings.Output.CurrencySymbol

			if save, _ := cmd.Flags().GetBool("save"); save {
				name, err := output.WriteFormatted(f, r, output.Extension(f.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", name)
				return nil
			}
			data, err := f.Format(r)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringP("format", "f", "", "Output format (console, json, csv, ics, html); default from settings")
	cmd.Flags().Bool("save", false, "Write to a timestamped file instead of stdout")
	return cmd
}

func summaryCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [plan-file]",
		Short: "Print headline figures for the schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg, _, err := e.loadPlan(args)
			if err != nil {
				return err
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sched, rec, err := e.compute(cmd.Context(), cfg, st)
			if err != nil {
				return err
			}
			sum := report.Summarize(cfg.IncomeSources, sched, rec)

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}

			money := func(v decimal.Decimal) string {
				return output.FormatCurrencyWith(e.settings.Output.CurrencySymbol, v)
			}
			fmt.Fprintf(out, "Paychecks:          %d\n", sum.Paychecks)
			fmt.Fprintf(out, "Monthly income:     %s\n", money(sum.MonthlyIncome))
			fmt.Fprintf(out, "Yearly income:      %s\n", money(sum.YearlyIncome))
			fmt.Fprintf(out, "Savings target:     %s (%s%%)\n", money(sum.SavingsTarget), sum.Savings.Percent.String())
			fmt.Fprintf(out, "Savings deposited:  %s\n", money(sum.SavingsDeposited))
			fmt.Fprintf(out, "Bills placed:       %d totaling %s\n", sum.BillCount, money(sum.TotalBillAmount))
			fmt.Fprintf(out, "Average remaining:  %s\n", money(sum.AverageRemaining))
			fmt.Fprintf(out, "Late:               %d (%d critically)\n", sum.LateCount, sum.CriticallyLateCount)
			fmt.Fprintf(out, "Underfunded:        %d\n", sum.UnderfundedCount)
			for _, w := range sched.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

func validateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plan-file]",
		Short: "Validate a plan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg, path, err := e.loadPlan(args)
			if err != nil {
				return err
			}
			sched, err := e.engine().ComputeSchedule(calculation.InputsFromConfig(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid\n", path)
			for _, w := range sched.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s\n", w)
			}
			return nil
		},
	}
}
