package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/billplan/internal/breakeven"
	"github.com/rgehrsitz/billplan/internal/compare"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/store"
	"github.com/rgehrsitz/billplan/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// planWithStoredOverrides loads the plan and layers saved placements on it
// so analyses start from the schedule the user actually sees.
func planWithStoredOverrides(ctx context.Context, e *env, args []string) (*domain.Configuration, string, error) {
	cfg, path, err := e.loadPlan(args)
	if err != nil {
		return nil, path, err
	}
	st, err := e.openStore()
	if err != nil {
		return nil, path, err
	}
	defer st.Close()

	merged, err := store.WithOverrides(ctx, st, cfg)
	if err != nil {
		return nil, path, err
	}
	return merged, path, nil
}

func breakEvenCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven [plan-file]",
		Short: "Find the highest savings rate, or lowest income, that still funds every bill",
		Long: `Searches for the savings percent or income level at which the plan stops
funding every bill.

Examples:
  billplan breakeven plan.yaml
  billplan breakeven plan.yaml --target income_factor --source "Main Job"
  billplan breakeven plan.yaml --target all --goal fund_all_on_time --format json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg, _, err := planWithStoredOverrides(cmd.Context(), e, args)
			if err != nil {
				return err
			}

			targetStr, _ := cmd.Flags().GetString("target")
			goalStr, _ := cmd.Flags().GetString("goal")
			source, _ := cmd.Flags().GetString("source")
			format, _ := cmd.Flags().GetString("format")
			stepStr, _ := cmd.Flags().GetString("step")

			target := breakeven.OptimizationTarget(strings.ToLower(targetStr))
			switch target {
			case breakeven.OptimizeSavingsPercent, breakeven.OptimizeIncomeFactor, breakeven.OptimizeAll:
			default:
				return fmt.Errorf("unknown target %q (savings_percent, income_factor, all)", targetStr)
			}
			goal := breakeven.OptimizationGoal(strings.ToLower(goalStr))
			switch goal {
			case breakeven.GoalFundAll, breakeven.GoalFundAllOnTime:
			default:
				return fmt.Errorf("unknown goal %q (fund_all, fund_all_on_time)", goalStr)
			}

			options := breakeven.DefaultSolverOptions()
			if stepStr != "" {
				step, err := decimal.NewFromString(stepStr)
				if err != nil || !step.IsPositive() {
					return fmt.Errorf("--step must be a positive number, got %q", stepStr)
				}
				options.Step = step
			}
			solver := breakeven.NewSolver(e.engine(), options)

			constraints := breakeven.DefaultConstraints()
			constraints.IncomeSource = source

			out := cmd.OutOrStdout()
			asJSON := strings.EqualFold(format, "json")

			if target == breakeven.OptimizeAll {
				result, err := solver.OptimizeAllTargets(cmd.Context(), cfg, constraints, goal)
				if err != nil {
					return err
				}
				if asJSON {
					s, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMultiDimensional(result)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, s)
					return nil
				}
				fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatMultiDimensional(result))
				return nil
			}

			result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
				Config:        cfg,
				Target:        target,
				Goal:          goal,
				Constraints:   constraints,
				MaxIterations: options.MaxIterations,
				Step:          options.Step,
			})
			if err != nil {
				return err
			}
			if asJSON {
				s, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}
			fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
			return nil
		},
	}
	cmd.Flags().String("target", string(breakeven.OptimizeSavingsPercent), "What to solve for (savings_percent, income_factor, all)")
	cmd.Flags().String("goal", string(breakeven.GoalFundAll), "When a plan counts as feasible (fund_all, fund_all_on_time)")
	cmd.Flags().String("source", "", "Income source to scale for income_factor (default: all sources)")
	cmd.Flags().String("step", "", "Search resolution (default 0.01)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func compareCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [plan-file]",
		Short: "Compare the plan against savings rates, templates and ad-hoc changes",
		Long: `Compare the base plan against alternative versions of it.

Examples:
  billplan compare plan.yaml --with save_10pct,save_20pct
  billplan compare plan.yaml --savings-rates 5,10,15 --format csv
  billplan compare plan.yaml --with lean --transform delay_bill:bill=Rent,days=3
  billplan compare --list-templates
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}

			templatesStr, _ := cmd.Flags().GetString("with")
			transforms, _ := cmd.Flags().GetStringArray("transform")
			ratesStr, _ := cmd.Flags().GetString("savings-rates")
			baseName, _ := cmd.Flags().GetString("base")
			format, _ := cmd.Flags().GetString("format")

			rates, err := parseRates(ratesStr)
			if err != nil {
				return err
			}
			templates := transform.ParseTemplateList(templatesStr)
			if len(templates) == 0 && len(transforms) == 0 && len(rates) == 0 {
				return fmt.Errorf("nothing to compare: pass --with, --transform or --savings-rates (see --list-templates)")
			}

			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cfg, path, err := planWithStoredOverrides(cmd.Context(), e, args)
			if err != nil {
				return err
			}

			set, err := compare.NewCompareEngine(e.engine()).Compare(cmd.Context(), cfg, compare.CompareOptions{
				BaseScenarioName: baseName,
				Templates:        templates,
				Transforms:       transforms,
				SavingsRates:     rates,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			set.ConfigPath = path

			switch strings.ToLower(format) {
			case "csv":
				s, err := (&compare.CSVFormatter{}).Format(set)
				if err != nil {
					return err
				}
				fmt.Fprint(out, s)
			case "json":
				s, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			case "compact":
				fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(set))
			case "table", "console", "":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
			}
			return nil
		},
	}
	cmd.Flags().String("with", "", "Comma-separated templates to compare")
	cmd.Flags().StringArray("transform", nil, "Transform spec, e.g. delay_bill:bill=Rent,days=3 (repeatable)")
	cmd.Flags().String("savings-rates", "", "Comma-separated savings percents to compare, e.g. 5,10,15")
	cmd.Flags().String("base", "base", "Label for the unmodified plan")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List built-in templates")
	return cmd
}

func parseRates(s string) ([]decimal.Decimal, error) {
	var rates []decimal.Decimal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "%"))
		if part == "" {
			continue
		}
		r, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("invalid savings rate %q", part)
		}
		if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("savings rate %s must be between 0 and 100", r)
		}
		rates = append(rates, r)
	}
	return rates, nil
}
