package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/internal/schedule"
	"github.com/rgehrsitz/billplan/internal/store"
	"github.com/spf13/cobra"
)

func moveCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [plan-file]",
		Short: "Move a bill to the previous or next paycheck",
		Long: "Moves a bill from the paycheck on --from to the adjacent paycheck and saves the\n" +
			"placement as an override, so later schedules keep it there.",
		Example: "  billplan move plan.yaml --bill Rent --from 2024-01-19 --direction up",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			billRef, _ := cmd.Flags().GetString("bill")
			fromStr, _ := cmd.Flags().GetString("from")
			dirStr, _ := cmd.Flags().GetString("direction")

			from, err := domain.ParseDate(fromStr)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			dir, err := schedule.ParseDirection(dirStr)
			if err != nil {
				return err
			}

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

			sched, _, err := e.compute(cmd.Context(), cfg, st)
			if err != nil {
				return err
			}
			mutator := schedule.NewMutator(st)
			mutator.SetLogger(e.logger)
			res, err := mutator.MoveBill(cmd.Context(), sched, billRef, from, dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Moved {
				fmt.Fprintf(out, "%s stays on %s: there is no paycheck %s of it\n", res.BillName, res.From, directionWord(dir))
				return nil
			}
			fmt.Fprintf(out, "Moved %s (%s) from %s to %s\n", res.BillName, res.InstanceID, res.From, res.To)
			return nil
		},
	}
	cmd.Flags().String("bill", "", "Bill name or instance ID")
	cmd.Flags().String("from", "", "Pay date the bill is currently on (YYYY-MM-DD)")
	cmd.Flags().String("direction", "", "up (earlier paycheck) or down (later paycheck)")
	_ = cmd.MarkFlagRequired("bill")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("direction")
	return cmd
}

func directionWord(d schedule.Direction) string {
	if d == schedule.Up {
		return "before"
	}
	return "after"
}

func overridesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "List, set or clear saved bill placements",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStoreFor(opts, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			ov, err := st.ListOverrides(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ov) == 0 {
				fmt.Fprintln(out, "No overrides saved")
				return nil
			}
			ids := make([]string, 0, len(ov))
			for id := range ov {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(out, "%-40s %s\n", id, ov[id])
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:     "set <instance-id> <paycheck-date>",
		Short:   "Pin a bill instance to a paycheck",
		Example: "  billplan overrides set Rent-1-2024-02-01 2024-01-19",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := domain.ParseDate(args[1])
			if err != nil {
				return fmt.Errorf("paycheck date: %w", err)
			}
			st, err := openStoreFor(opts, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveOverride(cmd.Context(), args[0], date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s to %s\n", args[0], date)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear [instance-id...]",
		Short: "Remove overrides (all of them with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if len(args) == 0 && !all {
				return errors.New("name the instance ids to clear or pass --all")
			}
			st, err := openStoreFor(opts, cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			ids := args
			if all {
				ov, err := st.ListOverrides(cmd.Context())
				if err != nil {
					return err
				}
				ids = ids[:0:0]
				for id := range ov {
					ids = append(ids, id)
				}
				sort.Strings(ids)
			}
			for _, id := range ids {
				if err := st.DeleteOverride(cmd.Context(), id); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("no override for %s", id)
					}
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d override(s)\n", len(ids))
			return nil
		},
	}
	clearCmd.Flags().Bool("all", false, "Clear every override")

	cmd.AddCommand(list, set, clearCmd)
	return cmd
}

func openStoreFor(opts *globalOptions, cmd *cobra.Command) (store.Store, error) {
	e, err := opts.load(cmd)
	if err != nil {
		return nil, err
	}
	return e.openStore()
}
