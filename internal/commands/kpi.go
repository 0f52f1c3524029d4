package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/kpi"
	"github.com/cleared-dev/ledgerdash/internal/model"
)

func newKPICommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kpi",
		Aliases: []string{"kpis"},
		Short:   "Track key performance indicators",
	}
	cmd.AddCommand(
		newKPIListCommand(opts),
		newKPIAddCommand(opts),
		newKPIUpdateCommand(opts),
		newKPIDeleteCommand(opts),
	)
	return cmd
}

func newKPIListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List KPIs against their targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			all := wb.Store.KPIs()

			out := cmd.OutOrStdout()
			tw := newTable(out, "NAME", "CATEGORY", "VALUE", "TARGET", "PERFORMANCE", "BAND", "TREND", "CHANGE", "ID")
			for _, k := range all {
				row(tw, k.Name, k.Category,
					k.Value.String()+k.Unit, k.Target.String()+k.Unit,
					kpi.Performance(k.Value, k.Target).StringFixed(1)+"%",
					string(kpi.BandFor(k.Value, k.Target)), string(k.Trend),
					k.Change.String()+"%", k.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			s := kpi.Summarize(all)
			fmt.Fprintf(out, "\nOn target %d, trending up %d, below target %d\n", s.OnTarget, s.TrendingUp, s.BelowTarget)
			return nil
		},
	}
}

func newKPIAddCommand(opts *options) *cobra.Command {
	var k model.KPI
	var value, target, change, trend string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a KPI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k.Trend = model.Trend(trend)
			if !k.Trend.Valid() {
				return fmt.Errorf("unknown trend %q", trend)
			}
			var err error
			if k.Value, err = parseDecimal("value", value); err != nil {
				return err
			}
			if k.Target, err = parseDecimal("target", target); err != nil {
				return err
			}
			if k.Change, err = parseDecimal("change", change); err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			added, _ := wb.Store.AddKPI(k)
			if err := wb.Record(activity.ActionCreate, "kpi", added.ID, added.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added KPI %s (%s)\n", added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&k.Name, "name", "", "KPI name (required)")
	cmd.Flags().StringVar(&value, "value", "0", "current value")
	cmd.Flags().StringVar(&target, "target", "0", "target value")
	cmd.Flags().StringVar(&k.Unit, "unit", "", "unit suffix, e.g. %")
	cmd.Flags().StringVar(&trend, "trend", string(model.TrendStable), "up, down or stable")
	cmd.Flags().StringVar(&change, "change", "0", "percent change over the last period")
	cmd.Flags().StringVar(&k.Category, "category", "", "category")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newKPIUpdateCommand(opts *options) *cobra.Command {
	var name, value, target, unit, trend, change, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a KPI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.KPIPatch{
				Name:     changedString(cmd, "name", name),
				Unit:     changedString(cmd, "unit", unit),
				Category: changedString(cmd, "category", category),
			}
			if cmd.Flags().Changed("trend") {
				t := model.Trend(trend)
				if !t.Valid() {
					return fmt.Errorf("unknown trend %q", trend)
				}
				p.Trend = &t
			}
			var err error
			if p.Value, err = changedDecimal(cmd, "value", value); err != nil {
				return err
			}
			if p.Target, err = changedDecimal(cmd, "target", target); err != nil {
				return err
			}
			if p.Change, err = changedDecimal(cmd, "change", change); err != nil {
				return err
			}

			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.UpdateKPI(args[0], p); err != nil {
				return err
			}
			k, err := wb.Store.KPI(args[0])
			if err != nil {
				return err
			}
			if err := wb.Record(activity.ActionUpdate, "kpi", k.ID, k.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated KPI %s: %s\n", k.Name, kpi.BandFor(k.Value, k.Target))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "KPI name")
	cmd.Flags().StringVar(&value, "value", "", "current value")
	cmd.Flags().StringVar(&target, "target", "", "target value")
	cmd.Flags().StringVar(&unit, "unit", "", "unit suffix")
	cmd.Flags().StringVar(&trend, "trend", "", "up, down or stable")
	cmd.Flags().StringVar(&change, "change", "", "percent change over the last period")
	cmd.Flags().StringVar(&category, "category", "", "category")
	return cmd
}

func newKPIDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a KPI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.open()
			if err != nil {
				return err
			}
			if _, err := wb.Store.DeleteKPI(args[0]); err != nil {
				return err
			}
			if err := wb.Record(activity.ActionDelete, "kpi", args[0], ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted KPI %s\n", args[0])
			return nil
		},
	}
}
