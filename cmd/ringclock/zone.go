package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/ringclock/internal/app"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

func (c *cli) newZoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zone",
		Aliases: []string{"zones"},
		Short:   "Manage the displayed time zones",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the selected zones and their current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				now := time.Now()
				primary := a.Settings.PrimaryZone()
				format := a.Settings.DigitalFormat()
				t := newTable("", "ZONE", "LABEL", "TIME")
				for _, id := range a.Settings.SelectedZones() {
					mark := ""
					if id == primary {
						mark = "*"
					}
					loc, ok := timemodel.ResolveZone(id)
					at := timemodel.DigitalTimeAt(now, loc, format)
					if !ok {
						at += " (host time)"
					}
					t.Row(mark, id, timemodel.ZoneLabel(id), at)
				}
				fmt.Fprintln(c.stdout, t.Render())
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <zone>...",
		Short: "Add IANA zones to the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, id := range args {
					if err := a.Settings.AddZone(ctx, id); err != nil {
						return err
					}
				}
				fmt.Fprintf(c.stdout, "zones: %v\n", a.Settings.SelectedZones())
				return nil
			})
		},
	}

	remove := &cobra.Command{
		Use:     "remove <zone>...",
		Aliases: []string{"rm"},
		Short:   "Remove zones from the selection",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, id := range args {
					if err := a.Settings.RemoveZone(ctx, id); err != nil {
						return err
					}
				}
				fmt.Fprintf(c.stdout, "zones: %v\n", a.Settings.SelectedZones())
				return nil
			})
		},
	}

	primary := &cobra.Command{
		Use:   "primary [zone]",
		Short: "Show or set the zone of the main clock",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if len(args) == 1 {
					if err := a.Settings.SetPrimaryZone(ctx, args[0]); err != nil {
						return err
					}
				}
				fmt.Fprintln(c.stdout, a.Settings.PrimaryZone())
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, remove, primary)
	return cmd
}
