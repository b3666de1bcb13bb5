package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mattjoyce/ringclock/internal/app"
	"github.com/mattjoyce/ringclock/internal/settings"
)

func (c *cli) newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"pref"},
		Short:   "Inspect and change preferences",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every preference with its effective value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				t := newTable("KEY", "VALUE", "DEFAULT", "DESCRIPTION")
				for _, d := range settings.Defs {
					v, err := a.Settings.Display(d.Key)
					if err != nil {
						return err
					}
					t.Row(d.Key, v, d.Default, d.Help)
				}
				fmt.Fprintln(c.stdout, t.Render())
				return nil
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				v, err := a.Settings.Display(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, v)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a preference",
		Long: `Store a preference. Booleans take true or false, colours take hex
(#rrggbb or #rrggbbaa) and selectedTimeZones takes a comma separated list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Settings.SetText(ctx, args[0], args[1]); err != nil {
					return err
				}
				v, _ := a.Settings.Display(args[0])
				fmt.Fprintf(c.stdout, "%s = %s\n", args[0], v)
				return nil
			})
		},
	}

	var all bool
	reset := &cobra.Command{
		Use:   "reset [key...]",
		Short: "Restore preferences to their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := args
			if all {
				keys = nil
				for _, d := range settings.Defs {
					keys = append(keys, d.Key)
				}
			}
			if len(keys) == 0 {
				return fmt.Errorf("name at least one key or pass --all")
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, k := range keys {
					if err := a.Settings.Reset(ctx, k); err != nil {
						return err
					}
					fmt.Fprintf(c.stdout, "reset %s\n", k)
				}
				return nil
			})
		},
	}
	reset.Flags().BoolVar(&all, "all", false, "reset every preference")

	cmd.AddCommand(list, get, set, reset)
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...)
}
