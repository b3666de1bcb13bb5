package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mattjoyce/ringclock/internal/app"
	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/theme"
)

func (c *cli) newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Choose ring colours and manage saved themes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and saved themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				active := a.Themes.Active()
				t := newTable("", "THEME", "HOUR", "MINUTE", "SECOND")
				for _, id := range theme.IDs() {
					mark := ""
					if id == active {
						mark = "*"
					}
					t.Row(append([]string{mark, string(id)}, swatches(a.Themes.ColorsFor(id))...)...)
				}
				fmt.Fprintln(c.stdout, t.Render())

				saved := a.Themes.SavedThemes()
				if len(saved) == 0 {
					return nil
				}
				st := newTable("SAVED", "HOUR", "MINUTE", "SECOND")
				for _, s := range saved {
					st.Row(append([]string{s.Name}, swatches(s.Colors)...)...)
				}
				fmt.Fprintln(c.stdout, st.Render())
				return nil
			})
		},
	}

	use := &cobra.Command{
		Use:   "use <theme>",
		Short: "Activate a theme (" + joinIDs() + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := theme.ParseID(args[0])
			if !ok {
				return fmt.Errorf("%w: %q (one of %s)", theme.ErrUnknownTheme, args[0], joinIDs())
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Themes.SetActive(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "theme: %s\n", id)
				return nil
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Switch between the base and moon themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				id, err := a.Themes.Toggle(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "theme: %s\n", id)
				return nil
			})
		},
	}

	var activate bool
	custom := &cobra.Command{
		Use:   "custom [<hour> <minute> <second>]",
		Short: "Show or set the custom ring colours (hex)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("expected no colours or exactly three, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var next *theme.Triple
			if len(args) == 3 {
				t, err := parseTriple(args)
				if err != nil {
					return err
				}
				next = &t
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if next != nil {
					if err := a.Themes.SetCustomColors(ctx, *next); err != nil {
						return err
					}
				}
				if activate {
					if err := a.Themes.SetActive(ctx, theme.Custom); err != nil {
						return err
					}
				}
				fmt.Fprintf(c.stdout, "custom: %s\n", strings.Join(swatches(a.Themes.CustomColors()), " "))
				return nil
			})
		},
	}
	custom.Flags().BoolVar(&activate, "activate", false, "also make custom the active theme")

	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the custom colours under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("theme name is empty")
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Themes.SaveCurrent(ctx, name); err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "saved %q\n", name)
				return nil
			})
		},
	}

	load := &cobra.Command{
		Use:   "load <name>",
		Short: "Copy a saved theme into the custom colours and activate it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Themes.Load(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "loaded %q\n", args[0])
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Themes.Delete(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(list, use, toggle, custom, save, load, del)
	return cmd
}

func parseTriple(args []string) (theme.Triple, error) {
	var cs [3]paint.Color
	for i, a := range args {
		col, err := paint.ParseHex(a)
		if err != nil {
			return theme.Triple{}, err
		}
		cs[i] = col
	}
	return theme.Triple{Hour: cs[0], Minute: cs[1], Second: cs[2]}, nil
}

// swatches renders each ring colour as a coloured block and its hex value.
func swatches(t theme.Triple) []string {
	out := make([]string, 0, 3)
	for _, col := range t.Colors() {
		block := lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Render("██")
		out = append(out, block+" "+col.Hex())
	}
	return out
}

func joinIDs() string {
	ids := theme.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}
