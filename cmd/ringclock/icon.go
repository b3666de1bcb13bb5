package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/ringclock/internal/icon"
)

func (c *cli) newIconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icon",
		Short: "Render the status icon",
	}

	var (
		sizes  []int
		outDir string
		at     string
	)
	render := &cobra.Command{
		Use:   "render",
		Short: "Write the icon PNGs once and exit",
		Long: `Render the clock icon for the current local time (or --at HH:MM) at
each configured size and write it to the icon output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(sizes) == 0 {
				sizes = cfg.Icon.Sizes
			}
			if outDir == "" {
				outDir = cfg.Icon.OutputDir
			}

			when := time.Now()
			if at != "" {
				hm, err := time.Parse("15:04", at)
				if err != nil {
					return fmt.Errorf("--at expects HH:MM: %w", err)
				}
				when = time.Date(when.Year(), when.Month(), when.Day(), hm.Hour(), hm.Minute(), 0, 0, time.Local)
			}

			renderer, err := icon.NewRenderer(icon.DefaultFace())
			if err != nil {
				return err
			}
			sink, err := icon.NewPNGSink(outDir, cfg.Icon.Prefix)
			if err != nil {
				return err
			}
			icons, err := renderer.RenderAt(sizes, when)
			if err != nil {
				return err
			}

			failed := 0
			for _, ic := range icons {
				if ic.Err == nil {
					ic.Err = sink.Install(cmd.Context(), ic.Size, ic.Image)
				}
				if ic.Err != nil {
					failed++
					fmt.Fprintf(c.stderr, "%dpx: %v\n", ic.Size, ic.Err)
					continue
				}
				fmt.Fprintln(c.stdout, sink.Path(ic.Size))
			}
			if failed > 0 {
				return exitError{code: 1}
			}
			return nil
		},
	}
	render.Flags().IntSliceVar(&sizes, "size", nil, "icon size in pixels (repeatable; default icon.sizes)")
	render.Flags().StringVar(&outDir, "out", "", "output directory (default icon.output_dir)")
	render.Flags().StringVar(&at, "at", "", "render this HH:MM instead of the current time")

	cmd.AddCommand(render)
	return cmd
}
