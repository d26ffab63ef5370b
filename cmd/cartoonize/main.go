package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/imagefx/filters/internal/fx"
	"github.com/imagefx/filters/internal/raster"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	app := &cli.App{
		Name:            "cartoonize",
		Usage:           "reduce an image to flat colors with dark edge outlines",
		ArgsUsage:       "infile outfile",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "method", Aliases: []string{"m"}, Value: 1,
				Usage: "color reduction: 1 (per-channel posterize) or 2 (step lookup table)"},
			&cli.IntFlag{Name: "numcolors", Aliases: []string{"n"}, Value: 8, Usage: "quantization levels per channel"},
			&cli.IntFlag{Name: "mediancolor", Aliases: []string{"d"}, Value: 2, Usage: "median radius before quantization (0 = off)"},
			&cli.IntFlag{Name: "medianedge", Aliases: []string{"e"}, Value: 2, Usage: "median radius before edge detection (0 = off)"},
			&cli.Float64Flag{Name: "pctedges", Aliases: []string{"p"}, Value: 10, Usage: "edge threshold percent (0 = no edges)"},
			&cli.Float64Flag{Name: "blur", Aliases: []string{"b"}, Value: 0, Usage: "Gaussian sigma after quantization (0 = off)"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			if c.NArg() != 2 {
				return fmt.Errorf("expected infile and outfile, got %d arguments", c.NArg())
			}

			opts := fx.CartoonOptions{
				Method:      c.Int("method"),
				NumColors:   c.Int("numcolors"),
				MedianColor: c.Int("mediancolor"),
				MedianEdge:  c.Int("medianedge"),
				PctEdges:    c.Float64("pctedges"),
				Blur:        c.Float64("blur"),
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			img, err := raster.Load(c.Args().Get(0))
			if err != nil {
				return err
			}
			log.Debugf("cartoonizing %s: method=%d numcolors=%d pctedges=%g",
				c.Args().Get(0), opts.Method, opts.NumColors, opts.PctEdges)

			out, err := fx.Cartoonize(img, opts)
			if err != nil {
				return err
			}
			return raster.Save(c.Args().Get(1), out)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
