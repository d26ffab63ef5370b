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
		Name:            "deblur",
		Usage:           "remove motion or defocus blur by frequency-domain deconvolution",
		ArgsUsage:       "infile outfile",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: fx.BlurDefocus, Usage: "blur model: motion or defocus"},
			&cli.Float64Flag{Name: "amount", Aliases: []string{"a"}, Value: 3, Usage: "blur extent in pixels (motion length or defocus diameter)"},
			&cli.Float64Flag{Name: "rotation", Aliases: []string{"r"}, Value: 0, Usage: "motion direction in degrees (motion only)"},
			&cli.Float64Flag{Name: "noise", Aliases: []string{"n"}, Value: 0.001, Usage: "noise regularization estimate"},
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Value: fx.MethodSlow, Usage: "filter evaluation: slow (exact) or fast (lookup)"},
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

			opts := fx.DeblurOptions{
				Type:     c.String("type"),
				Amount:   c.Float64("amount"),
				Rotation: c.Float64("rotation"),
				Noise:    c.Float64("noise"),
				Method:   c.String("method"),
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			img, err := raster.Load(c.Args().Get(0))
			if err != nil {
				return err
			}
			log.Debugf("deblurring %s: type=%s amount=%g noise=%g method=%s",
				c.Args().Get(0), opts.Type, opts.Amount, opts.Noise, opts.Method)

			out, err := fx.Deblur(img, opts)
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
