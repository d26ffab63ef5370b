package main

import (
	"fmt"
	"image/color"
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
		Name:            "chrome",
		Usage:           "apply a relief-shaded metallic chrome effect",
		ArgsUsage:       "infile outfile",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "intensity", Aliases: []string{"i"}, Value: 5, Usage: "ramp weight of the chrome curve"},
			&cli.Float64Flag{Name: "cycles", Aliases: []string{"c"}, Value: 2, Usage: "periods of the sinusoidal chrome curve"},
			&cli.Float64Flag{Name: "smoothing", Aliases: []string{"s"}, Value: 1, Usage: "Gaussian sigma before shading"},
			&cli.Float64Flag{Name: "azimuth", Aliases: []string{"a"}, Value: 135, Usage: "light azimuth in degrees"},
			&cli.Float64Flag{Name: "elevation", Aliases: []string{"e"}, Value: 45, Usage: "light elevation in degrees"},
			&cli.StringFlag{Name: "tint", Aliases: []string{"t"}, Usage: "tint color (hex or r,g,b)"},
			&cli.StringFlag{Name: "bgcolor", Aliases: []string{"b"}, Usage: "background color to select (hex or r,g,b)"},
			&cli.Float64Flag{Name: "fuzz", Aliases: []string{"f"}, Value: 5, Usage: "background match tolerance in percent"},
			&cli.StringFlag{Name: "bgmode", Aliases: []string{"B"}, Value: fx.BackgroundFlatten,
				Usage: "background treatment: flatten or transparent"},
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

			opts := fx.ChromeOptions{
				Intensity:      c.Float64("intensity"),
				Cycles:         c.Float64("cycles"),
				Smoothing:      c.Float64("smoothing"),
				Azimuth:        c.Float64("azimuth"),
				Elevation:      c.Float64("elevation"),
				Fuzz:           c.Float64("fuzz"),
				BackgroundMode: c.String("bgmode"),
			}

			var err error
			if opts.Tint, err = optionalColor(c.String("tint")); err != nil {
				return err
			}
			if opts.Background, err = optionalColor(c.String("bgcolor")); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			img, err := raster.Load(c.Args().Get(0))
			if err != nil {
				return err
			}
			log.Debugf("chroming %s: intensity=%g cycles=%g azimuth=%g elevation=%g",
				c.Args().Get(0), opts.Intensity, opts.Cycles, opts.Azimuth, opts.Elevation)

			out, err := fx.Chrome(img, opts)
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

// optionalColor parses a color flag that may be left unset.
func optionalColor(spec string) (*color.NRGBA, error) {
	if spec == "" {
		return nil, nil
	}
	c, err := raster.ParseColor(spec)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
