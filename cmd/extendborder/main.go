package main

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/imagefx/filters/internal/fx"
	"github.com/imagefx/filters/internal/raster"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	app := &cli.App{
		Name:            "extendborder",
		Usage:           "grow an image with a synthesized border",
		ArgsUsage:       "infile outfile",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "bwidth", Aliases: []string{"W"}, Value: -1,
				Usage: "border width in pixels (default: 10% of smaller dimension)"},
			&cli.IntFlag{Name: "bheight", Aliases: []string{"H"}, Value: -1,
				Usage: "border height in pixels (default: 10% of smaller dimension)"},
			&cli.Float64Flag{Name: "blur", Aliases: []string{"b"}, Value: 0, Usage: "Gaussian sigma for the border"},
			&cli.StringFlag{Name: "color", Aliases: []string{"c"}, Usage: "color blended into the border (hex or r,g,b)"},
			&cli.Float64Flag{Name: "colorpct", Aliases: []string{"p"}, Value: 0, Usage: "blend percentage for --color"},
			&cli.StringFlag{Name: "rimcolor", Aliases: []string{"r"}, Usage: "rim frame color (hex or r,g,b)"},
			&cli.IntFlag{Name: "rimthickness", Aliases: []string{"T"}, Value: 0, Usage: "rim frame thickness in pixels"},
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Value: "edge",
				Usage: "border fill strategy: " + strings.Join(fx.BorderMethods, ", ")},
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

			opts := fx.BorderOptions{
				Width:        c.Int("bwidth"),
				Height:       c.Int("bheight"),
				Blur:         c.Float64("blur"),
				ColorPct:     c.Float64("colorpct"),
				RimThickness: c.Int("rimthickness"),
				Method:       c.String("method"),
			}

			var err error
			if opts.Color, err = optionalColor(c.String("color")); err != nil {
				return err
			}
			if opts.RimColor, err = optionalColor(c.String("rimcolor")); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			img, err := raster.Load(c.Args().Get(0))
			if err != nil {
				return err
			}
			log.Debugf("extending %s: method=%s border=%dx%d",
				c.Args().Get(0), opts.Method, opts.Width, opts.Height)

			out, err := fx.ExtendBorder(img, opts)
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
