package main

import (
	"fmt"
	"image"
	"os"
	"strconv"
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
		Name:            "unrotate",
		Usage:           "straighten a rotated region inside a uniform border",
		ArgsUsage:       "infile [outfile]",
		Description:     "Without an outfile the tool only reports the estimated rotation angle.",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "fuzz", Aliases: []string{"f"}, Value: 10,
				Usage: "border color tolerance in percent"},
			&cli.StringFlag{Name: "coords", Aliases: []string{"c"},
				Usage: "pixel to sample the border color at, as x,y"},
			&cli.StringFlag{Name: "anchor", Aliases: []string{"a"}, Value: "topleft",
				Usage: "border sample position: " + strings.Join(fx.UnrotateAnchors, ", ")},
			&cli.IntFlag{Name: "trim-left", Value: 0, Usage: "extra pixels to trim from the left edge"},
			&cli.IntFlag{Name: "trim-right", Value: 0, Usage: "extra pixels to trim from the right edge"},
			&cli.IntFlag{Name: "trim-top", Value: 0, Usage: "extra pixels to trim from the top edge"},
			&cli.IntFlag{Name: "trim-bottom", Value: 0, Usage: "extra pixels to trim from the bottom edge"},
			&cli.Float64Flag{Name: "angle", Aliases: []string{"A"}, Usage: "override the estimated angle in degrees"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			if c.NArg() > 2 {
				return fmt.Errorf("expected infile and optional outfile, got %d arguments", c.NArg())
			}

			opts := fx.UnrotateOptions{
				Fuzz:       c.Float64("fuzz"),
				Anchor:     c.String("anchor"),
				TrimLeft:   c.Int("trim-left"),
				TrimRight:  c.Int("trim-right"),
				TrimTop:    c.Int("trim-top"),
				TrimBottom: c.Int("trim-bottom"),
			}
			if spec := c.String("coords"); spec != "" {
				pt, err := parseCoords(spec)
				if err != nil {
					return err
				}
				opts.Coords = &pt
			}
			if c.IsSet("angle") {
				a := c.Float64("angle")
				opts.Angle = &a
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			img, err := raster.Load(c.Args().Get(0))
			if err != nil {
				return err
			}

			if c.NArg() == 1 {
				res, err := fx.EstimateRotation(img, opts)
				if err != nil {
					return err
				}
				fmt.Printf("rotation: %.2f degrees\n", res.Angle)
				return nil
			}

			out, res, err := fx.Unrotate(img, opts)
			if err != nil {
				return err
			}
			log.Debugf("corrected %.2f degree rotation, border %v", res.Angle, res.Border)
			fmt.Printf("rotation: %.2f degrees\n", res.Angle)
			return raster.Save(c.Args().Get(1), out)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func parseCoords(spec string) (image.Point, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("coords must be x,y, got %q", spec)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid x coordinate %q: %w", parts[0], err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid y coordinate %q: %w", parts[1], err)
	}
	return image.Point{X: x, Y: y}, nil
}
