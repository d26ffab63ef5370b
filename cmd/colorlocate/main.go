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
		Name:            "colorlocate",
		Usage:           "mask the pixels inside a per-channel color range",
		ArgsUsage:       "infile outfile",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "begincolor", Aliases: []string{"b"},
				Usage: "range start color (hex or r,g,b)"},
			&cli.StringFlag{Name: "endcolor", Aliases: []string{"e"},
				Usage: "range end color (hex or r,g,b)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: fx.RangeAnd,
				Usage: "channel combination: and, or"},
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
			if c.String("begincolor") == "" || c.String("endcolor") == "" {
				return fmt.Errorf("both --begincolor and --endcolor are required")
			}

			begin, err := raster.ParseColor(c.String("begincolor"))
			if err != nil {
				return fmt.Errorf("begincolor: %w", err)
			}
			end, err := raster.ParseColor(c.String("endcolor"))
			if err != nil {
				return fmt.Errorf("endcolor: %w", err)
			}
			opts := fx.LocateOptions{Begin: begin, End: end, Mode: c.String("mode")}
			if err := opts.Validate(); err != nil {
				return err
			}

			img, err := raster.Load(c.Args().Get(0))
			if err != nil {
				return err
			}

			out, res, err := fx.LocateColorRange(img, opts)
			if err != nil {
				return err
			}
			fmt.Printf("matched %d of %d pixels (%.2f%%)\n", res.Matched, res.Total, res.Percent)
			return raster.Save(c.Args().Get(1), out)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
