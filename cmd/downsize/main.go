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
		Name:            "downsize",
		Usage:           "resize an image until its encoded size fits a kilobyte target",
		ArgsUsage:       "infile outfile",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Aliases: []string{"s"}, Value: 200, Usage: "target output size in KB"},
			&cli.Float64Flag{Name: "tolerance", Aliases: []string{"t"}, Value: 10, Usage: "allowed overshoot in percent"},
			&cli.StringFlag{Name: "copy", Aliases: []string{"c"}, Value: fx.CopyAuto,
				Usage: "copy-through policy when the source already fits: auto, force or off"},
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

			opts := fx.DownsizeOptions{
				TargetKB:     c.Int("size"),
				TolerancePct: c.Float64("tolerance"),
				CopyMode:     c.String("copy"),
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			src := c.Args().Get(0)
			dst := c.Args().Get(1)

			img, err := raster.Load(src)
			if err != nil {
				return err
			}

			res, err := fx.Downsize(img, src, dst, opts)
			if err != nil {
				return err
			}

			log.Debugf("wrote %s: %d bytes after %d iterations (copied=%v)",
				dst, res.FinalBytes, res.Iterations, res.Copied)
			if !res.Converged {
				log.Warnf("did not reach %d KB within %d iterations; wrote best effort of %d bytes",
					opts.TargetKB, res.Iterations, res.FinalBytes)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
