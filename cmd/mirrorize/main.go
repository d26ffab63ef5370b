package main

import (
	"fmt"
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
		Name:            "mirrorize",
		Usage:           "mirror a half or quadrant of an image into its complement",
		ArgsUsage:       "infile outfile",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "region", Aliases: []string{"r"}, Value: "west",
				Usage: "region to mirror: " + strings.Join(fx.MirrorRegions, ", ")},
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

			region := c.String("region")
			if !fx.ValidMirrorRegion(region) {
				return fmt.Errorf("unknown region %q (want one of %s)", region, strings.Join(fx.MirrorRegions, ", "))
			}

			img, err := raster.Load(c.Args().Get(0))
			if err != nil {
				return err
			}
			log.Debugf("mirroring %s region of %s", region, c.Args().Get(0))

			out, err := fx.Mirror(img, region)
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
