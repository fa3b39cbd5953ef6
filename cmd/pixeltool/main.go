package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/pixeltool"
	"github.com/bodgit/pixeltool/pixel"
	"github.com/urfave/cli/v2"
)

const defaultDB = "pixeltool.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// outputPath derives "<input>_<suffix>.png" next to the input file unless
// an explicit output was given.
func outputPath(c *cli.Context, in, suffix string) string {
	if out := c.String("output"); out != "" {
		return out
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + "_" + suffix + ".png"
}

func parsePalette(s string) ([]pixel.Color, error) {
	if s == "" {
		return nil, nil
	}
	var refs []pixel.Color
	for _, h := range strings.Split(s, ",") {
		c, err := pixel.ParseHex(strings.TrimSpace(h))
		if err != nil {
			return nil, err
		}
		refs = append(refs, c)
	}
	return refs, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "pixeltool"
	app.Usage = "Pixel art restoration utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PIXELTOOL_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to scan result database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "path to write the result to",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "pixelize",
			Usage:       "Restore an image to clean block-aligned pixel art",
			Description: "Detects the logical block size of FILE, realigns every block to it and writes the result as PNG.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "factor",
					Aliases: []string{"f"},
					Value:   1,
					Usage:   "additionally snap blocks to a multiple of `N` pixels",
				},
				&cli.IntFlag{
					Name:  "max-block",
					Usage: "cap the detected block size at `N` pixels",
				},
				outputFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				in := c.Args().First()
				m := pixeltool.New(nil, newLogger(c))

				if err := m.Pixelize(in, outputPath(c, in, "fixed"), c.Int("factor"), c.Int("max-block")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "shrink",
			Usage:       "Scale an image down by an exact integer factor",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "factor",
					Aliases:  []string{"f"},
					Required: true,
					Usage:    "divide width and height by `N`",
				},
				outputFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				in := c.Args().First()
				m := pixeltool.New(nil, newLogger(c))

				if err := m.Shrink(in, outputPath(c, in, "small"), c.Int("factor")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "grow",
			Usage:       "Scale an image up by an exact integer factor",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "factor",
					Aliases:  []string{"f"},
					Required: true,
					Usage:    "multiply width and height by `N`",
				},
				outputFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				in := c.Args().First()
				m := pixeltool.New(nil, newLogger(c))

				if err := m.Grow(in, outputPath(c, in, "large"), c.Int("factor")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "clean",
			Usage:       "Correct stray pixels against their neighbourhood",
			Description: "Replaces every pixel whose color diverges from the mean of its neighbours by more than the tolerance plus the minimum discrepancy.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:    "tolerance",
					Aliases: []string{"t"},
					Value:   5,
					Usage:   "maximum allowed distance from the neighbourhood mean",
				},
				&cli.Float64Flag{
					Name:  "min-discrepancy",
					Value: 0.75,
					Usage: "margin the distance must exceed the tolerance by",
				},
				outputFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				in := c.Args().First()
				m := pixeltool.New(nil, newLogger(c))

				tol := pixel.Tolerance{
					Tolerance:      c.Float64("tolerance"),
					MinDiscrepancy: c.Float64("min-discrepancy"),
				}
				if err := m.Clean(in, outputPath(c, in, "clean"), tol); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "snap",
			Usage:       "Snap stray colors to a reference palette",
			Description: "Replaces colors outside the tolerance of every reference color with the nearest one. Without --palette a palette is derived from the image itself.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "palette",
					Aliases: []string{"p"},
					Usage:   "comma-separated RRGGBB reference colors",
				},
				&cli.IntFlag{
					Name:  "colors",
					Value: 16,
					Usage: "size of the derived palette when none is given",
				},
				&cli.IntFlag{
					Name:    "tolerance",
					Aliases: []string{"t"},
					Value:   5,
					Usage:   "per-channel tolerance against the reference colors",
				},
				&cli.Float64Flag{
					Name:  "min-discrepancy",
					Value: 0.75,
					Usage: "minimum distance from the neighbourhood mean",
				},
				outputFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				in := c.Args().First()
				m := pixeltool.New(nil, newLogger(c))

				refs, err := parsePalette(c.String("palette"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := m.Snap(in, outputPath(c, in, "snapped"), refs, c.Int("colors"), c.Int("tolerance"), c.Float64("min-discrepancy")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "colors",
			Usage:       "Tally every distinct color in an image",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				outputFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m := pixeltool.New(nil, newLogger(c))

				report, err := m.Census(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				b, err := report.MarshalText()
				if err != nil {
					return cli.Exit(err, 1)
				}

				if out := c.String("output"); out != "" {
					if err := os.WriteFile(out, b, 0o644); err != nil {
						return cli.Exit(err, 1)
					}
					return nil
				}

				fmt.Print(string(b))
				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan a directory tree and record image metrics",
			Description: "Walks DIRECTORY, detecting the block size and color census of every raster image, and records the results in the database.",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := pixeltool.NewResultDB(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				m := pixeltool.New(db, newLogger(c))

				if err := m.Scan(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
