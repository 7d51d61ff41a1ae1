package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/tosh-m12/courtmatch/internal/models"
	"github.com/tosh-m12/courtmatch/internal/scheduler"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "print a schedule for the given participant ids without a server",
		ArgsUsage: "ID...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: string(models.GameTypeSingles), Usage: "singles or doubles"},
			&cli.IntFlag{Name: "rounds", Aliases: []string{"r"}, Value: 1, Usage: "number of rounds"},
			&cli.IntFlag{Name: "courts", Value: 1, Usage: "number of courts"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed for a repeatable schedule"},
			&cli.BoolFlag{Name: "pretty", Usage: "indent the JSON output"},
		},
		Action: func(c *cli.Context) error {
			var seed *int64
			if c.IsSet("seed") {
				s := c.Int64("seed")
				seed = &s
			}
			return runGenerate(c.App.Writer, generateOptions{
				GameType: models.GameType(c.String("type")),
				Rounds:   c.Int("rounds"),
				Courts:   c.Int("courts"),
				Seed:     seed,
				Pretty:   c.Bool("pretty"),
			}, c.Args().Slice())
		},
	}
}

type generateOptions struct {
	GameType models.GameType
	Rounds   int
	Courts   int
	Seed     *int64
	Pretty   bool
}

// runGenerate parses ids, generates a schedule and writes it to w as JSON
func runGenerate(w io.Writer, opts generateOptions, args []string) error {
	gen, err := scheduler.ForGameType(opts.GameType)
	if err != nil {
		return err
	}
	if opts.Rounds <= 0 || opts.Courts <= 0 {
		return fmt.Errorf("rounds and courts must be positive")
	}

	ids := make([]models.ParticipantID, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("participant id must be an integer, got %q", a)
		}
		ids = append(ids, models.ParticipantID(n))
	}

	sched, err := gen.Generate(ids, scheduler.Params{Rounds: opts.Rounds, Courts: opts.Courts}, scheduler.NewRand(opts.Seed))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(sched)
}
