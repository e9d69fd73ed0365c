package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	service "github.com/okian/picarena/internal/app"
	"github.com/okian/picarena/internal/domain/model"
	"github.com/okian/picarena/internal/domain/pairing"
	"github.com/okian/picarena/internal/domain/types"
	"github.com/okian/picarena/pkg/logger"
)

const defaultSimulatedRounds = 100

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		rounds int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play random rounds with random outcomes",
		Long: `Play random rounds through the service, picking each outcome at random.
Ratings and counters are written like real votes; use it on a scratch copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rounds <= 0 {
				return fmt.Errorf("--rounds must be positive, got %d", rounds)
			}
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var extra []service.Option
			if cmd.Flags().Changed("seed") {
				extra = append(extra, service.WithSelector(pairing.NewSelector(newGallery(cfg), pairing.WithSeed(seed))))
			} else {
				seed = rand.Uint64()
			}
			svc, err := newService(ctx, cfg, extra...)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			outcomes := model.Outcomes()
			var played model.Distribution
			for range rounds {
				if err := ctx.Err(); err != nil {
					return err
				}
				round, err := svc.NextPair(ctx)
				if err != nil {
					return err
				}
				vote := types.Vote{
					RoundID: round.RoundID,
					Image1:  round.Image1,
					Image2:  round.Image2,
					Outcome: outcomes[rng.IntN(len(outcomes))],
				}
				if _, err := svc.Rate(ctx, vote); err != nil {
					return err
				}
				played.Inc(vote.Outcome)
			}
			logger.Named("simulate").Info(ctx, "simulation finished", logger.Int("rounds", rounds))

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "Simulated %d rounds.\n", rounds); err != nil {
				return err
			}
			for _, o := range outcomes {
				if _, err := fmt.Fprintf(out, "  %-22s %d\n", o.Title(), played.Count(o)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", defaultSimulatedRounds, "number of rounds to play")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for pairs and outcomes; random when unset")
	return cmd
}
