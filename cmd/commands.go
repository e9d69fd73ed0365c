package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/picarena/internal/domain/model"
	"github.com/okian/picarena/internal/domain/types"
)

var errResetRejected = errors.New("reset rejected: secret does not match or reset is disabled")

func newPairCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pair",
		Short: "Draw two distinct images to compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}
			round, err := svc.NextPair(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "round:  %s\nimage1: %s\nimage2: %s\n", round.RoundID, round.Image1, round.Image2)
			return err
		},
	}
}

func newRateCmd(opts *rootOptions) *cobra.Command {
	var roundID string
	cmd := &cobra.Command{
		Use:   "rate <image1> <image2> <outcome>",
		Short: "Submit one comparison",
		Long: `Submit one comparison. outcome is one of:
  pic1_much_better, pic1_slightly_better, equal,
  pic2_slightly_better, pic2_much_better`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := model.ParseOutcome(args[2])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}
			res, err := svc.Rate(ctx, types.Vote{
				RoundID: roundID,
				Image1:  args[0],
				Image2:  args[1],
				Outcome: outcome,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return err
		},
	}
	cmd.Flags().StringVar(&roundID, "round", "", "round ID from `pair`; a repeated round is not applied twice")
	return cmd
}

func newLeaderboardCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print images ordered by rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}
			entries, err := svc.Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			return writeLeaderboard(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows, 0 for all")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print usage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}
			sum, err := svc.Stats(ctx)
			if err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), sum)
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset every rating and the usage counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}
			ok, err := svc.Reset(ctx, secret)
			if err != nil {
				return err
			}
			if !ok {
				return errResetRejected
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "All ratings reset.")
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "shared reset secret")
	return cmd
}
