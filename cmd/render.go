package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/picarena/internal/domain/types"
)

// Podium colors for the top three rows.
var (
	goldColor   = color.New(color.FgYellow, color.Bold)
	silverColor = color.New(color.FgWhite, color.Bold)
	bronzeColor = color.New(color.FgRed)
)

func podium(rank int) func(...any) string {
	switch rank {
	case 1:
		return goldColor.SprintFunc()
	case 2:
		return silverColor.SprintFunc()
	case 3:
		return bronzeColor.SprintFunc()
	default:
		return fmt.Sprint
	}
}

// writeLeaderboard renders leaderboard entries as a table.
func writeLeaderboard(w io.Writer, entries []types.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No ratings yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Image", "Rating", "In folder"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(entries))
	for _, e := range entries {
		paint := podium(e.Rank)
		present := "yes"
		if !e.Present {
			present = "no"
		}
		data = append(data, []string{
			paint(strconv.Itoa(e.Rank)),
			paint(e.Image),
			paint(strconv.Itoa(e.Rating)),
			present,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeStats renders the usage summary followed by the outcome distribution.
func writeStats(w io.Writer, s types.Summary) error {
	summary := tablewriter.NewWriter(w)
	defer func() { _ = summary.Close() }()

	summary.Header([]string{"Metric", "Value"})
	summary.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	rows := [][]string{
		{"Total ratings", strconv.Itoa(s.TotalRatings)},
		{"Images rated", fmt.Sprintf("%d / %d", s.ImagesRated, s.TotalImages)},
		{"Unique pairs compared", fmt.Sprintf("%d / %d", s.ComparisonsMade, s.PossibleComparisons)},
		{"Pair coverage", fmt.Sprintf("%.1f%%", s.Coverage())},
		{"Rating range", fmt.Sprintf("%d - %d", s.MinRating, s.MaxRating)},
	}
	if err := summary.Bulk(rows); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	dist := tablewriter.NewWriter(w)
	defer func() { _ = dist.Close() }()

	dist.Header([]string{"Outcome", "Count", "Share"})
	dist.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	data := make([][]string, 0, len(s.Distribution))
	for _, b := range s.Distribution {
		data = append(data, []string{b.Label, strconv.Itoa(b.Count), fmt.Sprintf("%.1f%%", b.Percent)})
	}
	if err := dist.Bulk(data); err != nil {
		return err
	}
	return dist.Render()
}
