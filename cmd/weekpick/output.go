// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/session"
)

func printJoin(out io.Writer, res session.JoinResult) {
	verb := "joined"
	if !res.Created {
		verb = "rejoined"
	}
	fmt.Fprintf(out, "%s %s (%s, %d) as %s\n", verb, res.Trip.Name, res.Trip.ShareCode, res.Trip.Year, res.Participant.Name)
	switch res.Source {
	case session.SourceLocal:
		fmt.Fprintln(out, "local selections were sent to the server")
	case session.SourceRemote:
		fmt.Fprintln(out, "selections loaded from the server")
	}
	if res.Trip.Locked {
		fmt.Fprintln(out, "this trip is locked; selections can no longer change")
	}
}

func printWeeks(out io.Writer, weeks []models.WeekDescriptor, sels []models.Selection) {
	byWeek := make(map[int]models.Selection, len(sels))
	for _, sel := range sels {
		byWeek[sel.WeekNumber] = sel
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tDATES\tSTATUS\tRANK")
	for _, w := range weeks {
		sel := byWeek[w.WeekNumber]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", w.WeekNumber, w.RangeText, statusMark(sel.Status), rankText(sel.Rank))
	}
	tw.Flush()
}

func printLeaderboard(out io.Writer, weeks []models.WeekDescriptor, board []models.WeekAggregate, group models.GroupData) {
	submitted := 0
	for _, p := range group.Participants {
		if p.SubmittedAt != nil {
			submitted++
		}
	}
	fmt.Fprintf(out, "%d of %d submitted\n", submitted, len(group.Participants))
	if len(board) == 0 {
		fmt.Fprintln(out, "no week has any availability yet")
		return
	}

	ranges := make(map[int]string, len(weeks))
	for _, w := range weeks {
		ranges[w.WeekNumber] = w.RangeText
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWEEK\tDATES\tSCORE\tAVAIL\tMAYBE\tAVG RANK\tWHO")
	for i, agg := range board {
		avg := "-"
		if agg.AvgRank != nil {
			avg = fmt.Sprintf("%.1f", *agg.AvgRank)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			ordinal(i+1), agg.WeekNumber, ranges[agg.WeekNumber],
			agg.Score, agg.AvailableCount, agg.MaybeCount, avg, people(agg.People))
	}
	tw.Flush()

	for _, p := range group.Participants {
		if p.SubmittedAt != nil {
			fmt.Fprintf(out, "  %s submitted %s\n", p.Name, relativeTime(*p.SubmittedAt))
		}
	}
}

func people(marks []models.PersonMark) string {
	names := make([]string, 0, len(marks))
	for _, m := range marks {
		name := m.Name
		if m.Status == models.Maybe {
			name += "?"
		}
		if m.Rank != nil {
			name += fmt.Sprintf(" (%s)", ordinal(*m.Rank))
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func statusMark(status models.Status) string {
	switch status {
	case models.Available:
		return "available"
	case models.Maybe:
		return "maybe"
	default:
		return "-"
	}
}

func rankText(rank *int) string {
	if rank == nil {
		return ""
	}
	return ordinal(*rank)
}

func ordinal(n int) string {
	return humanize.Ordinal(n)
}

func relativeTime(t time.Time) string {
	return humanize.Time(t)
}
