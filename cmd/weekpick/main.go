// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command weekpick is a terminal client for a weekpick server.
//
//	weekpick -code ABCD2345 -name Ana join
//	weekpick mark 12 available
//	weekpick rank 12 1
//	weekpick watch
//
// The last joined identity is remembered in the local state file, so later
// commands reconnect without -code and -name.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/apperr"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/bridge"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/cliparse"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/localstate"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/logging"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/poller"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/selection"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/session"
)

const usage = `usage: weekpick [flags] <command> [args]

commands:
  create <trip name>          create a trip and print its code and admin key
  join                        join the trip given by -code and -name
  resume                      reconnect the last joined session
  show                        list all weeks with your marks
  mark <week> <status>        set available, maybe or unselected
  rank <week> <1-5>           rank an available week
  unrank <week>               clear a week's rank
  step <1-4>                  record progress
  leaderboard [n]             print the group's best weeks
  watch                       keep printing the leaderboard as it changes
  submit                      save and mark your selections submitted
  leave                       forget the remembered session`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if err := cliparse.LoadDotEnv(); err != nil {
		return err
	}
	cfg, rest, err := cliparse.ParseClientFlags(args)
	if err != nil {
		return err
	}
	if _, err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
		return err
	}
	if len(rest) == 0 {
		return errors.New(usage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := bridge.NewClient(cfg.ServerURL, cfg.Timeout)
	cmd, operands := rest[0], rest[1:]

	if cmd == "create" {
		return createTrip(ctx, client, cfg, operands, out)
	}

	store, err := localstate.OpenSQLite(ctx, cfg.StateFile)
	if err != nil {
		return err
	}
	defer store.Close()

	refreshed := make(chan struct{}, 1)
	s := session.New(session.Options{
		Bridge:        client,
		Store:         store,
		Poll:          poller.Config{Base: cfg.PollBase, Factor: 2, Max: cfg.PollMax},
		AutosaveDelay: cfg.AutosaveDelay,
		Year:          cfg.Year,
		Window:        models.WindowConfig{StartDay: cfg.WindowStartDay, Days: cfg.WindowDays},
		OnRefresh: func() {
			select {
			case refreshed <- struct{}{}:
			default:
			}
		},
	})
	defer s.Close()

	if cmd == "leave" {
		if err := s.Leave(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "left; local selections are kept")
		return nil
	}

	res, err := connect(ctx, s, cfg)
	if err != nil {
		return err
	}

	switch cmd {
	case "join", "resume":
		printJoin(out, res)
		return nil

	case "show":
		printWeeks(out, s.Weeks(), s.Selections())
		return nil

	case "mark":
		if len(operands) != 2 {
			return errors.New("usage: mark <week> <available|maybe|unselected>")
		}
		week, err := strconv.Atoi(operands[0])
		if err != nil {
			return fmt.Errorf("invalid week %q", operands[0])
		}
		status, ok := models.ParseStatus(operands[1])
		if !ok {
			return fmt.Errorf("invalid status %q", operands[1])
		}
		if err := s.SetStatus(week, status); err != nil {
			return err
		}
		return save(ctx, s, out)

	case "rank":
		if len(operands) != 2 {
			return errors.New("usage: rank <week> <1-5>")
		}
		week, err1 := strconv.Atoi(operands[0])
		rank, err2 := strconv.Atoi(operands[1])
		if err1 != nil || err2 != nil {
			return errors.New("week and rank must be numbers")
		}
		displaced, err := s.SetRank(week, rank)
		if errors.Is(err, selection.ErrRankRequiresAvailable) {
			fmt.Fprintf(out, "week %d is not available, so it stays unranked\n", week)
			return nil
		}
		if err != nil {
			return err
		}
		if displaced != 0 {
			fmt.Fprintf(out, "week %d lost its %s place\n", displaced, ordinal(rank))
		}
		return save(ctx, s, out)

	case "unrank":
		if len(operands) != 1 {
			return errors.New("usage: unrank <week>")
		}
		week, err := strconv.Atoi(operands[0])
		if err != nil {
			return fmt.Errorf("invalid week %q", operands[0])
		}
		if err := s.ClearRank(week); err != nil {
			return err
		}
		return save(ctx, s, out)

	case "step":
		if len(operands) != 1 {
			return errors.New("usage: step <1-4>")
		}
		step, err := strconv.Atoi(operands[0])
		if err != nil {
			return fmt.Errorf("invalid step %q", operands[0])
		}
		return s.SetStep(ctx, step)

	case "leaderboard":
		limit := 0
		if len(operands) == 1 {
			if limit, err = strconv.Atoi(operands[0]); err != nil {
				return fmt.Errorf("invalid limit %q", operands[0])
			}
		}
		if err := s.Refresh(ctx); err != nil {
			slog.Warn("showing local preview, group refresh failed", "error", err)
		}
		printLeaderboard(out, s.Weeks(), s.Leaderboard(limit), s.Group())
		return nil

	case "watch":
		return watch(ctx, s, refreshed, out)

	case "submit":
		at, err := s.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "submitted %s\n", relativeTime(at))
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// connect joins when an identity is given on the command line and resumes
// the remembered session otherwise.
func connect(ctx context.Context, s *session.Session, cfg cliparse.ClientConfig) (session.JoinResult, error) {
	if cfg.TripCode != "" && cfg.Name != "" {
		return s.Join(ctx, cfg.TripCode, cfg.Name)
	}
	res, err := s.Resume(ctx)
	if apperr.Is(err, apperr.CodeNotFound) && s.State() == session.Anonymous {
		return res, errors.New("no session to resume; pass -code and -name")
	}
	return res, err
}

func save(ctx context.Context, s *session.Session, out io.Writer) error {
	if err := s.Save(ctx); err != nil {
		return fmt.Errorf("saved locally, server update failed: %w", err)
	}
	available, maybe, ranked := selection.FromSelections(models.WeekCount, s.Selections()).Counts()
	fmt.Fprintf(out, "saved: %d available, %d maybe, %d ranked\n", available, maybe, ranked)
	return nil
}

func watch(ctx context.Context, s *session.Session, refreshed <-chan struct{}, out io.Writer) error {
	fmt.Fprintln(out, "watching for changes, Ctrl-C to stop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refreshed:
			printLeaderboard(out, s.Weeks(), s.Leaderboard(0), s.Group())
		}
	}
}

func createTrip(ctx context.Context, client *bridge.Client, cfg cliparse.ClientConfig, operands []string, out io.Writer) error {
	if len(operands) == 0 {
		return errors.New("usage: create <trip name>")
	}
	name := operands[0]
	for _, w := range operands[1:] {
		name += " " + w
	}
	resp, err := client.CreateTrip(ctx, models.CreateTripRequest{
		Name:      name,
		ShareCode: cfg.TripCode,
		Year:      cfg.Year,
		Window:    models.WindowConfig{StartDay: cfg.WindowStartDay, Days: cfg.WindowDays},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "trip:      %s (%d)\n", resp.Trip.Name, resp.Trip.Year)
	fmt.Fprintf(out, "code:      %s\n", resp.Trip.ShareCode)
	fmt.Fprintf(out, "admin key: %s\n", resp.AdminKey)
	return nil
}
