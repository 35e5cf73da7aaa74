package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robalobadob/the100/internal/config"
	"github.com/robalobadob/the100/internal/daily"
	"github.com/robalobadob/the100/internal/game"
	"github.com/robalobadob/the100/internal/reveal"
)

// terminal is a line-oriented host for one round.
type terminal struct {
	sess *game.Session
	out  io.Writer
	url  string
}

func runPlay(ctx context.Context, cfg *config.Config, slug string, in io.Reader, out io.Writer) error {
	loader, closeCache, err := newLoader(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeCache()

	if slug == "" {
		t, ok := daily.Pick(loader.Catalog().Daily(), time.Now(), cfg.DailySalt)
		if !ok {
			return errors.New("no daily topics in catalog; pass --topic")
		}
		slug = t.Slug
	}
	topic, entries, err := loader.Load(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", slug, err)
	}

	sess := game.New("terminal", topic.Meta(), entries, game.Options{
		Round: cfg.RoundConfig(),
		Delay: cfg.RevealDelay,
		Order: cfg.Order(),
	})
	defer sess.Reset()

	t := &terminal{sess: sess, out: out, url: cfg.PublicURL}
	return t.run(ctx, in)
}

func (t *terminal) run(ctx context.Context, in io.Reader) error {
	snap := t.sess.Snapshot()
	noun := t.sess.Meta.Noun
	fmt.Fprintf(t.out, "The 100 Game: %s\n", t.sess.Meta.Name)
	fmt.Fprintf(t.out, "Name a %s from the list. %d attempts; rank = points. Commands: :reveal :hide :quit\n",
		noun, snap.MaxAttempts)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(t.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := sc.Text()
		switch strings.TrimSpace(line) {
		case ":quit":
			return nil
		case ":reveal":
			if err := t.reveal(ctx); err != nil {
				return err
			}
			continue
		case ":hide":
			if err := t.sess.HideReveal(); err != nil {
				return err
			}
			fmt.Fprintln(t.out, "Answers hidden.")
			continue
		}

		out, snap, err := t.sess.Guess(line)
		if err != nil {
			return err
		}
		fmt.Fprintf(t.out, "%s  (score %d, %d left)\n", game.Message(out, line, noun), snap.Score, snap.AttemptsLeft)
		if out.Consumed() && snap.AttemptsLeft == 0 {
			fmt.Fprintf(t.out, "Round over. Final score %d.\n", snap.Score)
			fmt.Fprintln(t.out, game.ShareText(snap.Score, t.sess.Meta.Name, t.url))
			return t.reveal(ctx)
		}
	}
}

// reveal discloses the list, printing one line per event, and returns when
// the last event has fired.
func (t *terminal) reveal(ctx context.Context) error {
	events, stop := t.sess.Subscribe()
	defer stop()
	if _, err := t.sess.StartReveal(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			t.printEntry(ev)
			if ev.Last() {
				return nil
			}
		}
	}
}

func (t *terminal) printEntry(ev reveal.Event) {
	e, ok := t.sess.Entry(ev.Rank)
	if !ok {
		return
	}
	mark := " "
	if e.Guessed {
		mark = "*"
	}
	if e.Detail != "" {
		fmt.Fprintf(t.out, "%s#%3d %s  %s\n", mark, e.Rank, e.Label, e.Detail)
		return
	}
	fmt.Fprintf(t.out, "%s#%3d %s\n", mark, e.Rank, e.Label)
}
