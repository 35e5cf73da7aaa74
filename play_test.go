package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/caarlos0/env/v10"

	"github.com/robalobadob/the100/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse(env.Options{Environment: map[string]string{
		"REVEAL_DELAY": "1ms",
		"PUBLIC_URL":   "https://the100.test",
	}})
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestPlayFullRound(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"India", "india", "", "China", "x1", "x2", "x3", "x4",
	}, "\n") + "\n")
	var out bytes.Buffer
	if err := runPlay(context.Background(), testConfig(t), "countries-population", in, &out); err != nil {
		t.Fatalf("runPlay() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"The 100 Game: Most Populated Countries",
		"#1! +1 points  (score 1, 5 left)",
		"india already guessed!",
		"Please enter a valid country name.",
		"#2! +2 points  (score 3, 4 left)",
		"Not on the list.",
		"Round over. Final score 3.",
		"I scored 3 points in The 100 Game: Most Populated Countries! Check it out at https://the100.test.",
		"*#  1 India",
		" #100 ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if strings.Index(got, " #100 ") > strings.Index(got, "*#  1 India") {
		t.Error("reveal should run from rank 100 down to rank 1")
	}
}

func TestPlayQuitAndHide(t *testing.T) {
	in := strings.NewReader(":reveal\n:hide\n:quit\nIndia\n")
	var out bytes.Buffer
	if err := runPlay(context.Background(), testConfig(t), "girl-names-us", in, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Answers hidden.") || !strings.Contains(got, " #  1 Olivia") {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if strings.Contains(got, "#1! +") || strings.Contains(got, "Not on the list.") {
		t.Fatal("input after :quit should not be played")
	}
}

func TestPlayUnknownTopic(t *testing.T) {
	err := runPlay(context.Background(), testConfig(t), "nope", strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unknown topic") {
		t.Fatalf("runPlay() err = %v", err)
	}
}

func TestTopicsCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"topics"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "countries-population") || !strings.Contains(out.String(), "wikitable") {
		t.Fatalf("topics output:\n%s", out.String())
	}
}
