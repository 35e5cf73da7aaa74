package game

import (
	"fmt"
	"strings"

	"github.com/robalobadob/the100/internal/round"
)

// Message is the transient text a host shows for an outcome.
// noun names what the topic lists ("country", "song"); raw is the player's input.
func Message(out round.Outcome, raw, noun string) string {
	if noun == "" {
		noun = "answer"
	}
	switch out.Kind {
	case round.EmptyGuess:
		return fmt.Sprintf("Please enter a valid %s name.", noun)
	case round.DuplicateGuess:
		return fmt.Sprintf("%s already guessed!", strings.TrimSpace(raw))
	case round.RoundClosed:
		return "No attempts left."
	case round.Hit:
		return fmt.Sprintf("#%d! +%d points", out.Rank, out.Points)
	case round.Miss:
		return "Not on the list."
	}
	return ""
}

// ShareText is the brag line players copy after a round.
func ShareText(score int, topicName, url string) string {
	return fmt.Sprintf("Play The 100 Game! I scored %d points in The 100 Game: %s! Check it out at %s. Can you beat my score?",
		score, topicName, url)
}
