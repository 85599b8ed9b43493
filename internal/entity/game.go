package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownOutcome = errors.New("unknown game outcome")

// Outcome tells how a finished game ended.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeStalemate Outcome = "stalemate"
)

// Result is the terminal status of a game. A game in progress has no result (nil).
type Result struct {
	Outcome Outcome `json:"outcome"`
	Winner  Player  `json:"winner,omitempty"`
}

func Win(player Player) *Result {
	return &Result{Outcome: OutcomeWin, Winner: player}
}

func Stalemate() *Result {
	return &Result{Outcome: OutcomeStalemate}
}

func (that Result) IsWin() bool {
	return that.Outcome == OutcomeWin
}

func (that Result) String() string {
	if that.IsWin() {
		return fmt.Sprintf("Player %s Win", that.Winner)
	}
	return "Stalemate"
}

// Validate checks that the result is one of Win(O), Win(X) or Stalemate.
func (that Result) Validate() error {
	switch that.Outcome {
	case OutcomeWin:
		if !that.Winner.IsValid() {
			return fmt.Errorf("%w: winner %q", ErrUnknownPlayer, that.Winner)
		}
	case OutcomeStalemate:
		if that.Winner != "" {
			return fmt.Errorf("%w: stalemate with winner %q", ErrUnknownOutcome, that.Winner)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, that.Outcome)
	}

	return nil
}

// MarshalJSON adds the display text next to the outcome so clients don't have to build it.
func (that Result) MarshalJSON() ([]byte, error) {
	type plain Result

	return json.Marshal(struct {
		plain
		Text string `json:"text"`
	}{
		plain: plain(that),
		Text:  that.String(),
	})
}

// Snapshot is a copy of the game state handed to observers, adapters and storage.
type Snapshot struct {
	Size          int      `json:"size"`
	Cells         [][]Mark `json:"cells"`
	CurrentPlayer Player   `json:"current_player"`
	Result        *Result  `json:"result"`
	Finished      bool     `json:"finished"`
}

// MarkAt returns the mark at the coordinate, or MarkEmpty when it is off the board.
func (that Snapshot) MarkAt(coordinate Coordinate) Mark {
	if !coordinate.InBounds(that.Size) || coordinate.Row >= len(that.Cells) || coordinate.Column >= len(that.Cells[coordinate.Row]) {
		return MarkEmpty
	}
	return that.Cells[coordinate.Row][coordinate.Column]
}

// Status is the line shown above the board.
func (that Snapshot) Status() string {
	if that.Result != nil {
		return that.Result.String()
	}
	return "Current Player is " + that.CurrentPlayer.String()
}
