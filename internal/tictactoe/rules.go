package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

var (
	errSizeMismatch  = errors.New("board size mismatch")
	errUnknownMark   = errors.New("unknown mark")
	errResultInvalid = errors.New("result does not match board")
)

// terminalStatus checks the lines of the player who just moved, then the stalemate condition.
func (that *Engine) terminalStatus(mover entity.Player) *entity.Result {
	if that.hasLine(mover.Mark()) {
		return entity.Win(mover)
	}

	for _, mark := range that.cells {
		if mark.IsEmpty() {
			return nil
		}
	}

	return entity.Stalemate()
}

// hasLine reports whether any row, column or diagonal is filled with the mark.
func (that *Engine) hasLine(mark entity.Mark) bool {
	return hasLine(that.cells, that.size, mark)
}

func hasLine(cells []entity.Mark, n int, mark entity.Mark) bool {
	for i := 0; i < n; i++ {
		if lineFilled(cells, n, mark, func(k int) int { return i*n + k }) {
			return true
		}

		if lineFilled(cells, n, mark, func(k int) int { return k*n + i }) {
			return true
		}
	}

	if lineFilled(cells, n, mark, func(k int) int { return k*n + k }) {
		return true
	}

	return lineFilled(cells, n, mark, func(k int) int { return k*n + (n - 1 - k) })
}

func lineFilled(cells []entity.Mark, n int, mark entity.Mark, index func(k int) int) bool {
	for k := 0; k < n; k++ {
		if cells[index(k)] != mark {
			return false
		}
	}
	return true
}

func (that *Engine) validate(snapshot entity.Snapshot) error {
	if snapshot.Size != that.size || len(snapshot.Cells) != that.size {
		return fmt.Errorf("%w: got %d, want %d", errSizeMismatch, snapshot.Size, that.size)
	}

	cells := make([]entity.Mark, 0, that.size*that.size)
	empty := 0
	for row, marks := range snapshot.Cells {
		if len(marks) != that.size {
			return fmt.Errorf("%w: row %d has %d cells", errSizeMismatch, row, len(marks))
		}

		for column, mark := range marks {
			if !mark.IsValid() {
				return fmt.Errorf("%w: %q at (%d, %d)", errUnknownMark, mark, row, column)
			}
			if mark.IsEmpty() {
				empty++
			}
		}
		cells = append(cells, marks...)
	}

	if !snapshot.CurrentPlayer.IsValid() {
		return fmt.Errorf("%w: current player %q", entity.ErrUnknownPlayer, snapshot.CurrentPlayer)
	}

	lineO := hasLine(cells, that.size, entity.MarkO)
	lineX := hasLine(cells, that.size, entity.MarkX)

	if snapshot.Result == nil {
		if lineO || lineX {
			return fmt.Errorf("%w: completed line without result", errResultInvalid)
		}
		if empty == 0 {
			return fmt.Errorf("%w: full board without result", errResultInvalid)
		}
		return nil
	}

	if err := snapshot.Result.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errResultInvalid, err)
	}

	if !snapshot.Result.IsWin() {
		if empty != 0 {
			return fmt.Errorf("%w: stalemate with %d empty cells", errResultInvalid, empty)
		}
		if lineO || lineX {
			return fmt.Errorf("%w: stalemate with a completed line", errResultInvalid)
		}
		return nil
	}

	winner := snapshot.Result.Winner
	winnerLine, opponentLine := lineO, lineX
	if winner == entity.PlayerX {
		winnerLine, opponentLine = lineX, lineO
	}

	switch {
	case !winnerLine:
		return fmt.Errorf("%w: player %s has no line", errResultInvalid, winner)
	case opponentLine:
		return fmt.Errorf("%w: both players have a line", errResultInvalid)
	case snapshot.CurrentPlayer != winner:
		return fmt.Errorf("%w: current player %s is not the winner", errResultInvalid, snapshot.CurrentPlayer)
	}

	return nil
}
