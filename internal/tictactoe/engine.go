package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

var ErrInvalidSnapshot = errors.New("invalid game snapshot")

// Observer receives the new state after every accepted move and every reset.
type Observer func(snapshot entity.Snapshot)

// Engine owns the state of one game: the board, whose turn it is and the result.
// It is not safe for concurrent use.
type Engine struct {
	size    int
	cells   []entity.Mark
	current entity.Player
	result  *entity.Result

	observers map[int]Observer
	nextID    int
}

func NewEngine() *Engine {
	engine := &Engine{
		size:      entity.BoardSize,
		observers: make(map[int]Observer),
	}
	engine.clear()

	return engine
}

// PlaceMark puts the current player's mark at the coordinate. Moves after the game has
// finished, onto an occupied cell or off the board are ignored and report false.
func (that *Engine) PlaceMark(coordinate entity.Coordinate) bool {
	if that.result != nil {
		return false
	}

	if !coordinate.InBounds(that.size) {
		return false
	}

	index := coordinate.Index(that.size)
	if !that.cells[index].IsEmpty() {
		return false
	}

	that.cells[index] = that.current.Mark()

	// only the mover can complete a line on this move
	that.result = that.terminalStatus(that.current)
	if that.result == nil {
		that.current = that.current.Opponent()
	}

	that.notify()

	return true
}

// Reset starts a fresh game on a new board.
func (that *Engine) Reset() {
	that.clear()
	that.notify()
}

func (that *Engine) Size() int {
	return that.size
}

// MarkAt returns the mark at the coordinate; coordinates off the board read as empty.
func (that *Engine) MarkAt(coordinate entity.Coordinate) entity.Mark {
	if !coordinate.InBounds(that.size) {
		return entity.MarkEmpty
	}
	return that.cells[coordinate.Index(that.size)]
}

func (that *Engine) CurrentPlayer() entity.Player {
	return that.current
}

// Result returns a copy of the terminal status, or nil while the game is in progress.
func (that *Engine) Result() *entity.Result {
	if that.result == nil {
		return nil
	}

	result := *that.result
	return &result
}

func (that *Engine) IsFinished() bool {
	return that.result != nil
}

func (that *Engine) Snapshot() entity.Snapshot {
	cells := make([][]entity.Mark, that.size)
	for row := range cells {
		cells[row] = make([]entity.Mark, that.size)
		copy(cells[row], that.cells[row*that.size:(row+1)*that.size])
	}

	return entity.Snapshot{
		Size:          that.size,
		Cells:         cells,
		CurrentPlayer: that.current,
		Result:        that.Result(),
		Finished:      that.IsFinished(),
	}
}

// Subscribe registers an observer and returns a function removing it again.
func (that *Engine) Subscribe(observer Observer) func() {
	id := that.nextID
	that.nextID++
	that.observers[id] = observer

	return func() {
		delete(that.observers, id)
	}
}

// Restore replaces the state with a previously taken snapshot.
func (that *Engine) Restore(snapshot entity.Snapshot) error {
	if err := that.validate(snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	cells := make([]entity.Mark, 0, that.size*that.size)
	for _, row := range snapshot.Cells {
		cells = append(cells, row...)
	}

	that.cells = cells
	that.current = snapshot.CurrentPlayer
	that.result = nil
	if snapshot.Result != nil {
		result := *snapshot.Result
		that.result = &result
	}

	that.notify()

	return nil
}

func (that *Engine) clear() {
	that.cells = make([]entity.Mark, that.size*that.size)
	that.current = entity.PlayerO
	that.result = nil
}

func (that *Engine) notify() {
	if len(that.observers) == 0 {
		return
	}

	snapshot := that.Snapshot()
	for _, observer := range that.observers {
		observer(snapshot)
	}
}
