package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

func at(row, column int) entity.Coordinate {
	return entity.Coordinate{Row: row, Column: column}
}

// play places the moves in order and fails the test if one is rejected.
func play(t *testing.T, engine *Engine, moves ...entity.Coordinate) {
	t.Helper()

	for _, move := range moves {
		require.True(t, engine.PlaceMark(move), "move %v rejected", move)
	}
}

// stalemateMoves fills the board as
//
//	o o x x
//	x x o o
//	o o x x
//	x x o o
var stalemateMoves = []entity.Coordinate{
	at(0, 0), at(0, 2),
	at(0, 1), at(0, 3),
	at(1, 2), at(1, 0),
	at(1, 3), at(1, 1),
	at(2, 0), at(2, 2),
	at(2, 1), at(2, 3),
	at(3, 2), at(3, 0),
	at(3, 3), at(3, 1),
}

func TestNewEngine(t *testing.T) {
	// When: create a new engine
	engine := NewEngine()

	// Then: every cell is empty, O starts and there is no result
	require.Equal(t, entity.BoardSize, engine.Size())
	for _, coordinate := range entity.AllCoordinates(engine.Size()) {
		assert.Equal(t, entity.MarkEmpty, engine.MarkAt(coordinate))
	}

	assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
	assert.Nil(t, engine.Result())
	assert.False(t, engine.IsFinished())
}

func TestEngine_PlaceMark(t *testing.T) {
	t.Run("Accepted move writes the mark and passes the turn", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: O places a mark
		accepted := engine.PlaceMark(at(1, 2))

		// Then: the cell carries o and it is X's turn
		assert.True(t, accepted)
		assert.Equal(t, entity.MarkO, engine.MarkAt(at(1, 2)))
		assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
		assert.Nil(t, engine.Result())
	})

	t.Run("Turns alternate O, X, O, X", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()
		expected := entity.PlayerO

		// When: playing every move but the last of a drawn game
		for _, move := range stalemateMoves[:len(stalemateMoves)-1] {
			// Then: the current player alternates strictly
			require.Equal(t, expected, engine.CurrentPlayer())
			require.True(t, engine.PlaceMark(move))
			assert.Equal(t, expected.Mark(), engine.MarkAt(move))
			expected = expected.Opponent()
		}
	})

	t.Run("Occupied cell is a no-op", func(t *testing.T) {
		// Given: a game where O has taken (0, 0)
		engine := NewEngine()
		play(t, engine, at(0, 0))
		before := engine.Snapshot()

		notified := 0
		engine.Subscribe(func(entity.Snapshot) { notified++ })

		// When: X tries the same cell
		accepted := engine.PlaceMark(at(0, 0))

		// Then: the state is unchanged and nobody is notified
		assert.False(t, accepted)
		assert.Equal(t, before, engine.Snapshot())
		assert.Zero(t, notified)
	})

	t.Run("Out of range coordinate is a no-op", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()
		before := engine.Snapshot()

		// When: placing off the board
		assert.False(t, engine.PlaceMark(at(entity.BoardSize, 0)))
		assert.False(t, engine.PlaceMark(at(0, -1)))

		// Then: the state is unchanged
		assert.Equal(t, before, engine.Snapshot())
		assert.Equal(t, entity.MarkEmpty, engine.MarkAt(at(-1, -1)))
	})

	t.Run("Row win", func(t *testing.T) {
		// Given: O fills row 0 while X plays row 1
		engine := NewEngine()
		play(t, engine,
			at(0, 0), at(1, 0),
			at(0, 1), at(1, 1),
			at(0, 2), at(1, 2),
			at(0, 3),
		)

		// Then: O wins and the turn does not pass
		assert.Equal(t, entity.Win(entity.PlayerO), engine.Result())
		assert.True(t, engine.IsFinished())
		assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
	})

	t.Run("Column win", func(t *testing.T) {
		// Given: X fills column 1
		engine := NewEngine()
		play(t, engine,
			at(0, 0), at(0, 1),
			at(1, 0), at(1, 1),
			at(2, 0), at(2, 1),
			at(0, 3), at(3, 1),
		)

		// Then: X wins
		assert.Equal(t, entity.Win(entity.PlayerX), engine.Result())
		assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
	})

	t.Run("Diagonal win", func(t *testing.T) {
		// Given: O fills the main diagonal
		engine := NewEngine()
		play(t, engine,
			at(0, 0), at(0, 1),
			at(1, 1), at(0, 2),
			at(2, 2), at(0, 3),
			at(3, 3),
		)

		// Then: O wins
		assert.Equal(t, entity.Win(entity.PlayerO), engine.Result())
	})

	t.Run("Anti-diagonal win", func(t *testing.T) {
		// Given: X fills the anti-diagonal
		engine := NewEngine()
		play(t, engine,
			at(0, 0), at(0, 3),
			at(0, 1), at(1, 2),
			at(1, 0), at(2, 1),
			at(2, 2), at(3, 0),
		)

		// Then: X wins
		assert.Equal(t, entity.Win(entity.PlayerX), engine.Result())
	})

	t.Run("Full board without a line is a stalemate", func(t *testing.T) {
		// Given: a new engine
		engine := NewEngine()

		// When: the board is filled without any complete line
		play(t, engine, stalemateMoves...)

		// Then: the result is a stalemate, distinct from a game in progress
		require.NotNil(t, engine.Result())
		assert.Equal(t, entity.Stalemate(), engine.Result())
		assert.True(t, engine.IsFinished())
		assert.Equal(t, entity.PlayerX, engine.CurrentPlayer())
	})

	t.Run("Win on the last empty cell beats stalemate", func(t *testing.T) {
		// Given: a board where X's last move fills the main diagonal and the board
		//
		//	x o x o
		//	o x o x
		//	o x x o
		//	x o o x
		engine := NewEngine()
		play(t, engine,
			at(0, 1), at(0, 0),
			at(0, 3), at(0, 2),
			at(1, 0), at(1, 1),
			at(1, 2), at(1, 3),
			at(2, 0), at(2, 1),
			at(2, 3), at(2, 2),
			at(3, 1), at(3, 0),
			at(3, 2), at(3, 3),
		)

		// Then: X wins
		assert.Equal(t, entity.Win(entity.PlayerX), engine.Result())
	})

	t.Run("Moves after the game has finished are no-ops", func(t *testing.T) {
		// Given: a game O has already won
		engine := NewEngine()
		play(t, engine,
			at(0, 0), at(1, 0),
			at(0, 1), at(1, 1),
			at(0, 2), at(1, 2),
			at(0, 3),
		)
		before := engine.Snapshot()

		// When: someone plays on an empty cell
		accepted := engine.PlaceMark(at(3, 3))

		// Then: nothing changes
		assert.False(t, accepted)
		assert.Equal(t, before, engine.Snapshot())
	})
}

func TestEngine_Reset(t *testing.T) {
	t.Run("Reset of a finished game equals a new engine", func(t *testing.T) {
		// Given: a finished game
		engine := NewEngine()
		play(t, engine, stalemateMoves...)
		require.True(t, engine.IsFinished())

		// When: resetting it
		engine.Reset()

		// Then: it is indistinguishable from a brand-new engine
		assert.Equal(t, NewEngine().Snapshot(), engine.Snapshot())
		assert.True(t, engine.PlaceMark(at(0, 0)))
	})

	t.Run("Reset twice is the same as once", func(t *testing.T) {
		engine := NewEngine()
		play(t, engine, at(2, 2))

		engine.Reset()
		once := engine.Snapshot()
		engine.Reset()

		assert.Equal(t, once, engine.Snapshot())
	})
}

func TestEngine_Snapshot(t *testing.T) {
	// Given: a game with a couple of moves
	engine := NewEngine()
	play(t, engine, at(0, 0), at(3, 2))

	// When: taking a snapshot and changing it
	snapshot := engine.Snapshot()
	snapshot.Cells[1][1] = entity.MarkX

	// Then: the snapshot reflects the board and does not alias it
	assert.Equal(t, entity.MarkO, snapshot.Cells[0][0])
	assert.Equal(t, entity.MarkX, snapshot.Cells[3][2])
	assert.Equal(t, entity.MarkEmpty, engine.MarkAt(at(1, 1)))
	assert.Equal(t, entity.PlayerO, snapshot.CurrentPlayer)
	assert.False(t, snapshot.Finished)
}

func TestEngine_Subscribe(t *testing.T) {
	// Given: an engine with an observer
	engine := NewEngine()

	var received []entity.Snapshot
	unsubscribe := engine.Subscribe(func(snapshot entity.Snapshot) {
		received = append(received, snapshot)
	})

	// When: a move and a reset happen
	play(t, engine, at(1, 1))
	engine.Reset()

	// Then: the observer saw both states
	require.Len(t, received, 2)
	assert.Equal(t, entity.MarkO, received[0].Cells[1][1])
	assert.Equal(t, entity.PlayerX, received[0].CurrentPlayer)
	assert.Equal(t, NewEngine().Snapshot(), received[1])

	// When: unsubscribed
	unsubscribe()
	play(t, engine, at(2, 2))

	// Then: no more notifications arrive
	assert.Len(t, received, 2)
}

func TestEngine_Restore(t *testing.T) {
	t.Run("Restores a game in progress", func(t *testing.T) {
		// Given: a snapshot of another engine
		source := NewEngine()
		play(t, source, at(0, 0), at(1, 1), at(2, 2))
		snapshot := source.Snapshot()

		// When: restoring it into a new engine
		engine := NewEngine()
		require.NoError(t, engine.Restore(snapshot))

		// Then: both engines agree and play continues
		assert.Equal(t, snapshot, engine.Snapshot())
		assert.True(t, engine.PlaceMark(at(3, 3)))
		assert.Equal(t, entity.MarkX, engine.MarkAt(at(3, 3)))
	})

	t.Run("Restores a finished game", func(t *testing.T) {
		source := NewEngine()
		play(t, source, stalemateMoves...)

		engine := NewEngine()
		require.NoError(t, engine.Restore(source.Snapshot()))

		assert.Equal(t, entity.Stalemate(), engine.Result())
		assert.False(t, engine.PlaceMark(at(0, 0)))
	})

	t.Run("Restores a won game", func(t *testing.T) {
		source := NewEngine()
		play(t, source, at(0, 0), at(1, 0), at(0, 1), at(1, 1), at(0, 2), at(1, 2), at(0, 3))

		engine := NewEngine()
		require.NoError(t, engine.Restore(source.Snapshot()))

		assert.Equal(t, entity.Win(entity.PlayerO), engine.Result())
		assert.Equal(t, entity.PlayerO, engine.CurrentPlayer())
	})

	t.Run("Rejects broken snapshots", func(t *testing.T) {
		valid := func() entity.Snapshot { return NewEngine().Snapshot() }

		wrongSize := valid()
		wrongSize.Size = 3

		shortRow := valid()
		shortRow.Cells[2] = shortRow.Cells[2][:1]

		unknownMark := valid()
		unknownMark.Cells[0][0] = "z"

		unknownPlayer := valid()
		unknownPlayer.CurrentPlayer = "Z"

		earlyStalemate := valid()
		earlyStalemate.Result = entity.Stalemate()

		full := NewEngine()
		play(t, full, stalemateMoves...)
		fullWithoutResult := full.Snapshot()
		fullWithoutResult.Result = nil

		// O owns row 0 and X is one cell short of row 1
		lineWithoutResult := valid()
		for column := 0; column < entity.BoardSize; column++ {
			lineWithoutResult.Cells[0][column] = entity.MarkO
		}
		for column := 0; column < entity.BoardSize-1; column++ {
			lineWithoutResult.Cells[1][column] = entity.MarkX
		}
		lineWithoutResult.CurrentPlayer = entity.PlayerX

		winWithoutLine := valid()
		winWithoutLine.Cells[0][0] = entity.MarkO
		winWithoutLine.Result = entity.Win(entity.PlayerX)
		winWithoutLine.CurrentPlayer = entity.PlayerX
		winWithoutLine.Finished = true

		won := NewEngine()
		play(t, won, at(0, 0), at(1, 0), at(0, 1), at(1, 1), at(0, 2), at(1, 2), at(0, 3))
		winnerNotCurrent := won.Snapshot()
		winnerNotCurrent.CurrentPlayer = entity.PlayerX

		bothLines := won.Snapshot()
		bothLines.Cells[1][3] = entity.MarkX

		for name, snapshot := range map[string]entity.Snapshot{
			"line without result": lineWithoutResult,
			"win without line":    winWithoutLine,
			"winner not current":  winnerNotCurrent,
			"both players won":    bothLines,
			"wrong size":          wrongSize,
			"short row":           shortRow,
			"unknown mark":        unknownMark,
			"unknown player":      unknownPlayer,
			"early stalemate":     earlyStalemate,
			"full without result": fullWithoutResult,
		} {
			t.Run(name, func(t *testing.T) {
				// Given: an engine with one move
				engine := NewEngine()
				play(t, engine, at(0, 1))
				before := engine.Snapshot()

				// When: restoring a broken snapshot
				err := engine.Restore(snapshot)

				// Then: it is rejected and the state is untouched
				require.ErrorIs(t, err, ErrInvalidSnapshot)
				assert.Equal(t, before, engine.Snapshot())
			})
		}
	})
}
