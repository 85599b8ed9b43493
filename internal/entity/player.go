package entity

import "errors"

var ErrUnknownPlayer = errors.New("unknown player")

// Player is one of the two sides taking turns on the board.
type Player string

const (
	PlayerO Player = "O"
	PlayerX Player = "X"
)

func (that Player) String() string {
	return string(that)
}

// Mark returns the mark the player leaves on the board.
func (that Player) Mark() Mark {
	if that == PlayerX {
		return MarkX
	}
	return MarkO
}

func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Player) IsValid() bool {
	return that == PlayerO || that == PlayerX
}

// PlayerByMark maps a non-empty mark back to the player owning it.
func PlayerByMark(mark Mark) (Player, error) {
	switch mark {
	case MarkO:
		return PlayerO, nil
	case MarkX:
		return PlayerX, nil
	default:
		return "", ErrUnknownPlayer
	}
}
