package entity

// BoardSize is the number of rows and columns of every board.
const BoardSize = 4

// Mark is the content of a single cell.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkO     Mark = "o"
	MarkX     Mark = "x"
)

func (that Mark) String() string {
	return string(that)
}

func (that Mark) IsEmpty() bool {
	return that == MarkEmpty
}

func (that Mark) IsValid() bool {
	switch that {
	case MarkEmpty, MarkO, MarkX:
		return true
	default:
		return false
	}
}

// Coordinate identifies a cell by its row and column.
type Coordinate struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// InBounds reports whether the coordinate lies on a board of the given size.
func (that Coordinate) InBounds(size int) bool {
	return that.Row >= 0 && that.Row < size && that.Column >= 0 && that.Column < size
}

// Index returns the position of the coordinate in a row-major flat board.
func (that Coordinate) Index(size int) int {
	return that.Row*size + that.Column
}

// AllCoordinates enumerates every coordinate of a size x size board in row-major order.
func AllCoordinates(size int) []Coordinate {
	coordinates := make([]Coordinate, 0, size*size)
	for row := 0; row < size; row++ {
		for column := 0; column < size; column++ {
			coordinates = append(coordinates, Coordinate{Row: row, Column: column})
		}
	}

	return coordinates
}
