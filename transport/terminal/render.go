package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const (
	colorO = "4"
	colorX = "1"

	emptyCell = "."
	resetHint = `type "reset" to play again`
)

// Renderer draws the board as a text grid with row and column indices.
type Renderer struct {
	output *termenv.Output
}

func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{output: termenv.NewOutput(w, opts...)}
}

func (that *Renderer) Render(snapshot entity.Snapshot) string {
	var sb strings.Builder

	status := that.output.String(snapshot.Status())
	if snapshot.Finished {
		status = status.Bold()
	}
	sb.WriteString(status.String())
	sb.WriteString("\n\n ")

	for column := 0; column < snapshot.Size; column++ {
		fmt.Fprintf(&sb, " %d", column)
	}
	sb.WriteString("\n")

	for row := 0; row < snapshot.Size; row++ {
		fmt.Fprintf(&sb, "%d", row)
		for column := 0; column < snapshot.Size; column++ {
			sb.WriteString(" ")
			sb.WriteString(that.cell(snapshot.MarkAt(entity.Coordinate{Row: row, Column: column})))
		}
		sb.WriteString("\n")
	}

	if snapshot.Finished {
		sb.WriteString("\n")
		sb.WriteString(resetHint)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (that *Renderer) cell(mark entity.Mark) string {
	switch mark {
	case entity.MarkO:
		return that.output.String(mark.String()).Foreground(that.output.Color(colorO)).String()
	case entity.MarkX:
		return that.output.String(mark.String()).Foreground(that.output.Color(colorX)).String()
	default:
		return emptyCell
	}
}
