package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
)

const usage = `commands: "<row> <column>" places a mark, "reset" starts over, "quit" exits`

var ErrUnknownCommand = errors.New("unknown command")

type uSession interface {
	PlaceMark(ctx context.Context, coordinate entity.Coordinate) (entity.Snapshot, bool, error)
	Reset(ctx context.Context) (entity.Snapshot, error)
	Subscribe(observer tictactoe.Observer) func()
}

// Console plays the game on a terminal: it reads commands line by line and redraws the
// board whenever the session changes.
type Console struct {
	logger   *slog.Logger
	uSession uSession
	renderer *Renderer

	in  io.Reader
	out io.Writer
}

func NewConsole(logger *slog.Logger, uSession uSession, renderer *Renderer, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:   logger.With("component", "terminal"),
		uSession: uSession,
		renderer: renderer,
		in:       in,
		out:      out,
	}
}

// Run returns when the input ends, "quit" is entered or the context is canceled.
func (that *Console) Run(ctx context.Context) error {
	that.println(usage)

	unsubscribe := that.uSession.Subscribe(func(snapshot entity.Snapshot) {
		that.println(that.renderer.Render(snapshot))
	})
	defer unsubscribe()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}

			quit, err := that.execute(ctx, strings.TrimSpace(line))
			if err != nil {
				that.println(err.Error())
			}
			if quit {
				return nil
			}
		}
	}
}

func (that *Console) execute(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "reset":
		if _, err := that.uSession.Reset(ctx); err != nil {
			that.logger.Error("failed to reset game", "error", err)
			return false, errors.New("could not reset the game")
		}
		return false, nil
	case "help":
		that.println(usage)
		return false, nil
	}

	coordinate, err := parseCoordinate(line)
	if err != nil {
		return false, err
	}

	snapshot, accepted, err := that.uSession.PlaceMark(ctx, coordinate)
	if errors.Is(err, apperror.ErrInvalidCoordinate) {
		return false, err
	}

	if err != nil {
		that.logger.Error("failed to place mark", "error", err)
		return false, errors.New("could not save the move")
	}

	if !accepted {
		if snapshot.Finished {
			return false, fmt.Errorf("the game is over, %s", resetHint)
		}
		return false, fmt.Errorf("cell %d %d is already taken", coordinate.Row, coordinate.Column)
	}

	return false, nil
}

func parseCoordinate(line string) (entity.Coordinate, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return entity.Coordinate{}, fmt.Errorf("%w: %q, %s", ErrUnknownCommand, line, usage)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("%w: row %q is not a number", ErrUnknownCommand, fields[0])
	}

	column, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("%w: column %q is not a number", ErrUnknownCommand, fields[1])
	}

	return entity.Coordinate{Row: row, Column: column}, nil
}

func (that *Console) println(text string) {
	if _, err := fmt.Fprintln(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
