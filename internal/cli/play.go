package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/pegjump/internal/dependencies/clock"
	"github.com/mcoot/pegjump/internal/engine"
	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/services/advisory"
)

const playHelp = `Commands:
  <row> <col>   tap a cell (visible coordinates, row 0-19, col 0-14)
  left, right   pan the viewport
  undo          undo the last move
  reset         start over
  dismiss       hide the milestone message
  help          show this help
  quit          leave the game`

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a local game in the terminal, no server needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := newLocalGame(cmd.OutOrStdout(), clock.New(), advisory.DefaultDuration)
			return g.run(cmd.InOrStdin())
		},
	}
}

// localGame drives an engine from line-oriented commands
type localGame struct {
	engine   *engine.Engine
	out      io.Writer
	clock    clock.Clock
	duration time.Duration
	moves    int
	shownAt  time.Time
}

func newLocalGame(out io.Writer, clk clock.Clock, advisoryFor time.Duration) *localGame {
	g := &localGame{out: out, clock: clk, duration: advisoryFor}
	g.engine = engine.New(
		engine.WithClock(clk.Now),
		engine.WithListener(g.onEvent),
	)
	return g
}

func (g *localGame) onEvent(evt model.Event) {
	switch evt.Type {
	case model.EventMoveApplied:
		g.moves++
	case model.EventMilestoneReached:
		g.shownAt = evt.Timestamp
	}
}

// run reads commands until quit or end of input
func (g *localGame) run(in io.Reader) error {
	g.render()
	_, _ = fmt.Fprintln(g.out, "Type 'help' for commands.")

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(g.out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(g.out)
			return scanner.Err()
		}

		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "q" || fields[0] == "exit" {
			return nil
		}

		if msg := g.exec(fields); msg != "" {
			_, _ = fmt.Fprintln(g.out, msg)
			continue
		}
		g.render()
	}
}

// exec applies one command. A non-empty result is printed instead of the board.
func (g *localGame) exec(fields []string) string {
	switch fields[0] {
	case "help", "?":
		return playHelp
	case "left", "l":
		if !g.engine.PanLeft() {
			return "Already at the left edge"
		}
	case "right", "r":
		if !g.engine.PanRight() {
			return "Already at the right edge"
		}
	case "undo", "u":
		if !g.engine.Undo() {
			return "Nothing to undo"
		}
	case "reset":
		g.engine.Reset()
	case "dismiss", "d":
		g.engine.DismissAdvisory()
	default:
		if fields[0] == "tap" || fields[0] == "t" {
			fields = fields[1:]
		}
		if len(fields) != 2 {
			return "Unknown command; type 'help'"
		}
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return "Invalid row: " + fields[0]
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return "Invalid column: " + fields[1]
		}
		if g.engine.ActivateCell(row, col) == model.ActivationIgnored {
			return "Nothing to do there"
		}
	}
	return ""
}

// expireAdvisory clears a milestone message that has been up long enough
func (g *localGame) expireAdvisory() {
	if _, ok := g.engine.AdvisoryMessage(); !ok {
		return
	}
	if g.clock.Now().Sub(g.shownAt) >= g.duration {
		g.engine.DismissAdvisory()
	}
}

func (g *localGame) render() {
	g.expireAdvisory()
	state := g.engine.Snapshot()

	view := boardView{
		Rows:    state.Board.WindowStrings(state.ViewportOffset),
		Labels:  model.RowLabels(),
		Offset:  state.ViewportOffset,
		Targets: make([]Position, 0, len(state.ValidMoves)),
	}
	if state.Selection != nil {
		view.Selection = &Position{Row: state.Selection.Row, Col: state.Selection.Col}
	}
	for _, m := range state.ValidMoves {
		view.Targets = append(view.Targets, Position{Row: m.Row, Col: m.Col})
	}

	_, _ = fmt.Fprintln(g.out, renderBoard(view))
	_, _ = fmt.Fprintln(g.out, renderStatus(
		state.Board.PieceCount(),
		g.moves,
		model.RowLabel(state.HighestRowReached),
		g.engine.HasMoves(),
	))
	if msg, ok := g.engine.AdvisoryMessage(); ok {
		_, _ = fmt.Fprintln(g.out, renderAdvisory(msg))
	}
}
