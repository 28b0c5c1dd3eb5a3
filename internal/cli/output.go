package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionState:
		o.printSession(v)
	case ActivateResult:
		o.printActivateResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Position response type (absolute board coordinates)
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SessionState response type (matches API)
type SessionState struct {
	ID                string     `json:"id"`
	Board             []string   `json:"board"`
	VisibleBoard      []string   `json:"visible_board"`
	RowLabels         []string   `json:"row_labels"`
	ViewportOffset    int        `json:"viewport_offset"`
	Selection         *Position  `json:"selection"`
	ValidMoves        []Position `json:"valid_moves"`
	HighestRowReached int        `json:"highest_row_reached"`
	AdvisoryMessage   string     `json:"advisory_message,omitempty"`
	CanUndo           bool       `json:"can_undo"`
	CanPanLeft        bool       `json:"can_pan_left"`
	CanPanRight       bool       `json:"can_pan_right"`
	HasMoves          bool       `json:"has_moves"`
	Pieces            int        `json:"pieces"`
	MoveCount         int        `json:"move_count"`
}

// ActivateResult response type
type ActivateResult struct {
	Activation string       `json:"activation"`
	State      SessionState `json:"state"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Server string `json:"server,omitempty"`
}

func (o *Output) printSession(s SessionState) {
	_, _ = fmt.Fprintf(o.w, "Session: %s\n", s.ID)
	_, _ = fmt.Fprintln(o.w, renderBoard(boardView{
		Rows:      s.VisibleBoard,
		Labels:    s.RowLabels,
		Offset:    s.ViewportOffset,
		Selection: s.Selection,
		Targets:   s.ValidMoves,
	}))

	highest := strconv.Itoa(s.HighestRowReached)
	if s.HighestRowReached >= 0 && s.HighestRowReached < len(s.RowLabels) {
		highest = s.RowLabels[s.HighestRowReached]
	}
	_, _ = fmt.Fprintln(o.w, renderStatus(s.Pieces, s.MoveCount, highest, s.HasMoves))
	if s.AdvisoryMessage != "" {
		_, _ = fmt.Fprintln(o.w, renderAdvisory(s.AdvisoryMessage))
	}
}

func (o *Output) printActivateResult(a ActivateResult) {
	_, _ = fmt.Fprintf(o.w, "Activation: %s\n", a.Activation)
	o.printSession(a.State)
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Server != "" {
		_, _ = fmt.Fprintf(o.w, "Server: %s\n", h.Server)
	}
}

// Cell glyphs for the text board
const (
	glyphPiece    = "●"
	glyphEmpty    = "·"
	glyphTarget   = "○"
	glyphSelected = "◉"
)

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A3E2B")).
			Padding(0, 1)

	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(3).Align(lipgloss.Right)
	goalLabelStyle = labelStyle.Foreground(lipgloss.Color("#2E8B57")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E08A00")).Bold(true)
	targetStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3D8BD9")).Bold(true)
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	advisoryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFD700")).
			Foreground(lipgloss.Color("#FFD700")).
			Padding(0, 1)

	noMovesStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500")).Bold(true)
)

// goalRows is how many rows at the top of the board count as goal rows
const goalRows = 5

// boardView is what renderBoard needs: the visible rows as 'o'/'.' strings and
// the selection and targets in absolute coordinates
type boardView struct {
	Rows      []string
	Labels    []string
	Offset    int
	Selection *Position
	Targets   []Position
}

// renderBoard draws the visible window with row labels and visible column numbers
func renderBoard(v boardView) string {
	targets := make(map[Position]bool, len(v.Targets))
	for _, t := range v.Targets {
		targets[Position{Row: t.Row, Col: t.Col - v.Offset}] = true
	}
	var selected *Position
	if v.Selection != nil {
		selected = &Position{Row: v.Selection.Row, Col: v.Selection.Col - v.Offset}
	}

	width := 0
	if len(v.Rows) > 0 {
		width = len(v.Rows[0])
	}

	var sb strings.Builder
	sb.WriteString(labelStyle.Render(""))
	for col := 0; col < width; col++ {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%3d", col)))
	}

	for row, cells := range v.Rows {
		sb.WriteString("\n")

		label := ""
		if row < len(v.Labels) {
			label = v.Labels[row]
		}
		if row < goalRows {
			sb.WriteString(goalLabelStyle.Render(label))
		} else {
			sb.WriteString(labelStyle.Render(label))
		}

		for col := 0; col < len(cells); col++ {
			pos := Position{Row: row, Col: col}
			sb.WriteString("  ")
			switch {
			case selected != nil && *selected == pos:
				sb.WriteString(selectedStyle.Render(glyphSelected))
			case targets[pos]:
				sb.WriteString(targetStyle.Render(glyphTarget))
			case cells[col] == 'o':
				sb.WriteString(glyphPiece)
			default:
				sb.WriteString(emptyStyle.Render(glyphEmpty))
			}
		}
	}

	title := fmt.Sprintf("columns %d-%d", v.Offset, v.Offset+width-1)
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(title), boardStyle.Render(sb.String()))
}

func renderStatus(pieces, moves int, highest string, hasMoves bool) string {
	status := fmt.Sprintf("Pieces: %d  Moves: %d  Highest row: %s", pieces, moves, highest)
	if !hasMoves {
		status += "  " + noMovesStyle.Render("No moves left")
	}
	return status
}

func renderAdvisory(msg string) string {
	return advisoryStyle.Render(msg)
}
