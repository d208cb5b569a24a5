package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"mailbox/internal/board"
	"mailbox/internal/core"
	"mailbox/internal/movegen"

	"golang.org/x/exp/slices"
)

const remoteTimeout = 10 * time.Second

// Remote analyzes a position on a mailbox server
type Remote interface {
	Analyze(ctx context.Context, fen, turn string) (*core.MovesResponse, error)
}

// Command defines a shell command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Shell, []string) error
}

// Shell is an interactive session over one in-process board
type Shell struct {
	out      io.Writer
	colors   bool
	gen      *movegen.Generator
	board    *board.Board
	turn     board.Color
	remote   Remote
	commands map[string]*Command
	order    []string
	done     bool
}

// New creates a shell holding the starting position. colors enables ANSI output.
func New(out io.Writer, colors bool, gen *movegen.Generator) *Shell {
	if gen == nil {
		gen = movegen.New()
	}

	b, _ := board.LoadPosition(board.StartingPlacement)
	s := &Shell{
		out:      out,
		colors:   colors,
		gen:      gen,
		board:    b,
		turn:     board.White,
		commands: make(map[string]*Command),
	}

	s.Register(&Command{
		Name:        "load",
		ShortName:   "l",
		Description: "Load a position from FEN",
		Usage:       "load <placement> [w|b] [ignored fields...]",
		Handler:     loadHandler,
	})
	s.Register(&Command{
		Name:        "turn",
		ShortName:   "t",
		Description: "Show or set the side to move",
		Usage:       "turn [w|b]",
		Handler:     turnHandler,
	})
	s.Register(&Command{
		Name:        "board",
		ShortName:   "b",
		Description: "Show the board",
		Usage:       "board",
		Handler:     boardHandler,
	})
	s.Register(&Command{
		Name:        "moves",
		ShortName:   "m",
		Description: "List pseudo-legal moves for the side to move, or for one square",
		Usage:       "moves [square]",
		Handler:     movesHandler,
	})
	s.Register(&Command{
		Name:        "json",
		ShortName:   "j",
		Description: "Print generator output as JSON",
		Usage:       "json",
		Handler:     jsonHandler,
	})
	s.Register(&Command{
		Name:        "index",
		ShortName:   "i",
		Description: "Convert a square label to its cell index",
		Usage:       "index <square>",
		Handler:     indexHandler,
	})
	s.Register(&Command{
		Name:        "coord",
		ShortName:   "c",
		Description: "Convert a cell index to its square label",
		Usage:       "coord <index>",
		Handler:     coordHandler,
	})
	s.Register(&Command{
		Name:        "remote",
		ShortName:   "r",
		Description: "Compare local moves with the server's for the current board",
		Usage:       "remote",
		Handler:     remoteHandler,
	})
	s.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     helpHandler,
	})
	s.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the shell",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return s
}

func (s *Shell) Register(cmd *Command) {
	if _, exists := s.commands[cmd.Name]; !exists {
		s.order = append(s.order, cmd.Name)
	}
	s.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		s.commands[cmd.ShortName] = cmd
	}
}

// SetRemote enables the remote command
func (s *Shell) SetRemote(r Remote) {
	s.remote = r
}

// Load replaces the current board. A non-empty turn overrides the record.
func (s *Shell) Load(fen, turn string) error {
	b, side, err := board.LoadRecord(fen)
	if err != nil {
		return err
	}
	if turn != "" {
		if side, err = board.ParseColor(turn); err != nil {
			return err
		}
	}
	s.board = b
	s.turn = side
	return nil
}

// Done reports whether exit has been requested
func (s *Shell) Done() bool {
	return s.done
}

// Execute runs one input line. Errors are written to the output, not returned.
func (s *Shell) Execute(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}

	cmd, exists := s.commands[parts[0]]
	if !exists {
		s.printf("%s\n", s.paint(Red, "Unknown command: "+parts[0]))
		s.printf("Type 'help' for available commands\n")
		return
	}

	if err := cmd.Handler(s, parts[1:]); err != nil {
		s.printf("%s\n", s.paint(Red, "Error: "+err.Error()))
	}
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func loadHandler(s *Shell, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: load <placement> [w|b]")
	}
	if err := s.Load(strings.Join(args, " "), ""); err != nil {
		return err
	}
	s.printf("%s %s\n", s.paint(Green, "Loaded"), s.board.Placement())
	s.renderBoard(nil)
	return nil
}

func turnHandler(s *Shell, args []string) error {
	if len(args) > 0 {
		side, err := board.ParseColor(args[0])
		if err != nil {
			return err
		}
		s.turn = side
	}
	s.printf("Side to move: %s\n", colorName(s.turn))
	return nil
}

func boardHandler(s *Shell, _ []string) error {
	s.renderBoard(nil)
	return nil
}

func movesHandler(s *Shell, args []string) error {
	if len(args) == 0 {
		moves := s.gen.Generate(s.board, s.turn)
		for _, pm := range moves {
			s.printf("%s %s: %s\n",
				s.paintPiece(pm.Piece),
				board.MustCoordinateOf(pm.StartSquare),
				coordinates(pm.TargetSquares))
		}
		s.printf("%d pieces, %d moves\n", len(moves), movegen.CountTargets(moves))
		return nil
	}

	sq, err := board.IndexOf(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	p := s.board.At(sq)
	if !p.IsPiece() {
		return fmt.Errorf("no piece on %s", args[0])
	}

	// generate for the piece's own side so either color can be inspected
	for _, pm := range s.gen.Generate(s.board, p.Color()) {
		if pm.StartSquare != sq {
			continue
		}
		marks := make(map[int]bool, len(pm.TargetSquares))
		for _, to := range pm.TargetSquares {
			marks[to] = true
		}
		s.renderBoard(marks)
		s.printf("%s %s: %s\n", s.paintPiece(p), board.MustCoordinateOf(sq), coordinates(pm.TargetSquares))
		return nil
	}
	return fmt.Errorf("no moves generated for %s", args[0])
}

func jsonHandler(s *Shell, _ []string) error {
	data, err := json.MarshalIndent(s.gen.Generate(s.board, s.turn), "", "  ")
	if err != nil {
		return fmt.Errorf("formatting JSON: %w", err)
	}
	s.printf("%s\n", data)
	return nil
}

func remoteHandler(s *Shell, _ []string) error {
	if s.remote == nil {
		return fmt.Errorf("no server configured (start with -server)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	resp, err := s.remote.Analyze(ctx, s.board.Placement(), s.turn.String())
	if err != nil {
		return err
	}

	var local []string
	for _, m := range movegen.Flatten(s.gen.Generate(s.board, s.turn)) {
		local = append(local, m.String())
	}

	if slices.Equal(local, resp.Moves) {
		s.printf("%s: %d moves\n", s.paint(Green, "match"), len(local))
		return nil
	}

	s.printf("%s: server %d moves, local %d moves\n", s.paint(Red, "mismatch"), resp.Count, len(local))
	for _, m := range resp.Moves {
		if !slices.Contains(local, m) {
			s.printf("  server only: %s\n", m)
		}
	}
	for _, m := range local {
		if !slices.Contains(resp.Moves, m) {
			s.printf("  local only: %s\n", m)
		}
	}
	return nil
}

func indexHandler(s *Shell, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: index <square>")
	}
	idx, err := board.IndexOf(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	s.printf("%s = %d\n", strings.ToLower(args[0]), idx)
	return nil
}

func coordHandler(s *Shell, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: coord <index>")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be a number: %q", args[0])
	}
	coord, err := board.CoordinateOf(idx)
	if err != nil {
		return err
	}
	s.printf("%d = %s\n", idx, coord)
	return nil
}

func helpHandler(s *Shell, args []string) error {
	if len(args) > 0 {
		cmd, exists := s.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.printf("\n%s - %s\n", s.paint(Cyan, cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			s.printf("Short form: %s\n", s.paint(Cyan, cmd.ShortName))
		}
		s.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	s.printf("\n%s\n\n", s.paint(Cyan, "Available Commands:"))
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	for _, name := range names {
		cmd := s.commands[name]
		s.printf("  %-7s %-3s %s\n", cmd.Name, cmd.ShortName, cmd.Description)
	}
	s.printf("\n")
	return nil
}

func exitHandler(s *Shell, _ []string) error {
	s.done = true
	return nil
}

// renderBoard draws the board with rank 8 on top; marked squares show '*'
// when empty and are highlighted when occupied
func (s *Shell) renderBoard(marks map[int]bool) {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(fmt.Sprintf("%d ", rank+1))
		for file := 0; file < 8; file++ {
			idx := board.Index(file, rank)
			p := s.board.At(idx)
			switch {
			case marks[idx] && p == board.Empty:
				sb.WriteString(s.paint(Yellow, "*"))
			case marks[idx]:
				sb.WriteString(s.paint(Magenta, p.String()))
			case p.IsPiece():
				sb.WriteString(s.paintPiece(p))
			default:
				sb.WriteString(p.String())
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", rank+1))
	}
	sb.WriteString("  a b c d e f g h\n")

	s.printf("%s", sb.String())
}

func (s *Shell) paintPiece(p board.Piece) string {
	if p.Color() == board.White {
		return s.paint(White, p.String())
	}
	return s.paint(Red, p.String())
}

func coordinates(squares []int) string {
	if len(squares) == 0 {
		return "-"
	}
	labels := make([]string, len(squares))
	for i, sq := range squares {
		labels[i] = board.MustCoordinateOf(sq)
	}
	return strings.Join(labels, " ")
}

func colorName(c board.Color) string {
	if c == board.Black {
		return "black"
	}
	return "white"
}
