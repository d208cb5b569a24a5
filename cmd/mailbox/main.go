// Package main implements an interactive shell for inspecting mailbox boards
// and their pseudo-legal moves.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"mailbox/internal/board"
	"mailbox/internal/cli"
	"mailbox/internal/client"
	"mailbox/internal/movegen"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		fen        = flag.String("fen", board.StartingFEN, "Initial position (placement field or full FEN record)")
		turn       = flag.String("turn", "", "Side to move, overrides the FEN (w|b)")
		history    = flag.String("history", ".mailbox_history", "Readline history file (empty disables)")
		noColor    = flag.Bool("no-color", false, "Disable ANSI colors")
		permissive = flag.Bool("permissive-diagonals", false, "Let pawns move diagonally onto empty squares")
		server     = flag.String("server", "", "Mailbox server URL for the remote command, e.g. http://localhost:8080")
	)
	flag.Parse()

	colors := !*noColor && term.IsTerminal(int(os.Stdout.Fd()))

	var opts []movegen.Option
	if *permissive {
		opts = append(opts, movegen.WithPermissiveDiagonals())
	}

	shell := cli.New(os.Stdout, colors, movegen.New(opts...))
	if err := shell.Load(*fen, *turn); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid starting position: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		shell.SetRemote(client.New(*server))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shell.Prompt(),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("Mailbox Shell")
	fmt.Printf("Type 'help' for commands\n\n")
	shell.Execute("board")

	for !shell.Done() {
		rl.SetPrompt(shell.Prompt())

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			// ^C clears the line
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		shell.Execute(line)
	}
}
