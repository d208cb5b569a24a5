package cli

import "mailbox/internal/board"

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[97m"
)

// paint wraps text in color when the shell writes to a terminal
func (s *Shell) paint(color, text string) string {
	if !s.colors {
		return text
	}
	return color + text + Reset
}

// Prompt returns the prompt for the current side to move
func (s *Shell) Prompt() string {
	side := "white"
	color := Blue
	if s.turn == board.Black {
		side = "black"
		color = Red
	}
	if !s.colors {
		return "mailbox [" + side + "] > "
	}
	return Yellow + "mailbox " + Reset + "[" + color + side + Reset + "]" + Yellow + " > " + Reset
}
