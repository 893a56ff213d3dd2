package disposition

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"golang.org/x/term"
)

// Prompt is one yes/no question about a detected file
type Prompt struct {
	Action  models.Action
	Path    string
	Message string
}

// Confirmer answers disposition prompts
type Confirmer interface {
	Confirm(p Prompt) bool
}

// AutoConfirmer answers yes only to the prompt for its configured action.
// It never touches the terminal.
type AutoConfirmer struct {
	Action models.Action
}

func (a AutoConfirmer) Confirm(p Prompt) bool {
	return p.Action == a.Action
}

// TerminalConfirmer asks the user on a terminal and reads y/n answers
type TerminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalConfirmer creates a confirmer reading answers from in
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// NewStdinConfirmer creates a terminal confirmer on stdin/stdout. It fails
// when stdin is not a terminal so unattended runs never block on a prompt.
func NewStdinConfirmer() (*TerminalConfirmer, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("interactive mode requires a terminal on stdin; use --auto")
	}
	return NewTerminalConfirmer(os.Stdin, os.Stdout), nil
}

// Confirm repeats the question until it gets y or n. End of input counts as
// no.
func (t *TerminalConfirmer) Confirm(p Prompt) bool {
	for {
		fmt.Fprintf(t.out, "%s [y/n]: ", p.Message)

		line, err := t.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		if err != nil {
			fmt.Fprintln(t.out)
			return false
		}
		fmt.Fprintln(t.out, "Invalid input, must be Y or N")
	}
}
