package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer asks yes/no questions on an interactive terminal.
type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stderr,
		IsInteractive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ConfirmCost shows the cost summary and asks whether to proceed.
// It returns true without asking when skip is set or stdin is not a terminal,
// since the estimate is advisory and scripted runs must not block.
func (c Confirmer) ConfirmCost(summary string, skip bool) (bool, error) {
	if skip || c.IsInteractive == nil || !c.IsInteractive() {
		return true, nil
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s\nProceed with translation? (y/N): ", strings.TrimRight(summary, "\n"))
	}
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
