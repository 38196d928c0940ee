package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/grid"
)

// notifier prints controller feedback and remembers the last error so the
// command can fail with it.
type notifier struct {
	out    io.Writer
	failed string
}

func (n *notifier) Notify(kind grid.NoticeKind, message string) {
	switch kind {
	case grid.NoticeError:
		n.failed = message
		fmt.Fprintln(n.out, colorError.Sprint(message))
	case grid.NoticeWarning:
		fmt.Fprintln(n.out, colorWarning.Sprint(message))
	default:
		fmt.Fprintln(n.out, colorSuccess.Sprint(message))
	}
}

// Err returns the last reported error, if any.
func (n *notifier) Err() error {
	if n.failed == "" {
		return nil
	}
	return errors.New(n.failed)
}

// prompter asks questions on the command's input.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{r: bufio.NewReader(cmd.InOrStdin()), w: cmd.OutOrStdout()}
}

func (p *prompter) yesNo(question string) bool {
	fmt.Fprintf(p.w, "%s [y/N]: ", question)
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func (p *prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}
