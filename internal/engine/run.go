package engine

import tea "github.com/charmbracelet/bubbletea"

// Run executes cmd and everything it leads to on the calling goroutine,
// feeding each message back through Update. It is the event loop used by
// the one-shot CLI commands, where no bubbletea program is running.
func (c *Controller) Run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, c.Update(msg))
		}
	}
}
