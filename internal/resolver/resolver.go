// Package resolver produces the answer letter for the daily quiz,
// either by prompting a human or by asking a configured AI backend.
package resolver

import (
	"context"
	"strings"
)

// Question carries today's quiz toward whichever answer source is
// configured. Options are passed through verbatim: the platform may
// offer 2, 3 or 4 of them.
type Question struct {
	Hid     string
	Text    string
	Options []string
}

// Prompt renders the question the way it is shown to a human or an AI
// model: the question text followed by the options, one per line.
func (q Question) Prompt() string {
	var b strings.Builder
	b.WriteString(q.Text)
	for _, option := range q.Options {
		b.WriteString("\n")
		b.WriteString(option)
	}
	return b.String()
}

// Resolver obtains the single-letter answer for a quiz question.
// A failed or abandoned resolution fails only the question task of the
// current run; it never aborts the account's other tasks.
type Resolver interface {
	Resolve(ctx context.Context, question Question) (string, error)
}
