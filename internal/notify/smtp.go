// Package notify sends the status-change email notifications
// (`-statusEmailTo`/`-statusEmailFrom`). No library in the reference
// corpus wraps SMTP delivery, so this is built directly on net/smtp
// (DESIGN.md records the justification); everything around it —
// rendering, logging, the Notifier seam it implements — follows the
// same conventions as the rest of this module.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/status"
)

// SMTPNotifier implements scheduler.Notifier by emailing the current
// status summary. Addr is the SMTP server's host:port; when Auth is nil,
// delivery is attempted without authentication (e.g. a local relay).
type SMTPNotifier struct {
	Addr string
	Auth smtp.Auth
	From string
	To   []string
}

// NewSMTPNotifier builds a notifier that sends plaintext status emails
// from from to recipients over the relay at addr, unauthenticated.
func NewSMTPNotifier(addr, from string, recipients []string) *SMTPNotifier {
	return &SMTPNotifier{Addr: addr, From: from, To: recipients}
}

// NotifyFailure emails the list of edges that just failed.
func (n *SMTPNotifier) NotifyFailure(ctx context.Context, justFailed []*dag.FunctionEdge) error {
	if n == nil || len(n.To) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d function(s) failed:\n\n", len(justFailed))
	for _, fe := range justFailed {
		fmt.Fprintf(&b, "  %s", fe.ID())
		if err := fe.Err(); err != nil {
			fmt.Fprintf(&b, ": %v", err)
		}
		b.WriteString("\n")
	}
	return n.send(ctx, "qgraph: function failure", b.String())
}

// NotifyFinal emails the final per-analysis status summary.
func (n *SMTPNotifier) NotifyFinal(ctx context.Context, g *dag.Graph) error {
	if n == nil || len(n.To) == 0 {
		return nil
	}
	lines := status.RenderLines(status.Aggregate(g))
	return n.send(ctx, "qgraph: run complete", strings.Join(lines, "\n")+"\n")
}

func (n *SMTPNotifier) send(ctx context.Context, subject, body string) error {
	logger := ctxlog.FromContext(ctx)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.From, strings.Join(n.To, ", "), subject, body)

	if err := smtp.SendMail(n.Addr, n.Auth, n.From, n.To, []byte(msg)); err != nil {
		logger.Error("notify: failed to send status email", "subject", subject, "error", err)
		return fmt.Errorf("notify: send mail: %w", err)
	}
	logger.Debug("notify: sent status email", "subject", subject, "recipients", len(n.To))
	return nil
}
