package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/goroutine"
	"helpdesk/internal/shared/logger"
)

var _ ticket.Notifier = (*TicketNotifier)(nil)

// TicketNotifier mails the ticket owner. Messages go out on a background
// goroutine; failures are logged only.
type TicketNotifier struct {
	smtp    *SMTPEmailService
	baseURL string
	logger  logger.Interface
	async   func(fn func())
}

func NewTicketNotifier(smtp *SMTPEmailService, baseURL string, log logger.Interface) *TicketNotifier {
	return &TicketNotifier{
		smtp:    smtp,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
		async:   func(fn func()) { goroutine.SafeGo(log, "ticket-notification", fn) },
	}
}

func (n *TicketNotifier) TicketAssigned(_ context.Context, t *ticket.Ticket) error {
	p := t.Participants()
	agent := p.AssignedAgentName
	if agent == "" {
		agent = "a support agent"
	}

	subject := fmt.Sprintf("[Ticket #%d] Assigned to %s", t.ID(), agent)
	lines := []string{
		fmt.Sprintf("Your ticket \"%s\" has been assigned to %s.", t.Title(), agent),
		fmt.Sprintf("Current status: %s.", StatusLabel(t.Status())),
	}
	n.send(t, subject, lines)
	return nil
}

func (n *TicketNotifier) TicketStatusChanged(_ context.Context, t *ticket.Ticket, from vo.TicketStatus) error {
	subject := fmt.Sprintf("[Ticket #%d] Status changed to %s", t.ID(), StatusLabel(t.Status()))
	lines := []string{
		fmt.Sprintf("The status of your ticket \"%s\" changed from %s to %s.",
			t.Title(), StatusLabel(from), StatusLabel(t.Status())),
	}
	n.send(t, subject, lines)
	return nil
}

func (n *TicketNotifier) send(t *ticket.Ticket, subject string, lines []string) {
	p := t.Participants()
	if p.OwnerEmail == "" {
		n.logger.Warnw("ticket owner has no email, notification skipped", "ticket_id", t.ID())
		return
	}

	link := fmt.Sprintf("%s/api/tickets/%d", n.baseURL, t.ID())
	greeting := "Hello"
	if p.OwnerName != "" {
		greeting += " " + p.OwnerName
	}

	plain := greeting + ",\n\n" + strings.Join(lines, "\n") + "\n\n" + link + "\n"

	var body strings.Builder
	body.WriteString("<html><body><p>" + html.EscapeString(greeting) + ",</p>")
	for _, l := range lines {
		body.WriteString("<p>" + html.EscapeString(l) + "</p>")
	}
	body.WriteString(`<p><a href="` + html.EscapeString(link) + `">View ticket</a></p></body></html>`)

	to := p.OwnerEmail
	n.async(func() {
		if err := n.smtp.sendEmail(to, subject, body.String(), plain); err != nil {
			n.logger.Errorw("failed to send ticket notification", "ticket_id", t.ID(), "error", err)
			return
		}
		n.logger.Debugw("ticket notification sent", "ticket_id", t.ID())
	})
}

var titleCaser = cases.Title(language.English)

// StatusLabel turns "in_progress" into "In Progress".
func StatusLabel(s vo.TicketStatus) string {
	return titleCaser.String(strings.ReplaceAll(s.String(), "_", " "))
}

// NopNotifier is used when SMTP is not configured.
type NopNotifier struct{}

func (NopNotifier) TicketAssigned(context.Context, *ticket.Ticket) error { return nil }
func (NopNotifier) TicketStatusChanged(context.Context, *ticket.Ticket, vo.TicketStatus) error {
	return nil
}
