package email

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/logger"
)

type captureSender struct {
	sent []*gomail.Message
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return nil
}

func newTestNotifier() (*TicketNotifier, *captureSender) {
	capture := &captureSender{}
	smtp := &SMTPEmailService{config: SMTPConfig{FromAddress: "support@example.com", FromName: "Helpdesk"}, dialer: capture}
	n := NewTicketNotifier(smtp, "http://localhost:8080/", logger.NewNopLogger())
	n.async = func(fn func()) { fn() }
	return n, capture
}

func testTicket(t *testing.T, status vo.TicketStatus, ownerEmail string) *ticket.Ticket {
	t.Helper()
	agent := uint(2)
	tk, err := ticket.ReconstructTicket(7, "Printer on fire", "It smokes", 3, 1, status, &agent,
		time.Now(), time.Now(), ticket.Participants{
			OwnerName:         "Customer One",
			OwnerEmail:        ownerEmail,
			AssignedAgentName: "John Agent",
		})
	require.NoError(t, err)
	return tk
}

func TestTicketNotifier_Assigned(t *testing.T) {
	n, capture := newTestNotifier()

	require.NoError(t, n.TicketAssigned(context.Background(), testTicket(t, vo.StatusInProgress, "customer1@gmail.com")))
	require.Len(t, capture.sent, 1)

	msg := capture.sent[0]
	assert.Equal(t, []string{"customer1@gmail.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"[Ticket #7] Assigned to John Agent"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "In Progress")
	assert.Contains(t, buf.String(), "http://localhost:8080/api/tickets/7")
}

func TestTicketNotifier_StatusChanged(t *testing.T) {
	n, capture := newTestNotifier()

	require.NoError(t, n.TicketStatusChanged(context.Background(), testTicket(t, vo.StatusResolved, "c@gmail.com"), vo.StatusInProgress))
	require.Len(t, capture.sent, 1)
	assert.Equal(t, []string{"[Ticket #7] Status changed to Resolved"}, capture.sent[0].GetHeader("Subject"))
}

func TestTicketNotifier_SkipsWithoutEmail(t *testing.T) {
	n, capture := newTestNotifier()

	require.NoError(t, n.TicketAssigned(context.Background(), testTicket(t, vo.StatusInProgress, "")))
	assert.Empty(t, capture.sent)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "In Progress", StatusLabel(vo.StatusInProgress))
	assert.Equal(t, "Open", StatusLabel(vo.StatusOpen))
}
