package notifier

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotification() Notification {
	canteen := "Tea for 30"
	return Notification{
		Summary: models.GroupSummary{
			PrimaryID:      12,
			EventName:      "Seminar <AI>",
			FacultyName:    "faculty",
			Venue:          "Lab 1",
			Date:           "2024-05-01",
			NumPeople:      30,
			Status:         models.StatusPending,
			CanteenDetails: &canteen,
			Slots:          []string{"10-11", "11-12"},
		},
		ApproveToken: "approve-tok",
		RejectToken:  "reject-tok",
	}
}

type recordingSender struct {
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type recordingPublisher struct {
	routingKey string
	messageID  string
	payload    any
	err        error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey, messageID string, payload any) error {
	p.routingKey = routingKey
	p.messageID = messageID
	p.payload = payload
	return p.err
}

func TestDecisionLink(t *testing.T) {
	assert.Equal(t, "http://host:5000/email/booking/abc", DecisionLink("http://host:5000/", "abc"))
	assert.Equal(t, "http://host/email/booking/abc", DecisionLink("http://host", "abc"))
}

func TestCompose(t *testing.T) {
	msg, err := Compose(sampleNotification(), "admin@example.com", "http://venues.test")
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", msg.To)
	assert.Equal(t, "Booking #12 Pending Approval", msg.Subject)
	assert.Contains(t, msg.HTML, "Slots:</strong> 10-11, 11-12")
	assert.Contains(t, msg.HTML, "http://venues.test/email/booking/approve-tok")
	assert.Contains(t, msg.HTML, "http://venues.test/email/booking/reject-tok")
	assert.Contains(t, msg.HTML, "Tea for 30")
	assert.Contains(t, msg.HTML, "Seminar &lt;AI&gt;")
	assert.NotContains(t, msg.HTML, "<AI>")
}

func TestCompose_SingleSlotNoCanteen(t *testing.T) {
	n := sampleNotification()
	n.Summary.Slots = []string{"9-10"}
	n.Summary.CanteenDetails = nil

	msg, err := Compose(n, "admin@example.com", "http://venues.test")
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "Slot:</strong> 9-10")
	assert.NotContains(t, msg.HTML, "Canteen")
}

func TestMailer_NotifySubmitted(t *testing.T) {
	sender := &recordingSender{}
	m := NewMailer(sender, "admin@example.com", "http://venues.test", nil)

	require.NoError(t, m.NotifySubmitted(context.Background(), sampleNotification()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Booking #12 Pending Approval", sender.sent[0].Subject)
}

func TestMailer_SendError(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	m := NewMailer(sender, "admin@example.com", "http://venues.test", nil)

	err := m.NotifySubmitted(context.Background(), sampleNotification())
	assert.ErrorContains(t, err, "connection refused")
}

func TestQueueNotifier(t *testing.T) {
	pub := &recordingPublisher{}
	q := NewQueueNotifier(pub)

	n := sampleNotification()
	require.NoError(t, q.NotifySubmitted(context.Background(), n))
	assert.Equal(t, RoutingKeySubmitted, pub.routingKey)
	assert.NotEmpty(t, pub.messageID)
	assert.Equal(t, n, pub.payload)

	pub.err = errors.New("channel closed")
	assert.Error(t, q.NotifySubmitted(context.Background(), n))
}

func TestNewMessage(t *testing.T) {
	msg := Message{To: "admin@example.com", Subject: "Booking #1 Pending Approval", HTML: "<p>hi</p>"}
	m, err := newMessage("bot@example.com", msg, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "From: <bot@example.com>\r\n")
	assert.Contains(t, raw, "To: <admin@example.com>\r\n")
	assert.Contains(t, raw, "Subject: Booking #1 Pending Approval\r\n")
	assert.Contains(t, raw, "Date: Wed, 01 May 2024 09:00:00 +0000\r\n")
	assert.Contains(t, raw, "@venue-booking>")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "<p>hi</p>")
}

func TestNewMessage_InvalidAddress(t *testing.T) {
	_, err := newMessage("bot@example.com", Message{To: "not an address"}, time.Now())
	assert.ErrorContains(t, err, "smtp to")

	_, err = newMessage("", Message{To: "admin@example.com"}, time.Now())
	assert.ErrorContains(t, err, "smtp from")
}

func TestSMTPSender_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, Username: "bot@example.com", Password: "x"})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = sender.Send(ctx, Message{To: "admin@example.com", Subject: "s", HTML: "<p>hi</p>"})
	assert.ErrorContains(t, err, "smtp send")
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(nil).Send(context.Background(), Message{To: "a@b", Subject: "s"}))
}
