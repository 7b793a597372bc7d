package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/Eursukkul/venue-booking/internal/models"
)

// Notifier tells the administrator about a new booking request. Delivery is
// best-effort: callers log failures and never roll back the booking.
type Notifier interface {
	NotifySubmitted(ctx context.Context, n Notification) error
}

type Notification struct {
	Summary      models.GroupSummary `json:"summary"`
	ApproveToken string              `json:"approve_token"`
	RejectToken  string              `json:"reject_token"`
}

type Message struct {
	To      string
	Subject string
	HTML    string
}

// DecisionLink is the anonymous approve/reject URL for a token.
func DecisionLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/email/booking/" + token
}

var bodyTemplate = template.Must(template.New("booking").Parse(`<div style="font-family:Arial,sans-serif">
  <h2>New Booking Pending Approval</h2>
  <p><strong>ID:</strong> {{.Summary.PrimaryID}}</p>
  <p><strong>Event:</strong> {{.Summary.EventName}}</p>
  <p><strong>Faculty:</strong> {{.Summary.FacultyName}}</p>
  <p><strong>Venue:</strong> {{.Summary.Venue}}</p>
  <p><strong>Date:</strong> {{.Summary.Date}}</p>
  <p><strong>{{if gt (len .Summary.Slots) 1}}Slots{{else}}Slot{{end}}:</strong> {{.SlotsText}}</p>
  <p><strong>People:</strong> {{.Summary.NumPeople}}</p>
  {{- with .Summary.CanteenDetails}}
  <p><strong>Canteen Requirements:</strong> {{.}}</p>
  {{- end}}
  <div style="margin:14px 0;padding:12px;border:1px dashed #bbb;border-radius:8px;background:#fafafa;">
    <p style="margin:0 0 6px 0;"><strong>How to decide:</strong></p>
    <ol style="margin:0 0 6px 18px;">
      <li>Reply to this email with the single word <strong>APPROVE</strong> to approve.</li>
      <li>Reply to this email with the single word <strong>REJECT</strong> to reject.</li>
    </ol>
  </div>
  <p>Approve: <a href="{{.ApproveLink}}">{{.ApproveLink}}</a></p>
  <p>Reject: <a href="{{.RejectLink}}">{{.RejectLink}}</a></p>
  <p style="color:#999;font-size:11px">Links expire; each one can be used until the booking is decided.</p>
</div>
`))

// Compose renders the admin message for a notification.
func Compose(n Notification, to, baseURL string) (Message, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		Notification
		SlotsText   string
		ApproveLink string
		RejectLink  string
	}{
		Notification: n,
		SlotsText:    strings.Join(n.Summary.Slots, ", "),
		ApproveLink:  DecisionLink(baseURL, n.ApproveToken),
		RejectLink:   DecisionLink(baseURL, n.RejectToken),
	})
	if err != nil {
		return Message{}, fmt.Errorf("render booking email: %w", err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Booking #%d Pending Approval", n.Summary.PrimaryID),
		HTML:    buf.String(),
	}, nil
}
