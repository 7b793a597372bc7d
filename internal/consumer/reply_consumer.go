package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyReply is published by the inbound mail bridge for every admin
// reply it receives.
const RoutingKeyReply = "booking.reply"

var (
	bookingRef  = regexp.MustCompile(`(?i)Booking\s*#(\d+)`)
	approveWord = regexp.MustCompile(`(?i)\bapprove\b`)
	rejectWord  = regexp.MustCompile(`(?i)\breject\b`)
)

// Reply is an admin e-mail reply to a booking notification.
type Reply struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Decider interface {
	Decide(ctx context.Context, bookingID uint, action models.Action) (*service.DecisionResult, error)
}

// ReplyConsumer turns APPROVE/REJECT replies into booking decisions.
type ReplyConsumer struct {
	decider Decider
	logger  *slog.Logger
}

func NewReplyConsumer(decider Decider, logger *slog.Logger) *ReplyConsumer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &ReplyConsumer{decider: decider, logger: logger.With("component", "reply-consumer")}
}

func (rc *ReplyConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	return run(ctx, msgs, rc.handleMessage, rc.logger)
}

// ParseReply extracts the booking id from the subject and the first decision
// keyword from the body.
func ParseReply(r Reply) (uint, models.Action, bool) {
	m := bookingRef.FindStringSubmatch(r.Subject)
	if m == nil {
		return 0, "", false
	}
	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil || id == 0 {
		return 0, "", false
	}

	approve := firstMatch(approveWord, r.Body)
	reject := firstMatch(rejectWord, r.Body)
	switch {
	case approve < 0 && reject < 0:
		return 0, "", false
	case reject < 0 || (approve >= 0 && approve < reject):
		return uint(id), models.ActionApprove, true
	default:
		return uint(id), models.ActionReject, true
	}
}

func firstMatch(re *regexp.Regexp, s string) int {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func (rc *ReplyConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var reply Reply
	if err := json.Unmarshal(msg.Body, &reply); err != nil {
		rc.logger.Warn("dropping malformed reply", "message_id", msg.MessageId, "error", err)
		msg.Ack(false)
		return
	}

	id, action, ok := ParseReply(reply)
	if !ok {
		rc.logger.Warn("dropping reply without booking reference or decision", "subject", reply.Subject)
		msg.Ack(false)
		return
	}

	result, err := rc.decider.Decide(ctx, id, action)
	if err != nil {
		if errors.Is(err, service.ErrPersistence) {
			rc.logger.Error("failed to apply reply decision", "booking_id", id, "error", err)
			msg.Nack(false, true)
			return
		}
		rc.logger.Warn("reply decision rejected", "booking_id", id, "action", action, "error", err)
		msg.Ack(false)
		return
	}

	rc.logger.Info("reply decision applied",
		"booking_id", id,
		"action", action,
		"outcome", result.Outcome,
		"slots", result.UpdatedSlots,
	)
	msg.Ack(false)
}
