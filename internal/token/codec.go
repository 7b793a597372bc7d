package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

const (
	DefaultTTL = time.Hour

	tagSize  = 32
	hkdfInfo = "venue-booking.decision.v1"
)

// ErrInvalidToken covers every verification failure. Callers must not tell
// the end user which check failed.
var ErrInvalidToken = errors.New("invalid or expired decision token")

var (
	errMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	errSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	errExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Payload is the signed content of a decision link.
type Payload struct {
	BookingID uint          `cbor:"1,keyasint"`
	Action    models.Action `cbor:"2,keyasint"`
	ExpiresAt int64         `cbor:"3,keyasint"`
}

// Codec issues and verifies decision tokens. There is no registry: a token
// stays redeemable until it expires.
type Codec struct {
	key     []byte
	encMode cbor.EncMode
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: secret key is required")
	}
	key := make([]byte, tagSize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("token: deriving key: %w", err)
	}
	encMode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("token: cbor encoder: %w", err)
	}
	return &Codec{key: key, encMode: encMode}, nil
}

func (c *Codec) Issue(bookingID uint, action models.Action, ttl time.Duration) (string, error) {
	return c.IssueAt(bookingID, action, ttl, time.Now())
}

// IssueAt is like Issue with an explicit issue time.
func (c *Codec) IssueAt(bookingID uint, action models.Action, ttl time.Duration, now time.Time) (string, error) {
	if !action.Valid() {
		return "", fmt.Errorf("token: unknown action %q", action)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	payload, err := c.encMode.Marshal(Payload{
		BookingID: bookingID,
		Action:    action,
		ExpiresAt: now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("token: encoding payload: %w", err)
	}
	tag, err := c.sign(payload)
	if err != nil {
		return "", err
	}
	raw := make([]byte, 0, len(payload)+tagSize)
	raw = append(raw, payload...)
	raw = append(raw, tag...)
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func (c *Codec) Verify(token string) (*Payload, error) {
	return c.VerifyAt(token, time.Now())
}

// VerifyAt checks the signature and then freshness against now. Both must pass.
func (c *Codec) VerifyAt(token string, now time.Time) (*Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) <= tagSize {
		return nil, errMalformed
	}
	payload := raw[:len(raw)-tagSize]
	tag := raw[len(raw)-tagSize:]

	expected, err := c.sign(payload)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(tag, expected) != 1 {
		return nil, errSignature
	}

	var p Payload
	if err := cbor.Unmarshal(payload, &p); err != nil {
		return nil, errMalformed
	}
	if !p.Action.Valid() {
		return nil, errMalformed
	}
	if now.Unix() > p.ExpiresAt {
		return nil, errExpired
	}
	return &p, nil
}

func (c *Codec) sign(payload []byte) ([]byte, error) {
	hasher, err := blake3.NewKeyed(c.key)
	if err != nil {
		return nil, fmt.Errorf("token: keyed hash: %w", err)
	}
	_, _ = hasher.Write(payload)
	return hasher.Sum(nil), nil
}
