// Package credential implements the attendee credential codec: a signed,
// self-verifying token carrying an identity snapshot. Authenticity is
// contained in the token itself; decoding never touches a store.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential covers every decode failure: malformed payload,
// signature verification failure, or a missing required field. The codec
// never partially trusts a token.
var ErrInvalidCredential = errors.New("invalid credential")

// Snapshot is the identity embedded in a credential at issue time. It may
// lag behind the live registration record; resolving the current record is
// the caller's job, keyed by AttendeeID.
type Snapshot struct {
	AttendeeID string
	Email      string
	FullName   string
	EventID    string
	IssuedAt   time.Time
}

// Claims is the JWT payload for a credential.
type Claims struct {
	AttendeeID string `json:"attendee_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	EventID    string `json:"event_id"`
	jwt.RegisteredClaims
}

// legacyPayload is the unsigned JSON shape produced by the first generation
// of badge generators. It proves nothing about who produced it; decoding it
// is opt-in and intended only for migrating old badges.
type legacyPayload struct {
	AttendeeID string `json:"registrationId"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	EventID    string `json:"eventId"`
	IssuedAt   int64  `json:"issuedAt"`
}

// Codec issues and authenticates credentials with an HS256 shared secret.
type Codec struct {
	secret      []byte
	eventID     string
	ttl         time.Duration
	allowLegacy bool
}

// NewCodec builds a codec. ttl should be far beyond the event's duration;
// freshness is not part of the credential contract.
func NewCodec(secret, eventID string, ttl time.Duration, allowLegacy bool) *Codec {
	return &Codec{secret: []byte(secret), eventID: eventID, ttl: ttl, allowLegacy: allowLegacy}
}

// AllowsLegacy reports whether unsigned legacy payloads are accepted.
func (c *Codec) AllowsLegacy() bool {
	return c.allowLegacy
}

// Issue signs a credential embedding the snapshot. A zero IssuedAt is filled
// with the current time; an empty EventID defaults to the configured event.
func (c *Codec) Issue(snap Snapshot) (string, error) {
	if snap.AttendeeID == "" || snap.Email == "" || snap.FullName == "" {
		return "", fmt.Errorf("%w: snapshot missing required field", ErrInvalidCredential)
	}

	issuedAt := snap.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	issuedAt = issuedAt.Truncate(time.Second)

	eventID := snap.EventID
	if eventID == "" {
		eventID = c.eventID
	}

	claims := &Claims{
		AttendeeID: snap.AttendeeID,
		Email:      snap.Email,
		FullName:   snap.FullName,
		EventID:    eventID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   snap.AttendeeID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a scanned token and returns the embedded snapshot. Every
// failure maps to ErrInvalidCredential.
func (c *Codec) Decode(token string) (*Snapshot, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		if c.allowLegacy {
			if snap, legacyErr := decodeLegacy(token); legacyErr == nil {
				return snap, nil
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: unreadable claims", ErrInvalidCredential)
	}
	if claims.AttendeeID == "" || claims.Email == "" || claims.FullName == "" {
		return nil, fmt.Errorf("%w: missing required field", ErrInvalidCredential)
	}

	snap := &Snapshot{
		AttendeeID: claims.AttendeeID,
		Email:      claims.Email,
		FullName:   claims.FullName,
		EventID:    claims.EventID,
	}
	if claims.IssuedAt != nil {
		snap.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return snap, nil
}

// decodeLegacy accepts the historical unsigned JSON payload. It only checks
// that the required fields are present; there is no authenticity guarantee.
func decodeLegacy(token string) (*Snapshot, error) {
	trimmed := strings.TrimSpace(token)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, errors.New("not a json object")
	}

	var payload legacyPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, err
	}
	if payload.AttendeeID == "" || payload.Email == "" || payload.FullName == "" {
		return nil, errors.New("missing required field")
	}

	snap := &Snapshot{
		AttendeeID: payload.AttendeeID,
		Email:      payload.Email,
		FullName:   payload.FullName,
		EventID:    payload.EventID,
	}
	if payload.IssuedAt > 0 {
		snap.IssuedAt = time.UnixMilli(payload.IssuedAt).UTC()
	}
	return snap, nil
}
