// Package webhook verifies and decodes signed auth-provider webhook events.
//
// The provider signs each delivery with HMAC-SHA256 over
// "{message id}.{timestamp}.{payload}" using a shared secret, and sends the
// base64 signature in a "v1,<sig>" list header alongside the message ID and
// timestamp headers. Payloads must never be trusted before verification.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Header names used by the provider's delivery system.
const (
	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"
)

// Tolerance is the maximum allowed clock skew between the delivery timestamp
// and the receiving server.
const Tolerance = 5 * time.Minute

var (
	ErrMissingHeaders   = errors.New("webhook: missing signature headers")
	ErrInvalidTimestamp = errors.New("webhook: invalid timestamp")
	ErrExpired          = errors.New("webhook: timestamp outside tolerance")
	ErrNoMatch          = errors.New("webhook: no matching signature")
)

// Verifier checks webhook signatures against a shared secret.
type Verifier struct {
	key []byte
	now func() time.Time
}

// NewVerifier builds a Verifier from the provider's endpoint secret. Secrets
// are distributed as "whsec_<base64 key>"; the bare base64 form is accepted
// too.
func NewVerifier(secret string) (*Verifier, error) {
	raw := strings.TrimPrefix(secret, "whsec_")
	if raw == "" {
		return nil, errors.New("webhook: empty secret")
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("webhook: invalid secret encoding: %w", err)
	}
	return &Verifier{key: key, now: time.Now}, nil
}

// Verify checks the signature headers against the raw payload. It returns nil
// only when the timestamp is within tolerance and at least one of the listed
// v1 signatures matches.
func (v *Verifier) Verify(payload []byte, msgID, timestamp, signatures string) error {
	if msgID == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	sent := time.Unix(ts, 0)
	now := v.now()
	if sent.Before(now.Add(-Tolerance)) || sent.After(now.Add(Tolerance)) {
		return ErrExpired
	}

	expected := v.sign(msgID, timestamp, payload)

	// The header may carry several space-separated signatures (e.g. during
	// secret rotation); any match passes.
	for _, sig := range strings.Fields(signatures) {
		versioned := strings.SplitN(sig, ",", 2)
		if len(versioned) != 2 || versioned[0] != "v1" {
			continue
		}
		if hmac.Equal([]byte(versioned[1]), []byte(expected)) {
			return nil
		}
	}
	return ErrNoMatch
}

func (v *Verifier) sign(msgID, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
