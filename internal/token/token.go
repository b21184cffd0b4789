// Package token carries workflow state between request/response cycles.
//
// The service holds no session storage: the items and participants
// produced by the upload stage travel to the browser inside a signed
// token embedded in the assignment form, and come back with the final
// submission. The token is a compact HS256 JWS, so it is tamper-evident
// and its base64url serialization is safe to embed in an HTML attribute
// without further escaping.
package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/coenradina/splitbill/internal/models"
)

// ErrMalformedState marks tokens that fail signature verification or do
// not parse to the expected shape. The orchestrator treats this as a
// client error and sends the user back to the upload page.
var ErrMalformedState = errors.New("malformed workflow state token")

// keyInfo namespaces the derived signing key so the same secret can be
// reused for other purposes later without key reuse.
var keyInfo = []byte("splitbill workflow state v1")

// Codec signs and verifies workflow state tokens. Construct once at
// startup and share freely; it is immutable and safe for concurrent use.
type Codec struct {
	key []byte
}

// NewCodec derives a 32-byte HMAC signing key from the given secret via
// HKDF-SHA256.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token: signing secret must not be empty")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, keyInfo), key); err != nil {
		return nil, fmt.Errorf("deriving signing key: %w", err)
	}
	return &Codec{key: key}, nil
}

type stateClaims struct {
	Items        []models.LineItem `json:"items"`
	Participants []string          `json:"names"`
	jwt.RegisteredClaims
}

// Encode serializes the bill state into a signed token. The encoding is
// lossless and order-preserving for any legal items and participants,
// including names containing HTML-special characters.
func (c *Codec) Encode(items []models.LineItem, participants []string) (string, error) {
	claims := stateClaims{
		Items:        items,
		Participants: participants,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("signing state token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and returns the carried items and
// participants. Any verification or shape failure wraps
// ErrMalformedState; the token contents are untrusted browser input.
func (c *Codec) Decode(raw string) ([]models.LineItem, []string, error) {
	var claims stateClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	for _, it := range claims.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, nil, fmt.Errorf("%w: item %q has invalid quantity or price", ErrMalformedState, it.Name)
		}
	}
	return claims.Items, claims.Participants, nil
}
