// Package otptoken issues and verifies short-lived email verification codes
// carried in a self-contained signed token. The server keeps no session
// state: everything needed to verify travels with the token, authenticated by
// an HMAC over the payload.
package otptoken

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName carries the signed session token between issuance and
	// verification.
	CookieName = "fv_otp"

	// DefaultTTL bounds how long an issued code stays verifiable.
	DefaultTTL = 10 * time.Minute

	nonceSize = 16
)

// Payload is the signed content of an OTP session token. Field order matters:
// it fixes the serialized byte layout, which the signature covers.
type Payload struct {
	Email  string `json:"email"`
	CaseID string `json:"caseId"`
	Hash   string `json:"hash"`
	Exp    int64  `json:"exp"` // epoch seconds
	Nonce  string `json:"nonce"`
}

// Manager signs and verifies OTP session tokens with a shared secret.
type Manager struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects a time source, letting tests cross expiry boundaries
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager. The secret must already have passed the
// production presence check in config; an empty secret here is a programming
// error.
func NewManager(secret string, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("otp token secret must not be empty")
	}
	m := &Manager{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// GenerateCode produces a string of length decimal digits from a
// cryptographically strong source. Leading zeros are preserved.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	maxValue := big.NewInt(1)
	for i := 0; i < length; i++ {
		maxValue.Mul(maxValue, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, maxValue)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	return fmt.Sprintf(fmt.Sprintf("%%0%dd", length), n), nil
}

// HashCode produces a salted one-way hash of the plaintext code. bcrypt keeps
// a leaked token payload from trivially revealing the code.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(hash), nil
}

// VerifyHash reports whether code matches a hash produced by HashCode.
func VerifyHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

// CreateToken hashes the code and wraps it with the email/case binding, an
// absolute expiry, and a random nonce into a signed token string.
func (m *Manager) CreateToken(email, caseID, code string, ttl time.Duration) (string, error) {
	hash, err := HashCode(code)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	payload := Payload{
		Email:  email,
		CaseID: caseID,
		Hash:   hash,
		Exp:    m.now().Unix() + int64(ttl.Seconds()),
		Nonce:  base64.RawURLEncoding.EncodeToString(nonce),
	}

	return m.sign(payload)
}

// sign serializes the payload and appends its MAC:
// base64url(JSON(payload)) + "." + base64url(HMAC-SHA256(secret, body)).
func (m *Manager) sign(payload Payload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize payload: %w", err)
	}

	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + m.mac(body), nil
}

// VerifyToken checks the token's signature and expiry and returns its payload,
// or nil for anything invalid. Every failure path converges on nil so callers
// cannot leak which check rejected the token.
func (m *Manager) VerifyToken(token string) *Payload {
	sep := strings.LastIndex(token, ".")
	if sep <= 0 || sep == len(token)-1 {
		return nil
	}
	body, sig := token[:sep], token[sep+1:]

	expected := m.mac(body)
	if len(sig) != len(expected) || !hmac.Equal([]byte(sig), []byte(expected)) {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	if payload.Exp <= 0 || m.now().Unix() > payload.Exp {
		return nil
	}

	return &payload
}

func (m *Manager) mac(body string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
