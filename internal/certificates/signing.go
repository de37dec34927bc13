package certificates

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptySecret = errors.New("signing secret is empty")

// IssuancePayload is the snapshot signed at issuance and stored beside the
// certificate so the hash can be recomputed later.
type IssuancePayload struct {
	CertificateNumber string     `json:"certificate_number"`
	VerificationCode  string     `json:"verification_code"`
	UserID            uuid.UUID  `json:"user_id"`
	CourseID          uuid.UUID  `json:"course_id"`
	EnrollmentID      uuid.UUID  `json:"enrollment_id"`
	StudentName       string     `json:"student_name"`
	LicenseNumber     string     `json:"license_number,omitempty"`
	CourseTitle       string     `json:"course_title"`
	CEHours           float64    `json:"ce_hours"`
	IssuedAt          time.Time  `json:"issued_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// CanonicalJSON re-encodes v with object keys sorted at every level and no
// insignificant whitespace. Numbers keep their original text.
func CanonicalJSON(v any) ([]byte, error) {
	var raw []byte
	switch t := v.(type) {
	case []byte:
		raw = t
	case json.RawMessage:
		raw = t
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		raw = b
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("encode canonical payload: %w", err)
	}
	return out, nil
}

// Sign returns the hex HMAC-SHA256 of the canonical form of payload. Raw JSON
// bytes are accepted as-is so stored snapshots can be re-signed.
func (s *Signer) Sign(payload any) (string, error) {
	canon, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write(canon)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (s *Signer) Verify(payload any, hash string) (bool, error) {
	want, err := s.Sign(payload)
	if err != nil {
		return false, err
	}
	got, err := hex.DecodeString(strings.TrimSpace(hash))
	if err != nil {
		return false, nil
	}
	wantRaw, _ := hex.DecodeString(want)
	return hmac.Equal(wantRaw, got), nil
}

// HashCode is the one-way form of a verification code stored with attempts.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(sum[:])
}
