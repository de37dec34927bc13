package certificates

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// CodeAlphabet has 32 symbols with I, O, 0 and 1 removed so codes survive
// being read aloud or retyped from paper.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultCodeLength   = 12
	maxCodeAttempts     = 10
	certificateDateForm = "20060102"
)

var ErrCodeSpaceExhausted = errors.New("could not generate a unique verification code")

// CodeExists reports whether a verification code is already taken.
type CodeExists func(ctx context.Context, code string) (bool, error)

// PrefixCounter counts certificates whose number starts with prefix + "-".
type PrefixCounter func(ctx context.Context, prefix string) (int64, error)

// RandomCode draws length symbols from CodeAlphabet. 256 is a multiple of 32,
// so reducing each byte modulo the alphabet size is unbiased.
func RandomCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = CodeAlphabet[int(b)%len(CodeAlphabet)]
	}
	return string(buf), nil
}

// GenerateVerificationCode returns a random code, re-drawing while exists
// reports a collision. A nil exists skips the uniqueness check. Uniqueness
// holds at the time of the check only; the unique index is the real guard.
func GenerateVerificationCode(ctx context.Context, length int, exists CodeExists) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := RandomCode(length)
		if err != nil {
			return "", err
		}
		if exists == nil {
			return code, nil
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check verification code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// IsValidCode reports whether s could have come from RandomCode(length).
func IsValidCode(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(CodeAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// CourseCode turns a course title into the uppercase, dash-separated code used
// in certificate numbers: "Ethics 101" -> "ETHICS-101".
func CourseCode(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToUpper(strings.TrimSpace(title)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
		if b.Len() >= 32 {
			break
		}
	}
	code := strings.Trim(b.String(), "-")
	if code == "" {
		return "COURSE"
	}
	return code
}

// CertificatePrefix is COURSECODE-YYYYMMDD for the UTC date of at.
func CertificatePrefix(courseCode string, at time.Time) string {
	return courseCode + "-" + at.UTC().Format(certificateDateForm)
}

// GenerateCertificateNumber appends the next zero-padded sequence to the
// course/date prefix. The count is read without locking, so concurrent
// issuance can produce the same number; callers retry on a unique violation.
func GenerateCertificateNumber(ctx context.Context, courseCode string, at time.Time, count PrefixCounter) (string, error) {
	courseCode = strings.TrimSpace(courseCode)
	if courseCode == "" {
		return "", fmt.Errorf("course code required")
	}
	prefix := CertificatePrefix(courseCode, at)
	var existing int64
	if count != nil {
		n, err := count(ctx, prefix)
		if err != nil {
			return "", fmt.Errorf("count certificates for %s: %w", prefix, err)
		}
		existing = n
	}
	return fmt.Sprintf("%s-%03d", prefix, existing+1), nil
}
