package certificates

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestRandomCodeAlphabetAndLength(t *testing.T) {
	for _, n := range []int{1, 8, 12, 40} {
		for i := 0; i < 200; i++ {
			code, err := RandomCode(n)
			if err != nil {
				t.Fatalf("RandomCode(%d): %v", n, err)
			}
			if !IsValidCode(code, n) {
				t.Fatalf("RandomCode(%d) = %q: bad length or symbol", n, code)
			}
			if strings.ContainsAny(code, "IO01") {
				t.Fatalf("ambiguous symbol in %q", code)
			}
		}
	}
	if _, err := RandomCode(0); err == nil {
		t.Fatalf("expected error for zero length")
	}
}

func TestGenerateVerificationCodeRetriesCollisions(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls < 3, nil
	}
	code, err := GenerateVerificationCode(context.Background(), DefaultCodeLength, exists)
	if err != nil {
		t.Fatalf("GenerateVerificationCode: %v", err)
	}
	if calls != 3 {
		t.Fatalf("exists calls: want=3 got=%d", calls)
	}
	if len(code) != DefaultCodeLength {
		t.Fatalf("len: want=%d got=%d", DefaultCodeLength, len(code))
	}
}

func TestGenerateVerificationCodeGivesUp(t *testing.T) {
	always := func(ctx context.Context, code string) (bool, error) { return true, nil }
	_, err := GenerateVerificationCode(context.Background(), 12, always)
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("want ErrCodeSpaceExhausted, got %v", err)
	}

	boom := errors.New("db down")
	failing := func(ctx context.Context, code string) (bool, error) { return false, boom }
	if _, err := GenerateVerificationCode(context.Background(), 12, failing); !errors.Is(err, boom) {
		t.Fatalf("want wrapped store error, got %v", err)
	}
}

func TestCourseCode(t *testing.T) {
	cases := map[string]string{
		"Ethics 101":                    "ETHICS-101",
		"  Pain  Management: Opioids  ": "PAIN-MANAGEMENT-OPIOIDS",
		"HIPAA/Privacy (2024)":          "HIPAA-PRIVACY-2024",
		"!!!":                           "COURSE",
		"":                              "COURSE",
		"Évaluation clinique":           "VALUATION-CLINIQUE",
	}
	for in, want := range cases {
		if got := CourseCode(in); got != want {
			t.Fatalf("CourseCode(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestGenerateCertificateNumber(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	var gotPrefix string
	count := func(ctx context.Context, prefix string) (int64, error) {
		gotPrefix = prefix
		return 11, nil
	}
	num, err := GenerateCertificateNumber(context.Background(), "ETHICS-101", at, count)
	if err != nil {
		t.Fatalf("GenerateCertificateNumber: %v", err)
	}
	if gotPrefix != "ETHICS-101-20240309" {
		t.Fatalf("prefix: got=%q", gotPrefix)
	}
	if num != "ETHICS-101-20240309-012" {
		t.Fatalf("number: got=%q", num)
	}

	first, err := GenerateCertificateNumber(context.Background(), "ETHICS-101", at, nil)
	if err != nil {
		t.Fatalf("GenerateCertificateNumber nil counter: %v", err)
	}
	if !regexp.MustCompile(`^ETHICS-101-\d{8}-001$`).MatchString(first) {
		t.Fatalf("first number: got=%q", first)
	}

	if _, err := GenerateCertificateNumber(context.Background(), " ", at, nil); err == nil {
		t.Fatalf("expected error for empty course code")
	}
}

func TestCertificatePrefixUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	at := time.Date(2024, 3, 9, 20, 0, 0, 0, loc) // 2024-03-10 04:00 UTC
	if got := CertificatePrefix("X", at); got != "X-20240310" {
		t.Fatalf("prefix: got=%q", got)
	}
}
