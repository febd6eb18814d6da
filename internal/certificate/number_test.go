package certificate

import (
	"strings"
	"testing"
)

func TestGenerateNumberRoundTrip(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		number, err := GenerateNumber(2026)
		if err != nil {
			t.Fatalf("GenerateNumber: %v", err)
		}
		if !VerifyNumber(number) {
			t.Fatalf("generated number fails verification: %s", number)
		}
		if seen[number] {
			t.Fatalf("duplicate number generated: %s", number)
		}
		seen[number] = true

		if !strings.HasPrefix(number, "LH-2026-") {
			t.Fatalf("unexpected format: %s", number)
		}
	}
}

func TestVerifyNumberRejectsTampering(t *testing.T) {
	number, err := GenerateNumber(2026)
	if err != nil {
		t.Fatalf("GenerateNumber: %v", err)
	}

	// Flip one body character to a different alphabet character.
	parts := strings.Split(number, "-")
	body := []byte(parts[2])
	orig := body[0]
	for _, c := range []byte(numberAlphabet) {
		if c != orig {
			body[0] = c
			break
		}
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(body), parts[3]}, "-")
	if VerifyNumber(tampered) {
		t.Errorf("tampered number passed verification: %s", tampered)
	}
}

func TestVerifyNumberRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"LH",
		"LH-2026",
		"XX-2026-ABCDEFGH-A",
		"LH-26-ABCDEFGH-A",
		"LH-2026-ABC-A",
		"LH-2026-ABCDEFG0-A", // 0 not in alphabet
		"LH-2026-ABCDEFGH-AA",
		"lh-2026-abcdefgh-a",
	}
	for _, number := range bad {
		if VerifyNumber(number) {
			t.Errorf("malformed number passed verification: %q", number)
		}
	}
}
