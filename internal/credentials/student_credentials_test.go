package credentials

import (
	"strings"
	"testing"
)

func TestGenerateUsername(t *testing.T) {
	adjectiveSet := make(map[string]bool, len(adjectives))
	for _, a := range adjectives {
		adjectiveSet[a] = true
	}
	nounSet := make(map[string]bool, len(nouns))
	for _, n := range nouns {
		nounSet[n] = true
	}

	for i := 0; i < 50; i++ {
		username, err := GenerateUsername()
		if err != nil {
			t.Fatalf("GenerateUsername() error = %v", err)
		}

		parts := strings.Split(username, "-")
		if len(parts) != 2 {
			t.Fatalf("GenerateUsername() = %q, want adjective-noun", username)
		}
		if !adjectiveSet[parts[0]] {
			t.Errorf("GenerateUsername() adjective %q not in word list", parts[0])
		}
		if !nounSet[parts[1]] {
			t.Errorf("GenerateUsername() noun %q not in word list", parts[1])
		}
	}
}

func TestGeneratePasscode(t *testing.T) {
	const chars = "abcdefghjkmnpqrstuvwxyz23456789"

	for i := 0; i < 50; i++ {
		passcode, err := GeneratePasscode()
		if err != nil {
			t.Fatalf("GeneratePasscode() error = %v", err)
		}

		if len(passcode) != 6 {
			t.Fatalf("GeneratePasscode() = %q, want 6 characters", passcode)
		}
		for _, c := range passcode {
			if !strings.ContainsRune(chars, c) {
				t.Errorf("GeneratePasscode() = %q, contains ambiguous character %q", passcode, c)
			}
		}
	}
}
