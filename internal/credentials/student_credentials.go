package credentials

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating friendly student usernames. Students
// sign in on shared classroom devices, so the credentials have to
// be short and typeable by a child.
var adjectives = []string{
	"happy", "sunny", "brave", "bright", "calm", "swift", "clever", "jolly",
	"mighty", "super", "star", "wild", "funny", "lucky", "magic", "bouncy",
	"cheerful", "daring", "eager", "gentle", "kind", "lively", "merry", "noble",
	"quick", "royal", "snappy", "zippy", "bold", "cosmic", "epic", "groovy",
}

var nouns = []string{
	"dragon", "tiger", "eagle", "dolphin", "panda", "lion", "wolf", "bear",
	"fox", "hawk", "otter", "phoenix", "unicorn", "rocket", "wizard", "knight",
	"robot", "astronaut", "hero", "champion", "explorer", "ranger", "comet",
	"thunder", "breeze", "river", "meadow", "pebble", "maple", "willow",
}

// GenerateUsername generates a random student username in the
// format "adjective-noun".
func GenerateUsername() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	return adjective + "-" + noun, nil
}

// GeneratePasscode generates a random 6-character passcode using
// unambiguous letters and digits (no 0/O, 1/l/I).
func GeneratePasscode() (string, error) {
	const chars = "abcdefghjkmnpqrstuvwxyz23456789"
	passcode := make([]byte, 6)

	for i := range passcode {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		passcode[i] = chars[num.Int64()]
	}

	return string(passcode), nil
}

// randomElement picks a random element from a string slice.
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
