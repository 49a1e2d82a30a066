package auth

import (
	"errors"
	"fmt"
	"strings"
)

// MinSecretLength is the minimum JWT_SECRET length (256 bits).
const MinSecretLength = 32

// weakSecretWords are rejected as the whole secret or as its only
// repeated content.
var weakSecretWords = []string{
	"secret",
	"password",
	"changeme",
	"admin",
	"default",
	"test",
	"studyhub",
	"jwtsecret",
}

var keyboardPatterns = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

// ValidateJWTSecret checks the HS256 signing secret at startup. The error
// never contains the secret itself.
func ValidateJWTSecret(secret string) error {
	if secret == "" {
		return errors.New("jwt secret validation failed: JWT_SECRET must be set")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("jwt secret validation failed: JWT_SECRET must be at least %d characters (current length: %d)", MinSecretLength, len(secret))
	}
	if isRepeatedChar(secret) {
		return errors.New("jwt secret validation failed: JWT_SECRET must not be a single repeated character")
	}

	lower := strings.ToLower(secret)
	for _, weak := range weakSecretWords {
		if isRepetitionOf(lower, weak) {
			return errors.New("jwt secret validation failed: JWT_SECRET must not be a common weak value")
		}
	}
	for _, pattern := range keyboardPatterns {
		if strings.Contains(lower, pattern) || strings.Contains(lower, reverse(pattern)) {
			return errors.New("jwt secret validation failed: JWT_SECRET must not contain a keyboard pattern")
		}
	}
	return nil
}

// isRepetitionOf reports whether s is word repeated, optionally followed by
// digits, e.g. "secretsecret...123".
func isRepetitionOf(s, word string) bool {
	trimmed := strings.TrimRight(s, "0123456789")
	if trimmed == "" || len(trimmed)%len(word) != 0 {
		return false
	}
	return strings.Repeat(word, len(trimmed)/len(word)) == trimmed
}

func isRepeatedChar(s string) bool {
	if s == "" {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
