package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// referralAlphabet leaves out 0/O and 1/I so codes survive being read
// aloud or retyped.
const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode returns a random code of the given length drawn from
// the referral alphabet.
func GenerateReferralCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = referralAlphabet[int(b[i])%len(referralAlphabet)]
	}
	return string(b), nil
}

// GenerateSecureCode returns a URL-safe random token.
func GenerateSecureCode() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
