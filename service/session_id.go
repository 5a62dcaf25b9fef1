package service

import (
	"crypto/rand"
	"encoding/hex"

	"mygreyhound/domain"
)

const sessionIDBytes = 32

// NewSessionID returns 32 random bytes hex encoded.
//
// Returns: domain.SessionID, or an error when the random source fails.
//
// Called from the controller for every create call; tests replace it.
func NewSessionID() (domain.SessionID, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", NewInternalServerError("Can't generate session id", err)
	}
	return domain.SessionID(hex.EncodeToString(b)), nil
}
