package utils

import "github.com/google/uuid"

// GenerateInviteToken returns a unique token for an organization invite.
func GenerateInviteToken() string {
	return uuid.NewString()
}
