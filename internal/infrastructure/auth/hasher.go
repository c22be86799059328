package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptSecretHasher produces values for auth.api_secret_hash.
type BcryptSecretHasher struct {
	cost int
}

func NewBcryptSecretHasher(cost int) *BcryptSecretHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptSecretHasher{cost: cost}
}

func (h *BcryptSecretHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret hash: %w", err)
	}
	return string(hash), nil
}
