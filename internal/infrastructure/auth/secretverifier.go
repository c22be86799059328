package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/velorie/ticketarchive/internal/shared/config"
)

const bearerPrefix = "bearer "

// SecretVerifier checks the shared secret presented by the bot on ingest.
// The credential may be sent bare or as "Bearer <secret>". With nothing
// configured every credential is rejected.
type SecretVerifier struct {
	plain []byte
	hash  []byte
}

func NewSecretVerifier(cfg config.AuthConfig) *SecretVerifier {
	v := &SecretVerifier{}
	if cfg.APISecretHash != "" {
		v.hash = []byte(cfg.APISecretHash)
	} else if cfg.APISecret != "" {
		sum := sha256.Sum256([]byte(cfg.APISecret))
		v.plain = sum[:]
	}
	return v
}

// Configured reports whether any secret is set.
func (v *SecretVerifier) Configured() bool {
	return len(v.plain) > 0 || len(v.hash) > 0
}

func (v *SecretVerifier) Verify(presented string) bool {
	secret := stripBearer(presented)
	if secret == "" {
		return false
	}

	switch {
	case len(v.hash) > 0:
		return bcrypt.CompareHashAndPassword(v.hash, []byte(secret)) == nil
	case len(v.plain) > 0:
		// Comparing digests keeps the comparison independent of length.
		sum := sha256.Sum256([]byte(secret))
		return subtle.ConstantTimeCompare(sum[:], v.plain) == 1
	default:
		return false
	}
}

func stripBearer(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > len(bearerPrefix) && strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(value[len(bearerPrefix):])
	}
	return value
}
