package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/velorie/ticketarchive/internal/shared/config"
)

func TestSecretVerifier_Plain(t *testing.T) {
	v := NewSecretVerifier(config.AuthConfig{APISecret: "s3cr3t"})
	require.True(t, v.Configured())

	tests := []struct {
		name      string
		presented string
		want      bool
	}{
		{"exact secret", "s3cr3t", true},
		{"bearer scheme", "Bearer s3cr3t", true},
		{"lowercase bearer scheme", "bearer s3cr3t", true},
		{"surrounding whitespace", "  s3cr3t ", true},
		{"empty", "", false},
		{"bearer without secret", "Bearer ", false},
		{"prefix of secret", "s3cr", false},
		{"secret with suffix", "s3cr3tX", false},
		{"different case", "S3CR3T", false},
		{"other scheme", "Basic s3cr3t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Verify(tt.presented))
		})
	}
}

func TestSecretVerifier_Hash(t *testing.T) {
	hash, err := NewBcryptSecretHasher(bcrypt.MinCost).Hash("s3cr3t")
	require.NoError(t, err)

	v := NewSecretVerifier(config.AuthConfig{APISecret: "ignored", APISecretHash: hash})
	assert.True(t, v.Verify("s3cr3t"))
	assert.True(t, v.Verify("Bearer s3cr3t"))
	assert.False(t, v.Verify("ignored"))
	assert.False(t, v.Verify(""))
}

func TestSecretVerifier_Unconfigured(t *testing.T) {
	v := NewSecretVerifier(config.AuthConfig{})
	assert.False(t, v.Configured())
	assert.False(t, v.Verify(""))
	assert.False(t, v.Verify("anything"))
}

func TestBcryptSecretHasher(t *testing.T) {
	h := NewBcryptSecretHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	_, err := NewBcryptSecretHasher(bcrypt.MinCost).Hash("")
	assert.Error(t, err)
}
