package secret

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"hash"}, args...))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestHash(t *testing.T) {
	tests := []struct {
		name   string
		stdin  string
		args   []string
		secret string
	}{
		{name: "from flag", args: []string{"--secret", "bot-secret", "--cost", "4"}, secret: "bot-secret"},
		{name: "from stdin", stdin: "bot-secret\n", args: []string{"--cost", "4"}, secret: "bot-secret"},
		{name: "stdin without newline", stdin: "s3cr3t", args: []string{"--cost", "4"}, secret: "s3cr3t"},
		{name: "crlf line ending", stdin: "s3cr3t\r\nignored\n", args: []string{"--cost", "4"}, secret: "s3cr3t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := runCommand(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(tt.secret)))
		})
	}
}

func TestHash_EmptySecret(t *testing.T) {
	_, err := runCommand(t, "\n", "--cost", "4")
	assert.Error(t, err)
}
