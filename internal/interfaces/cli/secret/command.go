// Package secret provides helpers for managing the bot's shared secret.
package secret

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/velorie/ticketarchive/internal/infrastructure/auth"
)

var (
	cost  int
	value string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the ingest shared secret",
	}

	cmd.AddCommand(newHashCommand())
	return cmd
}

func newHashCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash for auth.api_secret_hash",
		Long: `Hash a shared secret so the server can verify the bot without keeping the plain value in its config.
The secret is read from --secret, or from standard input when the flag is omitted.`,
		Args: cobra.NoArgs,
		RunE: runHash,
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	cmd.Flags().StringVar(&value, "secret", "", "Secret to hash (prefer stdin to keep it out of shell history)")
	return cmd
}

func runHash(cmd *cobra.Command, _ []string) error {
	secret := value
	if secret == "" {
		var err error
		secret, err = readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	hash, err := auth.NewBcryptSecretHasher(cost).Hash(secret)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

// readSecret prompts without echo on a terminal and otherwise takes the
// first line of in.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Secret: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
