// Command hashsecret prints a bcrypt hash suitable for the users.password_hash
// column. The secret is read from stdin so it stays out of shell history.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/authcore/internal/auth"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:          "hashsecret",
		Short:        "Hash a login secret read from stdin",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
			}
			secret, err := readSecret(in)
			if err != nil {
				return err
			}
			hash, err := auth.HashSecret(secret, cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(hash))
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost factor")
	cmd.SetIn(in)
	cmd.SetOut(out)
	return cmd
}

func readSecret(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return "", errors.New("empty secret on stdin")
	}
	return secret, nil
}
