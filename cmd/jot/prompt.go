package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/jot/internal/config"
)

// stdinReader is shared by every prompt of one command so buffered input is
// not lost between questions.
var stdinReader *bufio.Reader

func reader(cmd *cobra.Command) *bufio.Reader {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(cmd.InOrStdin())
	}
	return stdinReader
}

// promptLine asks a question and reads one line.
func promptLine(cmd *cobra.Command, question string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), question)
	line, err := reader(cmd).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads a password without echo when stdin is a terminal.
func promptSecret(cmd *cobra.Command, question string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), question)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}
	return promptLine(cmd, question)
}

// username returns the first argument or asks for it.
func username(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return promptLine(cmd, "Username: ")
}

// password returns flagValue, then JOT_PASSWORD, then asks.
func password(cmd *cobra.Command, flagValue, question string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(config.EnvPassword); v != "" {
		return v, nil
	}
	return promptSecret(cmd, question)
}

// confirm asks a yes/no question. Anything but y/yes is a no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := promptLine(cmd, question+" [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
