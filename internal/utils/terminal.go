package utils

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// ttyPath returns the controlling terminal device. Password prompts and
// the passphrase --clear flow talk to it directly so they work even when
// stdin or stdout is a pipe.
func ttyPath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}

// IsTerminal reports whether stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTTYAvailable reports whether the controlling terminal can be opened
// for reading.
func IsTTYAvailable() bool {
	tty, err := os.Open(ttyPath())
	if err != nil {
		return false
	}
	defer tty.Close()

	return term.IsTerminal(int(tty.Fd()))
}

// ReadPassphrase prompts on stderr and reads a password from stdin
// without echoing it. Returns an error if stdin is not a terminal.
func ReadPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read password: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	// The terminal swallows the user's Enter while echo is off.
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return passphrase, nil
}

// ReadPassphraseFromTTY prompts and reads a password from the controlling
// terminal instead of stdin. Used when stdin already carries other input,
// such as a secret piped into reveal --stdout.
func ReadPassphraseFromTTY(prompt string) ([]byte, error) {
	path := ttyPath()
	tty, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for password input: %w", path, err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", path)
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return passphrase, nil
}

// WriteToTTY writes directly to the controlling terminal, bypassing
// stdout and stderr. Generated passphrases are shown this way so they
// never land in a shell pipeline or a capture of either stream.
func WriteToTTY(content string) error {
	path := ttyPath()
	tty, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("cannot open %s for writing: %w", path, err)
	}
	defer tty.Close()

	if _, err := tty.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to terminal: %w", err)
	}
	return nil
}

// ClearScreen wipes the visible terminal contents via ANSI escape
// sequences written straight to the TTY, so it works even when stdout
// is redirected.
func ClearScreen() error {
	return WriteToTTY("\033[2J\033[H")
}

// WaitForEnterFromTTY blocks until the user presses Enter on the
// controlling terminal.
func WaitForEnterFromTTY() error {
	path := ttyPath()
	tty, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s for reading: %w", path, err)
	}
	defer tty.Close()

	buf := make([]byte, 1)
	for {
		if _, err := tty.Read(buf); err != nil {
			return fmt.Errorf("failed to read from terminal: %w", err)
		}
		if buf[0] == '\n' || buf[0] == '\r' {
			return nil
		}
	}
}
