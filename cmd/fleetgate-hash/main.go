// fleetgate-hash generates Argon2id password hashes for provisioning
// static backend users.
//
// The hash is printed in PHC string format, ready to paste into the
// auth.static.users section of config.yaml:
//
//	$ fleetgate-hash
//	Password:
//	Confirm:
//	$argon2id$v=19$m=65536,t=3,p=1$...
//
// When stdin is not a terminal the password is read from it instead,
// so hashes can be produced non-interactively:
//
//	$ echo -n 'secret' | fleetgate-hash
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tarmason/fleetgate/internal/eauth"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	hash, err := eauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	fmt.Println(hash)
	return nil
}

// readPassword reads the password to hash. On a terminal it prompts
// twice with echo disabled; otherwise it consumes stdin and strips the
// trailing newline so piped input round-trips exactly.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", fmt.Errorf("password must not be empty")
		}
		return password, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading confirmation: %w", err)
	}

	if string(first) == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(first), nil
}
