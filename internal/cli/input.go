package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// prompt prints label and reads one trimmed line. EOF after partial input
// returns the partial line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.streams.Out, label+": ")
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// password reads without echo when stdin is a terminal, else a plain line.
func (a *App) password() (string, error) {
	if !a.interactive() {
		return a.prompt("Password")
	}
	fmt.Fprint(a.streams.Out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.streams.Out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func (a *App) confirm(question string) bool {
	answer, err := a.prompt(question + " [y/N]")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
