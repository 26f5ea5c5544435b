package graphic

import (
	"os"
	"strings"
)

// normalizeTerminal works around TERMINFO values termbox can not handle
// under tmux. The returned function puts the environment back.
func normalizeTerminal() (func(), error) {
	prev, had := os.LookupEnv("TERMINFO")

	if !had || !strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		return func() {}, nil
	}

	if err := os.Unsetenv("TERMINFO"); err != nil {
		return nil, err
	}

	return func() { os.Setenv("TERMINFO", prev) }, nil
}
