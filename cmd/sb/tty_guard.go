package main

import (
	"os"
	"strings"
)

// init runs before Bubble Tea or lipgloss touch the terminal.
//
// Lipgloss background detection can write OSC/DSR queries to stdout. In a
// real terminal they are invisible, but they end up in the output of
// `sb list` when it is piped or captured. Non-interactive invocations set
// CI=1 early so termenv skips the probing.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args[1:], os.Getenv("SB_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

// shouldSuppressTTYQueries reports whether the command line runs a
// non-interactive subcommand.
func shouldSuppressTTYQueries(args []string, envTest bool) bool {
	if envTest {
		return true
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			switch arg {
			case "--version", "-v", "--help", "-h":
				return true
			}
			continue
		}
		switch arg {
		case "list", "sources", "version", "help", "completion":
			return true
		}
		// The first positional argument names the subcommand.
		return false
	}
	return false
}
