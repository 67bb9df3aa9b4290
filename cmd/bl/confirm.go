package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotInteractive = errors.New("confirmation required but stdin is not a terminal (pass --yes)")

// isTerminal reports whether f is attached to a terminal. Tests replace it.
var isTerminal = func(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// confirm asks the user to type "yes" before a destructive action. With
// skip set it returns true immediately. When stdin is a file that is not a
// terminal (a pipe or redirect) there is nobody to ask, so it refuses.
func confirm(cmd *cobra.Command, warning string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !isTerminal(f) {
		return false, errNotInteractive
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "WARNING: %s\n", warning)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes", nil
	}
	return false, nil
}
