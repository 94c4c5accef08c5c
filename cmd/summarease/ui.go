package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	badColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
	dimColor  = color.New(color.Faint)
)

// busy runs fn while a spinner with message turns on stderr.
func busy(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	s.Start()
	err := fn()
	s.Stop()
	return err
}

func success(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func failure(w io.Writer, format string, args ...any) {
	badColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

func heading(w io.Writer, text string) {
	headColor.Fprintln(w, text)
}
