package main

import (
	"fmt"
	"io"
)

// consoleSink prints user-facing lines as plain text. Warnings go to errOut.
type consoleSink struct {
	out    io.Writer
	errOut io.Writer
}

func newConsoleSink(out, errOut io.Writer) *consoleSink {
	return &consoleSink{out: out, errOut: errOut}
}

func (s *consoleSink) Info(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *consoleSink) Advice(msg string) {
	fmt.Fprintln(s.out, "> "+msg)
}

func (s *consoleSink) Warning(msg string) {
	fmt.Fprintln(s.errOut, "Warning: "+msg)
}
