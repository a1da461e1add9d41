package clitest

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Output is the captured result of one completed run.
// It is only produced by Setup.Run and Executor.RunBuffered and is never partially populated.
//
// An Output is a read-only record: the fields are exported for inspection, and
// callers must not modify them or the Stdout and Stderr slices. It shares nothing
// with the Setup that produced it.
type Output struct {
	Command  *Command
	Status   ExitStatus
	Duration time.Duration

	Stdout []byte
	Stderr []byte
}

// Success returns the Output itself if the child exited cleanly, so it can be chained:
//
//	out, err := setup.Run("--version")
//	...
//	_, err = out.Success()
//
// Otherwise the Output is returned alongside a *CommandFailedError carrying the
// status and stderr.
func (o *Output) Success() (*Output, error) {
	if o.Status.Success() {
		return o, nil
	}

	return o, &CommandFailedError{
		Command: o.Command,
		Status:  o.Status,
		Stderr:  o.Stderr,
	}
}

// StdoutString decodes Stdout as UTF-8, replacing invalid bytes with U+FFFD.
func (o *Output) StdoutString() string {
	return lossyString(o.Stdout)
}

// StderrString decodes Stderr as UTF-8, replacing invalid bytes with U+FFFD.
func (o *Output) StderrString() string {
	return lossyString(o.Stderr)
}

// lossyString decodes b as UTF-8, writing one utf8.RuneError for each maximal
// invalid subpart: a truncated sequence such as "\xe2\x82" becomes a single
// U+FFFD, while unrelated bad bytes each get their own.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b))

	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)

			size = invalidPrefixLen(b)
		} else {
			sb.Write(b[:size])
		}

		b = b[size:]
	}

	return sb.String()
}

// invalidPrefixLen returns how many bytes of the invalid sequence at the start
// of b still form a prefix of some valid encoding. The lead byte fixes the range
// allowed for the first continuation byte; later ones are 0x80-0xBF.
func invalidPrefixLen(b []byte) int {
	lo, hi, need := byte(0x80), byte(0xBF), 0

	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		lo, need = 0xA0, 2
	case c == 0xED:
		hi, need = 0x9F, 2
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		lo, need = 0x90, 3
	case c == 0xF4:
		hi, need = 0x8F, 3
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}

	n := 1
	for n <= need && n < len(b) && b[n] >= lo && b[n] <= hi {
		lo, hi = 0x80, 0xBF
		n++
	}

	return n
}
