//go:build linux

package sample

import (
	"os"

	"golang.org/x/sys/unix"
)

// SetBinaryStdin clears any line-discipline/termios flags that would
// otherwise mangle raw PCM bytes read from a terminal-attached stdin
// (the "operating-system specifics (binary-mode stdin)" concern
// spec.md §1 calls out as an external collaborator). It is a no-op,
// returning nil, when stdin is already a pipe or regular file, which
// is the common case for `sondedecode < capture.raw`.
func SetBinaryStdin() error {
	fd := int(os.Stdin.Fd())
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		// Not a tty (pipe/file/redirected input) -- already binary-safe.
		return nil
	}
	raw := *termios
	raw.Iflag &^= unix.ICRNL | unix.INLCR | unix.IXON
	raw.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	return unix.IoctlSetTermios(fd, unix.TCSETS, &raw)
}
