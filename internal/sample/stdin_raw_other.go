//go:build !linux

package sample

// SetBinaryStdin is a no-op on platforms without the termios ioctls
// used by the Linux implementation; stdin is read as raw bytes by
// default there, so nothing needs adjusting.
func SetBinaryStdin() error { return nil }
