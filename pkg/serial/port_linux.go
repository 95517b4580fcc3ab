//go:build linux

package serial

import (
	"golang.org/x/sys/unix"
)

// Platform ioctl constants for Linux.
const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
	ioctlTCFlush    = unix.TCFLSH
)

// setSpeed applies the baud rate to a termios struct. Linux accepts
// arbitrary rates via BOTHER with the raw rate in the speed fields, so
// nonstandard controller rates like 250000 work.
func setSpeed(termios *unix.Termios, speed uint32) {
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= unix.BOTHER
	termios.Ispeed = speed
	termios.Ospeed = speed
}

// baudToSpeed validates the baud rate. With BOTHER the rate is passed
// through as-is.
func baudToSpeed(baud int) (uint32, error) {
	return uint32(baud), nil
}
