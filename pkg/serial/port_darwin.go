//go:build darwin

package serial

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Platform ioctl constants for macOS.
const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
	ioctlTCFlush    = unix.TIOCFLUSH
)

// setSpeed applies the baud rate to a termios struct.
func setSpeed(termios *unix.Termios, speed uint32) {
	termios.Ispeed = uint64(speed)
	termios.Ospeed = uint64(speed)
}

// baudToSpeed maps a baud rate to its termios speed constant. macOS
// only supports the standard rates here.
func baudToSpeed(baud int) (uint32, error) {
	switch baud {
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	}
	return 0, fmt.Errorf("serial: unsupported baud rate %d", baud)
}
