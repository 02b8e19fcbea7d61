//go:build unix

package tui

import (
	"os"

	"golang.org/x/sys/unix"
)

// EmergencyReset restores cooked mode on the controlling terminal
// Best-effort for crash recovery; errors ignored
func EmergencyReset() {
	// /dev/tty works even if stdin is redirected
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return
	}
	termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Iflag |= unix.ICRNL
	_ = unix.IoctlSetTermios(fd, unix.TCSETS, termios)

	// Show cursor, leave alternate screen, reset attributes
	tty.WriteString("\x1b[?25h\x1b[?1049l\x1b[0m")
}
