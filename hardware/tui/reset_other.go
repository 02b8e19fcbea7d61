//go:build !unix

package tui

// EmergencyReset is a no-op where termios is unavailable
func EmergencyReset() {}
