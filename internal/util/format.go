package util

import (
	"fmt"
	"net"
	"strconv"
)

// FindAvailablePort first port in [startPort, startPort+attempts) that accepts a
// listener; startPort when none does
func FindAvailablePort(startPort, attempts int) int {
	for port := startPort; port < startPort+attempts; port++ {
		ln, err := net.Listen("tcp", ":"+strconv.Itoa(port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port
	}
	return startPort
}

// FormatPercent percentage already on a 0-100 scale, one decimal
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
