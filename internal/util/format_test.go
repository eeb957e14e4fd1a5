package util

import (
	"net"
	"testing"
)

func TestFindAvailablePortSkipsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	if got := FindAvailablePort(busy, 1); got != busy {
		t.Fatalf("no free port in range should fall back to start, got %d", got)
	}
	if got := FindAvailablePort(busy, 20); got == busy {
		t.Fatalf("busy port %d returned", busy)
	}
}

func TestFormatPercent(t *testing.T) {
	for in, want := range map[float64]string{0: "0.0%", 66.666: "66.7%", 100: "100.0%"} {
		if got := FormatPercent(in); got != want {
			t.Fatalf("FormatPercent(%v)=%q, want %q", in, got, want)
		}
	}
}
