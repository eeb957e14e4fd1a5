package main

import (
	"fmt"
	"os"

	"github.com/yasserrrr2025/rasd2/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
