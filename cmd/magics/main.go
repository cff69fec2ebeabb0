// Package main provides the magics CLI tool for finding, storing and
// emitting magic bitboard tables for sliding pieces.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
