package main

import (
	_ "embed"
	"fmt"
	"io"
)

//go:embed assets/header.txt
var asciiHeader string

// printHeader displays the ASCII header with version info
func printHeader(w io.Writer, version string) {
	fmt.Fprintln(w, asciiHeader)
	fmt.Fprintf(w, "Version: %s\n\n", version)
}
