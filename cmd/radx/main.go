package main

import (
	"fmt"
	"os"

	"github.com/codeninja55/go-radx/cmd/radx/internal/cli"
)

// version, commit, and date are overridden at build time via
// -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cli.Run(version, commit, date); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
