package main

import (
	"os"

	"github.com/arthur-debert/chezui/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
