package main

import (
	"os"

	"github.com/kanaforge/kanaforge/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
