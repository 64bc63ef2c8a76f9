package main

import (
	"os"

	"github.com/elastic/docs-builder-sub007/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
