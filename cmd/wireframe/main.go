package main

import (
	"os"

	"github.com/bryanwahyu/wireframe-extract/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
