package main

import (
	"os"

	"github.com/xela07ax/complitic/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
