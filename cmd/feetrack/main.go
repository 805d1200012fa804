package main

import (
	"os"

	"github.com/campusops/feetrack/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
