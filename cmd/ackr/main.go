package main

import (
	"os"

	"github.com/jamesob/ackr/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
