package main

import (
	"context"
	"os"

	"taskboard/internal/cli"
)

var Version = "dev"

func main() {
	if err := cli.Execute(context.Background(), Version); err != nil {
		os.Exit(1)
	}
}
