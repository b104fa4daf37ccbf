package main

import (
	"fmt"
	"os"

	"library-management/backend/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DefaultBootstrap).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
