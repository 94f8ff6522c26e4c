package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bookmemo/internal/cli"
	"bookmemo/internal/config"
)

func main() {
	cfg := config.MustLoad()

	root := cli.NewRootCommand(cfg)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
