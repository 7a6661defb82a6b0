package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/ledgermesh-go/internal/cli/command"
)

func main() {
	if err := command.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
