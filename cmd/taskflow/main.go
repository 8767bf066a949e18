package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sandeepkv93/taskflow/internal/cli"
)

// Version is set by -ldflags during build
var Version = "dev"

func main() {
	if err := cli.NewRootCmd(Version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow failed: %v\n", err)
		os.Exit(1)
	}
}
