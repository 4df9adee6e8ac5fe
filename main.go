package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/zeu5/rl-bandits/benchmarks"
)

// main entry point to all the experiments
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// rootCommand defines a command line argument parser (some arguments and a subcommand to run)
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
