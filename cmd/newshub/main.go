// Package main is the newshub terminal reader.
//
// Usage:
//
//	newshub [read] [--lang hi] [--category general] [--count 5] [--config newshub.yaml]
//	newshub headlines | languages | categories
//	newshub detect <text>
//	newshub translate [--from en] [--to hi] <text>
//	newshub summarize [--max 300] [--min 80] <text|->
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root, opts := newRootCommand()
	err := root.ExecuteContext(ctx)
	opts.close()
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
