package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sc
		cancel()
		fmt.Fprintln(os.Stderr, "shutting down, press ^C again to force exit")
		<-sc
		os.Exit(1)
	}()

	rootCmd := newRootCommand(ctx)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "image-segment: %v\n", err)
		os.Exit(1) // nolint:gocritic
	}
}
