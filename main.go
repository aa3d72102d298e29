package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"minivenmo/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if len(os.Args) > 1 && os.Args[1] == "shell" {
		if err := cmd.RunShell(ctx); err != nil {
			log.Fatal("Shell error: ", err)
		}
		return
	}

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}
