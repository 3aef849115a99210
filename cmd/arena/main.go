package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	arenacmd "creaturelab/internal/cmd/arena"
)

func main() {
	log.SetPrefix("[ARENA] ")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading it:", err)
	}

	cfg, err := arenacmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := arenacmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("battle failed: %v", err)
	}
}
