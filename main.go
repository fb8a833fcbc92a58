package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/room4-2/InsureConverse/config"
	"github.com/room4-2/InsureConverse/dialogue"
	"github.com/room4-2/InsureConverse/rag"
	"github.com/room4-2/InsureConverse/server"
	"github.com/room4-2/InsureConverse/session"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build the document index
	index := rag.NewIndex()
	if err := index.BuildFromFolder(cfg.DocsPath); err != nil {
		log.Fatalf("Failed to build document index from %s: %v", cfg.DocsPath, err)
	}
	log.Printf("📚 Document index ready: %d chunks from %s", index.ChunkCount(), cfg.DocsPath)

	dialogueManager := dialogue.NewManager(index)

	// Create session manager
	sessionManager, err := session.NewManager(cfg, dialogueManager)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	// Start cleanup routine
	ctx, cancel := context.WithCancel(context.Background())
	go sessionManager.StartCleanupRoutine(ctx)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	switch cfg.ServerType {
	case "websocket":
		srv := server.NewServerWebsocket(cfg, sessionManager)

		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server shutdown error: %v", err)
			}
		}()

		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("Server error: %v", err)
		}

	case "console":
		// Single local session on stdin/stdout, no WebSocket layer
		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			cancel()
			sessionManager.Shutdown()
			os.Exit(0)
		}()

		server.RunConsole(dialogueManager, os.Stdin, os.Stdout)
		cancel()

	default:
		log.Fatalf("Unknown SERVER_TYPE: %s", cfg.ServerType)
	}

	log.Println("Server stopped")
}
