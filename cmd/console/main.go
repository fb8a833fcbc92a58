package main

import (
	"log"
	"os"

	"github.com/room4-2/InsureConverse/config"
	"github.com/room4-2/InsureConverse/dialogue"
	"github.com/room4-2/InsureConverse/rag"
	"github.com/room4-2/InsureConverse/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	index := rag.NewIndex()
	if err := index.BuildFromFolder(cfg.DocsPath); err != nil {
		log.Fatalf("Failed to build document index from %s: %v", cfg.DocsPath, err)
	}
	log.Printf("📚 Document index ready: %d chunks", index.ChunkCount())

	server.RunConsole(dialogue.NewManager(index), os.Stdin, os.Stdout)
}
