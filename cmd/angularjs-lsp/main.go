// Command angularjs-lsp runs the AngularJS language server over stdio.
package main

import (
	"log"
	"os"

	"github.com/angularjs-lsp/angularjs-lsp/internal/lsp"
)

// version is set during build by goreleaser, matching the teacher's own
// ldflags-injected version variable.
var version = "dev"

func main() {
	log.SetFlags(0)

	projectRoot, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	log.Printf("angularjs-lsp version: %s", version)
	log.Printf("project root: %s", projectRoot)

	server, err := lsp.NewServer(projectRoot)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	defer server.Close()

	if err := server.Start(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("LSP server error: %v", err)
	}
}
