package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/application/startup"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/security"
)

func main() {
	// hash-password prints a bcrypt hash for EDITOR_PASSWORD_HASH
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(); err != nil {
			log.Fatalf("hash-password failed: %v", err)
		}
		return
	}

	if err := startup.Initialize(); err != nil {
		log.Fatalf("Application startup failed: %v", err)
	}

	log.Println("Application has shut down gracefully.")
}

func hashPassword() error {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return fmt.Errorf("empty password")
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
