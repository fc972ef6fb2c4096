package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"meetings_app_go/config"
	"meetings_app_go/db"
	"meetings_app_go/models"
	"meetings_app_go/services"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New User ===")
	fmt.Println()

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email (optional): ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println() // New line after password input

	user, err := services.RegisterUser(db.DB, username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			log.Fatal("Username and password are required")
		case errors.Is(err, services.ErrUsernameTaken):
			log.Fatalf("User %s already exists", username)
		}
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	fmt.Println("User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Printf("  Email: %s\n", user.Email)
	}
	fmt.Println()
	fmt.Printf("Log in with: meetingctl login --api %s --username %s\n", cfg.AppURL, user.Username)
}
