package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"crew-exam/internal/config"
	"crew-exam/internal/domain"
	"crew-exam/internal/service"
)

// Prints a signed access token for operators and smoke tests.
func main() {
	userID := flag.String("user", "", "user id placed in the token")
	role := flag.String("role", string(domain.RoleSeafarer), "admin or seafarer")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	authService, err := service.NewAuthService(cfg.JWT)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create AuthService: %v\n", err)
		os.Exit(1)
	}

	token, err := authService.CreateJWT(context.Background(), *userID, domain.Role(*role))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
