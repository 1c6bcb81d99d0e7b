// cmd/hashpw/main.go prints the bcrypt hash to put in ADMIN_PASSWORD_HASH
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/toyshop-storefront/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./cmd/hashpw <password>")
	}

	passwords := auth.NewPasswordManager()
	password := os.Args[1]

	if err := passwords.ValidatePassword(password); err != nil {
		log.Fatalf("Password rejected: %v", err)
	}

	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}
