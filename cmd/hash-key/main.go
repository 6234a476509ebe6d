package main

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// hash-key generates the bcrypt hash for the operator API key. Put the
// output in ADMIN_KEY_HASH; operators then authenticate with the plain key
// in the X-Admin-Key header.
func main() {
	fmt.Println("=== Operator Key Hash ===")

	fmt.Print("Enter key: ")
	key, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read key: %v\n", err)
		os.Exit(1)
	}

	fmt.Print("Confirm key: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read confirmation: %v\n", err)
		os.Exit(1)
	}

	if len(key) == 0 {
		fmt.Fprintln(os.Stderr, "Key must not be empty")
		os.Exit(1)
	}
	if string(key) != string(confirm) {
		fmt.Fprintln(os.Stderr, "Keys do not match")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(key, bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add to your environment:")
	fmt.Printf("ADMIN_KEY_HASH=%s\n", string(hash))
}
