// blogadmin создает администратора напрямую в базе данных.
// Обычная регистрация через /auth/signup никогда не выдает права
// админа, поэтому первый администратор заводится этой утилитой.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/iudanet/blogapi/internal/crypto"
	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/storage/sqlite"
	"github.com/iudanet/blogapi/internal/validation"
)

func main() {
	dbPath := flag.String("db", "blogapi.db", "Path to the SQLite database")
	username := flag.String("username", "", "Admin username")
	firstName := flag.String("first-name", "", "Admin first name")
	lastName := flag.String("last-name", "", "Admin last name")
	flag.Parse()

	if err := run(*dbPath, *username, *firstName, *lastName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, username, firstName, lastName string) error {
	ctx := context.Background()

	if username == "" {
		var err error
		username, err = readInput("Username: ")
		if err != nil {
			return err
		}
	}

	if len(username) < validation.MinUsernameLen || !validation.UsernamePattern.MatchString(username) {
		return fmt.Errorf("username should at least have %d characters and only contain alphabet, number, and underscore characters",
			validation.MinUsernameLen)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if err := validation.CheckPasswordComposition(password); err != nil {
		return err
	}

	repeat, err := readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if repeat != password {
		return fmt.Errorf("passwords do not match")
	}

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	fmt.Printf("Admin user %q created (id %s)\n", user.Username, user.ID)
	return nil
}

func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	pwBytes, err := term.ReadPassword(fd)
	fmt.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}
