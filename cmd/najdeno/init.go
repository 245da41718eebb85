package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and bootstrap the admin account",
	RunE:  runInit,
}

func init() {
	f := initCmd.Flags()
	f.String("admin-name", "Admin", "admin display name")
	f.String("admin-email", "admin@localhost", "admin email")

	viper.BindPFlag("admin_name", f.Lookup("admin-name"))
	viper.BindPFlag("admin_email", f.Lookup("admin-email"))
}

func runInit(cmd *cobra.Command, args []string) error {
	dbPath := viper.GetString("db")
	if _, err := os.Stat(dbPath); err == nil {
		return fmt.Errorf("database %s already exists", dbPath)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		os.Remove(dbPath)
		return fmt.Errorf("ensuring schema: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		os.Remove(dbPath)
		return fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		os.Remove(dbPath)
		return fmt.Errorf("hashing password: %w", err)
	}

	name := viper.GetString("admin_name")
	email := viper.GetString("admin_email")
	_, err = store.CreateUser(context.Background(), database, name, email, string(hash),
		[]string{model.RoleAdmin, model.RoleUser})
	if err != nil {
		os.Remove(dbPath)
		return fmt.Errorf("creating admin user: %w", err)
	}

	fmt.Printf(`Database initialized: %s

Admin account:
  email:    %s
  password: %s

Store this password now, it will not be shown again.
`, dbPath, email, password)
	return nil
}

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generatePassword returns a random password without easily confused
// characters.
func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
