// Command hash-generator prints bcrypt hashes for the passwords given as
// arguments, for seeding accounts directly in the database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hash-generator [-cost n] password...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := writeHashes(os.Stdout, *cost, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

func writeHashes(w io.Writer, cost int, passwords []string) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	hasher := auth.NewBcryptHasher(cost)
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		if _, err := fmt.Fprintf(w, "Password: %s\nHash: %s\n\n", password, hash); err != nil {
			return err
		}
	}
	return nil
}
