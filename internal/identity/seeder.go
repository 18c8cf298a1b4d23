package identity

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/repository"
)

// SeedUsersFromCSV loads accounts from a header-driven CSV file
// (first_name,last_name,email,password). Rows that fail validation are
// skipped; rows whose email already exists are left untouched, so the
// bootstrap is safe to re-run on every start. Returns the number of users
// created.
func SeedUsersFromCSV(ctx context.Context, path string, userRepo repository.UserRepository, logger zerolog.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open users csv: %w", err)
	}
	defer file.Close()

	return SeedUsers(ctx, file, userRepo, logger)
}

func SeedUsers(ctx context.Context, r io.Reader, userRepo repository.UserRepository, logger zerolog.Logger) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"first_name", "last_name", "email", "password"} {
		if _, ok := columns[required]; !ok {
			return 0, fmt.Errorf("users csv missing column %q", required)
		}
	}

	created := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, fmt.Errorf("failed to read csv record: %w", err)
		}

		firstName := record[columns["first_name"]]
		lastName := record[columns["last_name"]]
		email := record[columns["email"]]
		password := record[columns["password"]]

		if !IsValidEmail(email) || !IsValidPassword(password) || firstName == "" || lastName == "" {
			logger.Warn().Str("email", email).Msg("Skipping invalid user row")
			continue
		}

		existing, err := userRepo.GetByEmail(ctx, email)
		if err != nil {
			return created, fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return created, fmt.Errorf("failed to hash password: %w", err)
		}

		now := time.Now().UTC()
		user := &models.User{
			ID:           uuid.New().String(),
			FirstName:    firstName,
			LastName:     lastName,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := userRepo.Create(ctx, user); err != nil {
			return created, fmt.Errorf("failed to create user %s: %w", email, err)
		}
		created++
	}

	if created > 0 {
		logger.Info().Int("created", created).Msg("Seeded users from CSV")
	}

	return created, nil
}
