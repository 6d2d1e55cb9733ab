package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"learnjournal/internal/config"
	"learnjournal/internal/db"
	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
	"learnjournal/internal/repository"
	"learnjournal/internal/service"
)

// SeedData is the structure of a seed document.
type SeedData struct {
	User    SeedUser    `json:"user"`
	Entries []SeedEntry `json:"entries"`
}

// SeedUser is the account the entries are attached to.
type SeedUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

// SeedEntry is one journal entry. Date uses YYYY-MM-DD.
type SeedEntry struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	TimeSpent string `json:"time_spent"`
	Learning  string `json:"learning"`
	Resources string `json:"resources"`
	Tags      string `json:"tags"`
}

func main() {
	source := flag.String("source", "", "path or http(s) URL of the seed JSON document")
	flag.Parse()
	if *source == "" {
		log.Fatal("usage: seed -source <file|url>")
	}

	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.Options{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	data, err := load(*source)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	log.Printf("Loaded %d entries from %s", len(data.Entries), *source)

	userRepo := repository.NewUserRepository(gormDB)
	entryRepo := repository.NewEntryRepository(gormDB)
	users := service.NewUserService(userRepo, entryRepo, cfg.BcryptCost)
	entries := service.NewEntryService(entryRepo, nil)

	ctx := context.Background()
	owner, err := ensureUser(ctx, users, userRepo, data.User)
	if err != nil {
		log.Fatalf("Failed to prepare user: %v", err)
	}

	created, skipped := seedEntries(ctx, entries, owner, data.Entries)
	log.Printf("Seed completed successfully!")
	log.Printf("  - Entries created: %d", created)
	log.Printf("  - Entries skipped: %d", skipped)
}

// load reads the seed document from a local file or an http(s) URL.
func load(source string) (*SeedData, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	var data SeedData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &data, nil
}

// ensureUser creates the seed account or reuses the one with the same email.
func ensureUser(ctx context.Context, users service.UserService, repo repository.UserRepository, u SeedUser) (*model.User, error) {
	user, err := users.CreateUser(ctx, u.Username, u.Email, u.Password, u.Admin)
	if err == nil {
		log.Printf("Created user %s", user.Username)
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateUser) {
		return nil, err
	}

	user, err = repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(u.Email)))
	if err != nil {
		return nil, fmt.Errorf("user %s exists under a different email: %w", u.Username, err)
	}
	log.Printf("Reusing existing user %s", user.Username)
	return user, nil
}

func seedEntries(ctx context.Context, entries service.EntryService, owner *model.User, items []SeedEntry) (created, skipped int) {
	for _, item := range items {
		date, err := time.Parse(model.DateLayout, item.Date)
		if err != nil || strings.TrimSpace(item.Title) == "" {
			log.Printf("Skipping entry %q with invalid title or date %q", item.Title, item.Date)
			skipped++
			continue
		}

		_, err = entries.CreateEntry(ctx, service.EntryInput{
			Title:     strings.TrimSpace(item.Title),
			Date:      date,
			TimeSpent: item.TimeSpent,
			Learning:  item.Learning,
			Resources: item.Resources,
			Tags:      item.Tags,
		}, owner.ID)
		if err != nil {
			log.Printf("Skipping entry %q: %v", item.Title, err)
			skipped++
			continue
		}
		created++
	}
	return created, skipped
}
