package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"homefinder/internal/config"
	"homefinder/internal/db"
	"homefinder/internal/model"
	"homefinder/internal/repository"
)

//go:embed seed.json
var defaultSeed []byte

// SeedData is the demo data set: users first, then properties referencing their owner by username.
type SeedData struct {
	Users      []SeedUser     `json:"users"`
	Properties []SeedProperty `json:"properties"`
}

// SeedUser is a demo account with a plain-text password.
type SeedUser struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Phone     *string    `json:"phone"`
	Role      model.Role `json:"role"`
}

// SeedProperty is a demo listing.
type SeedProperty struct {
	Owner        string               `json:"owner"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Price        decimal.Decimal      `json:"price"`
	Address      string               `json:"address"`
	City         string               `json:"city"`
	State        string               `json:"state"`
	ZipCode      string               `json:"zipCode"`
	Country      string               `json:"country"`
	PropertyType model.PropertyType   `json:"propertyType"`
	Status       model.PropertyStatus `json:"status"`
	Bedrooms     int                  `json:"bedrooms"`
	Bathrooms    int                  `json:"bathrooms"`
	Area         int                  `json:"area"`
	YearBuilt    *int                 `json:"yearBuilt"`
	Images       []string             `json:"images"`
	Features     []string             `json:"features"`
}

func main() {
	file := flag.String("file", "", "path to a seed JSON file (defaults to the built-in demo data)")
	url := flag.String("url", "", "URL to fetch seed JSON from")
	flag.Parse()

	log.Info("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.StorageDriver == config.StorageMemory {
		log.Fatal("STORAGE_DRIVER=memory has nothing to seed; use mysql or postgres")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations completed")

	raw, err := loadSeed(*file, *url)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Fatalf("Failed to parse seed data: %v", err)
	}

	store := repository.NewGormStorage(gormDB)
	ctx := context.Background()

	owners, created, err := seedUsers(ctx, store, data.Users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	listings, err := seedProperties(ctx, store, owners, data.Properties)
	if err != nil {
		log.Fatalf("Failed to seed properties: %v", err)
	}

	log.Info("Seed completed successfully!")
	log.Infof("  - New users created: %d", created)
	log.Infof("  - Existing users kept: %d", len(owners)-created)
	log.Infof("  - Properties created: %d", listings)
}

func loadSeed(file, url string) ([]byte, error) {
	switch {
	case url != "":
		log.Infof("Fetching seed data from: %s", url)
		return fetchSeed(url)
	case file != "":
		return os.ReadFile(file)
	default:
		return defaultSeed, nil
	}
}

func fetchSeed(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seedUsers creates missing users and returns every seeded user keyed by username.
func seedUsers(ctx context.Context, repo repository.UserRepository, users []SeedUser) (map[string]*model.User, int, error) {
	byName := make(map[string]*model.User, len(users))
	created := 0
	for _, u := range users {
		existing, err := repo.GetUserByUsername(ctx, u.Username)
		if err != nil {
			return nil, created, fmt.Errorf("error checking user %s: %w", u.Username, err)
		}
		if existing != nil {
			byName[u.Username] = existing
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, created, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		role := u.Role
		if !role.Valid() {
			role = model.RoleBuyer
		}
		user, err := repo.CreateUser(ctx, &model.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: string(hash),
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Phone:        u.Phone,
			Role:         role,
		})
		if err != nil {
			return nil, created, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		byName[u.Username] = user
		created++
	}
	return byName, created, nil
}

// seedProperties creates listings whose owner has no listing with the same title yet.
func seedProperties(ctx context.Context, repo repository.PropertyRepository, owners map[string]*model.User, properties []SeedProperty) (int, error) {
	created := 0
	for _, p := range properties {
		owner, ok := owners[p.Owner]
		if !ok {
			log.Warnf("Skipping %q: unknown owner %q", p.Title, p.Owner)
			continue
		}

		existing, err := repo.ListPropertiesByUser(ctx, owner.ID)
		if err != nil {
			return created, fmt.Errorf("list properties of %s: %w", owner.Username, err)
		}
		if hasTitle(existing, p.Title) {
			continue
		}

		if _, err := repo.CreateProperty(ctx, &model.Property{
			Title:        p.Title,
			Description:  p.Description,
			Price:        p.Price,
			Address:      p.Address,
			City:         p.City,
			State:        p.State,
			ZipCode:      p.ZipCode,
			Country:      p.Country,
			PropertyType: p.PropertyType,
			Status:       p.Status,
			Bedrooms:     p.Bedrooms,
			Bathrooms:    p.Bathrooms,
			Area:         p.Area,
			YearBuilt:    p.YearBuilt,
			Images:       p.Images,
			Features:     p.Features,
			UserID:       owner.ID,
		}); err != nil {
			return created, fmt.Errorf("create property %q: %w", p.Title, err)
		}
		created++
	}
	return created, nil
}

func hasTitle(properties []model.Property, title string) bool {
	for _, p := range properties {
		if p.Title == title {
			return true
		}
	}
	return false
}
