package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"garage/internal/config"
	"garage/internal/db"
	"garage/internal/model"
	"garage/internal/repository"
	"garage/internal/service"
)

// SeedItemData is one catalogue entry in the seed document.
type SeedItemData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, using environment variables")
	}

	source := flag.String("source", os.Getenv("SEED_ITEMS_SOURCE"), "JSON file path or http(s) URL with the items to seed")
	flag.Parse()
	if *source == "" {
		log.Fatal("no seed source: pass -source or set SEED_ITEMS_SOURCE")
	}

	cfg := config.Load()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.Options{})
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Infof("fetching items from %s", *source)
	data, err := readSource(ctx, *source)
	if err != nil {
		log.Fatalf("read seed source: %v", err)
	}

	items, skipped := parseItems(data)
	if skipped > 0 {
		log.Warnf("skipped %d invalid items", skipped)
	}

	itemService := service.NewItemService(repository.NewItemRepository(gormDB), nil)
	created, updated, err := itemService.Seed(ctx, items)
	if err != nil {
		log.Fatalf("seed items: %v", err)
	}

	log.Infof("seed completed: %d created, %d updated", created, updated)
}

// readSource loads the seed document from a URL or a local file.
func readSource(ctx context.Context, source string) ([]SeedItemData, error) {
	var r io.Reader
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var items []SeedItemData
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return items, nil
}

// parseItems converts seed entries to items, dropping ones that cannot be stored.
func parseItems(data []SeedItemData) (items []model.Item, skipped int) {
	for _, d := range data {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			skipped++
			continue
		}

		price := decimal.Zero
		if d.Price != "" {
			p, err := decimal.NewFromString(d.Price)
			if err != nil || p.IsNegative() {
				log.Warnf("skipping %q: invalid price %q", name, d.Price)
				skipped++
				continue
			}
			price = p
		}

		category := model.ItemCategory(strings.ToLower(d.Category))
		if category == "" {
			category = model.ItemCategoryPart
		}
		if !category.Valid() || d.Quantity < 0 {
			log.Warnf("skipping %q: invalid category or quantity", name)
			skipped++
			continue
		}

		items = append(items, model.Item{
			Name:        name,
			Description: d.Description,
			Category:    category,
			Price:       price,
			Quantity:    d.Quantity,
		})
	}
	return items, skipped
}
