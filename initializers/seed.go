package initializers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// MenuSeed is the layout of the YAML menu file.
type MenuSeed struct {
	ItemTypes []string   `yaml:"itemTypes"`
	Items     []SeedItem `yaml:"items"`
}

type SeedItem struct {
	Name        string              `yaml:"name"`
	Type        string              `yaml:"type"`
	Price       string              `yaml:"price"`
	ImgURL      string              `yaml:"imgUrl"`
	Quantity    int                 `yaml:"quantity"`
	Description string              `yaml:"description"`
	Ingredients []models.Ingredient `yaml:"ingredients"`
}

func ParseMenuSeed(data []byte) (*MenuSeed, error) {
	var seed MenuSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse menu seed: %w", err)
	}
	return &seed, nil
}

// SeedMenu loads the menu file at path into an empty items collection.
// Item types are referenced by name in the file and resolved to their ids.
func SeedMenu(ctx context.Context, path string, types gateway.Collection[models.ItemType], items gateway.Collection[models.Item]) error {
	existing, err := items.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.InfoContext(ctx, "menu already present, skipping seed", "items", len(existing))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read menu seed: %w", err)
	}
	seed, err := ParseMenuSeed(data)
	if err != nil {
		return err
	}

	typeIDs := make(map[string]string)
	knownTypes, err := types.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, t := range knownTypes {
		typeIDs[t.Name] = t.ID
	}
	for _, name := range seed.ItemTypes {
		if _, ok := typeIDs[name]; ok {
			continue
		}
		id, err := types.Create(ctx, &models.ItemType{Name: name})
		if err != nil {
			return err
		}
		typeIDs[name] = id
	}

	for _, si := range seed.Items {
		price, err := decimal.NewFromString(si.Price)
		if err != nil {
			return fmt.Errorf("item %q: invalid price %q: %w", si.Name, si.Price, err)
		}
		typeID, ok := typeIDs[si.Type]
		if !ok {
			return fmt.Errorf("item %q: unknown item type %q", si.Name, si.Type)
		}
		item := &models.Item{
			Name:        si.Name,
			Type:        typeID,
			Price:       price,
			ImgURL:      si.ImgURL,
			Quantity:    si.Quantity,
			Description: si.Description,
			Ingredients: si.Ingredients,
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", si.Name, err)
		}
		if _, err := items.Create(ctx, item); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "menu seeded", "item_types", len(seed.ItemTypes), "items", len(seed.Items))
	return nil
}

// EnsureAdmin creates the admin account on first start.
func EnsureAdmin(ctx context.Context, users *gateway.Users, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gateway.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := users.Create(ctx, &models.User{
		Username: "admin",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}); err != nil {
		return err
	}
	slog.InfoContext(ctx, "admin account created", "email", email)
	return nil
}
