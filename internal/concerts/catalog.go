package concerts

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/ayush/concert-capstone/internal/models"
)

// CatalogStore is the part of the concert store used for seeding.
type CatalogStore interface {
	CountConcerts(ctx context.Context) (int, error)
	CreateConcert(ctx context.Context, c *models.Concert) error
}

type catalogFile struct {
	Concerts []models.Concert `yaml:"concerts"`
}

// LoadCatalog reads a YAML concert catalog.
func LoadCatalog(path string) ([]models.Concert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read concert catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse concert catalog: %w", err)
	}
	for i, c := range f.Concerts {
		if c.ConcertName == "" || c.City == "" || c.Date.IsZero() || c.Duration <= 0 {
			return nil, fmt.Errorf("concert catalog entry %d: concert_name, city, date and a positive duration are required", i)
		}
	}
	return f.Concerts, nil
}

// SeedCatalog inserts concerts when the table is empty and returns how many
// were inserted.
func SeedCatalog(ctx context.Context, s CatalogStore, concerts []models.Concert) (int, error) {
	n, err := s.CountConcerts(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Debug().Int("existing", n).Msg("concerts already present, skipping catalog")
		return 0, nil
	}

	for i := range concerts {
		if err := s.CreateConcert(ctx, &concerts[i]); err != nil {
			return i, err
		}
	}
	return len(concerts), nil
}
