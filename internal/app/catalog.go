package app

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/glabrego/sponsored-cli/internal/recommend"
)

// CatalogRepository is the storage the offline provider samples from.
type CatalogRepository interface {
	SaveRecommendations(ctx context.Context, recs []recommend.Recommendation) error
	SampleSponsored(ctx context.Context, limit int) ([]recommend.Recommendation, error)
	CountRecommendations(ctx context.Context) (int, error)
}

// Catalog adapts a CatalogRepository to Source.
type Catalog struct {
	repo CatalogRepository
}

func NewCatalog(repo CatalogRepository) *Catalog {
	return &Catalog{repo: repo}
}

func (c *Catalog) Fetch(ctx context.Context, count int) ([]recommend.Recommendation, error) {
	recs, err := c.repo.SampleSponsored(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("sample catalog: %w", err)
	}
	return recs, nil
}

type seedFile struct {
	Recommendations []recommend.Recommendation `yaml:"recommendations"`
}

// LoadSeed reads a catalog seed file. JSON seeds work too since YAML is a
// superset. Records without an origin are treated as sponsored.
func LoadSeed(path string) ([]recommend.Recommendation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}
	for i, rec := range seed.Recommendations {
		if rec.ID == "" || rec.Title == "" || rec.Destination == "" {
			return nil, fmt.Errorf("catalog seed %s: record %d needs id, title and destination", path, i)
		}
		if rec.Origin == "" {
			seed.Recommendations[i].Origin = recommend.OriginSponsored
		}
	}
	return seed.Recommendations, nil
}

// SeedCatalog loads path into repo and returns how many records it holds
// afterwards.
func SeedCatalog(ctx context.Context, repo CatalogRepository, path string) (int, error) {
	recs, err := LoadSeed(path)
	if err != nil {
		return 0, err
	}
	if err := repo.SaveRecommendations(ctx, recs); err != nil {
		return 0, fmt.Errorf("save catalog seed: %w", err)
	}
	n, err := repo.CountRecommendations(ctx)
	if err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return n, nil
}
