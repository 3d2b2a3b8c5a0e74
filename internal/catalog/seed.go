package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/matchcrawl/internal/domain"
)

// seedCatalogYAML is the versioned fallback catalog served when
// top-level discovery comes back empty. Keeping it as a data asset
// rather than code means the fallback policy can change without
// touching discovery logic.
//
//go:embed seed_catalog.yaml
var seedCatalogYAML []byte

// seedFile is the decoded shape of the seed asset.
type seedFile struct {
	Version int                  `yaml:"version"`
	Regions []domain.CatalogNode `yaml:"regions"`
}

// SeedCatalog decodes the embedded seed catalog asset.
func SeedCatalog() ([]domain.CatalogNode, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedCatalogYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed catalog: %w", err)
	}
	if len(f.Regions) == 0 {
		return nil, fmt.Errorf("seed catalog v%d contains no regions", f.Version)
	}
	for i := range f.Regions {
		if f.Regions[i].Kind == "" {
			f.Regions[i].Kind = domain.KindRegion
		}
	}
	return f.Regions, nil
}
