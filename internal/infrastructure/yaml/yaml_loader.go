package yaml

import (
	"os"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"

	"gopkg.in/yaml.v3"
)

// SchemePack is a versioned file of scheme definitions.
type SchemePack struct {
	Version     string          `yaml:"version" json:"version"`
	Description string          `yaml:"description" json:"description,omitempty"`
	Schemes     []domain.Scheme `yaml:"schemes" json:"schemes"`
}

func LoadSchemePack(path string) (SchemePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SchemePack{}, err
	}
	return ParseSchemePack(data)
}

func ParseSchemePack(data []byte) (SchemePack, error) {
	var pack SchemePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return SchemePack{}, err
	}
	return pack, nil
}

// LoadOrder reads a single order document, used by fixtures and the CLI.
func LoadOrder(path string) (domain.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Order{}, err
	}
	var order domain.Order
	if err := yaml.Unmarshal(data, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
