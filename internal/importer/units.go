package importer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	apperrors "statimport/internal/errors"
	"statimport/pkg/contracts/domain"
)

// UnitRegistry resolves units of measurement from the source system that
// owns a statistic. It stands in for the host runtime's entity registry;
// the importer only ever reads from it.
type UnitRegistry interface {
	UnitFor(statisticID string) (string, error)
}

// StaticRegistry is a fixed in-memory UnitRegistry, typically loaded from a
// YAML mapping of statistic identifiers to units.
type StaticRegistry map[string]string

// UnitFor implements UnitRegistry.
func (r StaticRegistry) UnitFor(statisticID string) (string, error) {
	unit, ok := r[statisticID]
	if !ok {
		return "", fmt.Errorf("no unit registered for %s", statisticID)
	}
	return unit, nil
}

// LoadRegistryFile reads a YAML file mapping statistic identifiers to units.
func LoadRegistryFile(path string) (StaticRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read unit registry %s: %w", path, err)
	}
	var registry StaticRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("cannot parse unit registry %s: %w", path, err)
	}
	return registry, nil
}

// SourceOf returns the namespace segment of a statistic identifier: the
// portion before the first ':' or '.'. It names the domain that owns the
// identifier and is recorded as the series' source tag.
func SourceOf(statisticID string) string {
	if idx := strings.IndexAny(statisticID, ":."); idx >= 0 {
		return statisticID[:idx]
	}
	return statisticID
}

// ResolveUnit determines the unit of measurement for a series.
//
// With UnitFromSourceSystem the unit is looked up in the registry; a miss is
// fatal. With UnitFromTable the supplied hint is taken verbatim, an empty
// hint meaning the unit stays unset.
func ResolveUnit(registry UnitRegistry, unitSource domain.UnitSource, hint, statisticID string) (string, error) {
	if unitSource == domain.UnitFromSourceSystem {
		if registry == nil {
			return "", apperrors.NewUnresolvableUnitError(statisticID, fmt.Errorf("no unit registry configured"))
		}
		unit, err := registry.UnitFor(statisticID)
		if err != nil {
			return "", apperrors.NewUnresolvableUnitError(statisticID, err)
		}
		return unit, nil
	}
	return hint, nil
}
