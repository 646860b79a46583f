package rateconfig

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Table is the default constant set of one schema version.
type Table struct {
	Version     SchemaVersion `yaml:"version"`
	Description string        `yaml:"description"`

	DomesticDailyAllowance int64 `yaml:"domestic_daily_allowance"`
	OverseasDailyAllowance int64 `yaml:"overseas_daily_allowance"`

	TransportationDailyAllowance int64 `yaml:"transportation_daily_allowance"`
	AccommodationDailyAllowance  int64 `yaml:"accommodation_daily_allowance"`

	DomesticTransportationDailyAllowance int64 `yaml:"domestic_transportation_daily_allowance"`
	DomesticAccommodationDailyAllowance  int64 `yaml:"domestic_accommodation_daily_allowance"`
	OverseasTransportationDailyAllowance int64 `yaml:"overseas_transportation_daily_allowance"`
	OverseasAccommodationDailyAllowance  int64 `yaml:"overseas_accommodation_daily_allowance"`
	OverseasPreparationAllowance         int64 `yaml:"overseas_preparation_allowance"`
}

type tableFile struct {
	Versions []Table `yaml:"versions"`
}

var defaultTables = mustLoadTables(defaultsYAML)

func mustLoadTables(data []byte) map[SchemaVersion]Table {
	tables, err := loadTables(data)
	if err != nil {
		panic(err)
	}
	return tables
}

func loadTables(data []byte) (map[SchemaVersion]Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse allowance default tables: %w", err)
	}

	tables := make(map[SchemaVersion]Table, len(file.Versions))
	for _, t := range file.Versions {
		if !t.Version.IsKnown() {
			return nil, fmt.Errorf("unknown schema version %d in default tables", t.Version)
		}
		if _, dup := tables[t.Version]; dup {
			return nil, fmt.Errorf("duplicate default table for schema version %d", t.Version)
		}
		tables[t.Version] = t
	}

	for _, v := range []SchemaVersion{V1, V2} {
		if _, ok := tables[v]; !ok {
			return nil, fmt.Errorf("missing default table for schema version %d", v)
		}
	}

	return tables, nil
}

// DefaultTable returns the default constant set for version. Unknown versions get Current's table.
func DefaultTable(version SchemaVersion) Table {
	if t, ok := defaultTables[version]; ok {
		return t
	}
	return defaultTables[Current]
}

// Defaults returns the configuration a user starts with before saving anything.
func Defaults() Rates {
	return WithDefaults(Partial{Version: Current})
}

// WithDefaults fills every absent field of p from its version's default table, then
// migrates the result to the canonical shape. Present fields are kept as-is, including
// zero amounts and false flags. Absent use-flags default to true. A Partial without a
// version is read in the shape its fields imply (see InferVersion).
func WithDefaults(p Partial) Rates {
	version := InferVersion(p)
	table := DefaultTable(version)

	if version == V1 {
		return migrateV1(v1Rates{
			DomesticDailyAllowance:       amountOr(p.DomesticDailyAllowance, table.DomesticDailyAllowance),
			OverseasDailyAllowance:       amountOr(p.OverseasDailyAllowance, table.OverseasDailyAllowance),
			TransportationDailyAllowance: amountOr(p.TransportationDailyAllowance, table.TransportationDailyAllowance),
			AccommodationDailyAllowance:  amountOr(p.AccommodationDailyAllowance, table.AccommodationDailyAllowance),
			UseTransportation:            flagOr(p.UseTransportationAllowance),
			UseAccommodation:             flagOr(p.UseAccommodationAllowance),
		})
	}

	return Rates{
		DomesticDailyAllowance:               amountOr(p.DomesticDailyAllowance, table.DomesticDailyAllowance),
		OverseasDailyAllowance:               amountOr(p.OverseasDailyAllowance, table.OverseasDailyAllowance),
		DomesticTransportationDailyAllowance: amountOr(p.DomesticTransportationDailyAllowance, table.DomesticTransportationDailyAllowance),
		DomesticAccommodationDailyAllowance:  amountOr(p.DomesticAccommodationDailyAllowance, table.DomesticAccommodationDailyAllowance),
		OverseasTransportationDailyAllowance: amountOr(p.OverseasTransportationDailyAllowance, table.OverseasTransportationDailyAllowance),
		OverseasAccommodationDailyAllowance:  amountOr(p.OverseasAccommodationDailyAllowance, table.OverseasAccommodationDailyAllowance),
		OverseasPreparationAllowance:         amountOr(p.OverseasPreparationAllowance, table.OverseasPreparationAllowance),
		DomesticUseTransportation:            flagOr(p.DomesticUseTransportation),
		DomesticUseAccommodation:             flagOr(p.DomesticUseAccommodation),
		OverseasUseTransportation:            flagOr(p.OverseasUseTransportation),
		OverseasUseAccommodation:             flagOr(p.OverseasUseAccommodation),
		OverseasUsePreparation:               flagOr(p.OverseasUsePreparation),
		MigratedFrom:                         V2,
	}
}

func amountOr(v *decimal.Decimal, fallback int64) decimal.Decimal {
	if v != nil {
		return *v
	}
	return decimal.NewFromInt(fallback)
}

func flagOr(v *bool) bool {
	if v != nil {
		return *v
	}
	return true
}
