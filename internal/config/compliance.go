package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ComplianceConfig is the statutory rule set. Rates are fractions (0.12 = 12%).
type ComplianceConfig struct {
	PF         PFConfig         `mapstructure:"pf"`
	ESI        ESIConfig        `mapstructure:"esi"`
	PT         PTConfig         `mapstructure:"pt"`
	TDS        TDSConfig        `mapstructure:"tds"`
	Projection ProjectionConfig `mapstructure:"projection"`
}

type PFConfig struct {
	Rate          float64 `mapstructure:"rate"`
	AnnualCeiling float64 `mapstructure:"annualCeiling"`
}

type ESIConfig struct {
	Rate           float64 `mapstructure:"rate"`
	GrossThreshold float64 `mapstructure:"grossThreshold"`
}

// PTSlab charges Amount when gross <= UpTo. A nil UpTo is the open-ended top slab.
type PTSlab struct {
	UpTo   *float64 `mapstructure:"upTo"`
	Amount float64  `mapstructure:"amount"`
}

type PTConfig struct {
	Slabs []PTSlab `mapstructure:"slabs"`
}

// TaxSlab taxes income between the previous slab's UpTo and this one at Rate.
type TaxSlab struct {
	UpTo *float64 `mapstructure:"upTo"`
	Rate float64  `mapstructure:"rate"`
}

type TDSConfig struct {
	StandardDeduction float64   `mapstructure:"standardDeduction"`
	Slabs             []TaxSlab `mapstructure:"slabs"`
}

type Surcharge struct {
	Above float64 `mapstructure:"above"`
	Rate  float64 `mapstructure:"rate"`
}

type ProjectionConfig struct {
	CessRate      float64            `mapstructure:"cessRate"`
	Surcharges    []Surcharge        `mapstructure:"surcharges"`
	ExemptionCaps map[string]float64 `mapstructure:"exemptionCaps"`
}

func floatPtr(v float64) *float64 { return &v }

func DefaultComplianceConfig() ComplianceConfig {
	return ComplianceConfig{
		PF:  PFConfig{Rate: 0.12, AnnualCeiling: 180000},
		ESI: ESIConfig{Rate: 0.0075, GrossThreshold: 21000},
		PT: PTConfig{Slabs: []PTSlab{
			{UpTo: floatPtr(15000), Amount: 0},
			{UpTo: floatPtr(20000), Amount: 50},
			{UpTo: floatPtr(25000), Amount: 100},
			{UpTo: nil, Amount: 200},
		}},
		TDS: TDSConfig{
			StandardDeduction: 50000,
			Slabs: []TaxSlab{
				{UpTo: floatPtr(300000), Rate: 0},
				{UpTo: floatPtr(600000), Rate: 0.05},
				{UpTo: floatPtr(900000), Rate: 0.10},
				{UpTo: floatPtr(1200000), Rate: 0.15},
				{UpTo: floatPtr(1500000), Rate: 0.20},
				{UpTo: nil, Rate: 0.30},
			},
		},
		Projection: ProjectionConfig{
			CessRate: 0.04,
			Surcharges: []Surcharge{
				{Above: 5000000, Rate: 0.10},
				{Above: 10000000, Rate: 0.15},
				{Above: 20000000, Rate: 0.25},
			},
			ExemptionCaps: map[string]float64{
				"80C":     150000,
				"80D":     25000,
				"80CCD1B": 50000,
				"24B":     200000,
			},
		},
	}
}

// LoadCompliance reads the rule set from path, or from compliance.yml in the
// usual locations when path is empty. A missing default file falls back to
// DefaultComplianceConfig; a missing explicit path is an error.
func LoadCompliance(path string) (ComplianceConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("compliance")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/payroll")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	cfg := DefaultComplianceConfig()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return ComplianceConfig{}, fmt.Errorf("read compliance config: %w", err)
		}
		return cfg, validateComplianceConfig(cfg)
	}

	// Slices from the file replace the defaults instead of overlaying them.
	if v.IsSet("compliance.pt.slabs") {
		cfg.PT.Slabs = nil
	}
	if v.IsSet("compliance.tds.slabs") {
		cfg.TDS.Slabs = nil
	}
	if v.IsSet("compliance.projection.surcharges") {
		cfg.Projection.Surcharges = nil
	}
	defaultCaps := cfg.Projection.ExemptionCaps
	cfg.Projection.ExemptionCaps = nil

	if err := v.UnmarshalKey("compliance", &cfg); err != nil {
		return ComplianceConfig{}, fmt.Errorf("decode compliance config: %w", err)
	}

	// viper lowercases map keys
	caps := make(map[string]float64, len(defaultCaps))
	for section, amount := range defaultCaps {
		caps[section] = amount
	}
	for section, amount := range cfg.Projection.ExemptionCaps {
		caps[NormalizeSection(section)] = amount
	}
	cfg.Projection.ExemptionCaps = caps

	if err := validateComplianceConfig(cfg); err != nil {
		return ComplianceConfig{}, err
	}
	return cfg, nil
}

// NormalizeSection canonicalizes an exemption section name, so "80ccd(1b)"
// and "80CCD1B" name the same section.
func NormalizeSection(section string) string {
	r := strings.NewReplacer("(", "", ")", "", " ", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(section)))
}

func validateComplianceConfig(cfg ComplianceConfig) error {
	var errs []error

	checkRate := func(name string, rate float64) {
		if rate < 0 || rate > 1 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 1", name))
		}
	}

	checkRate("pf.rate", cfg.PF.Rate)
	if cfg.PF.AnnualCeiling <= 0 {
		errs = append(errs, errors.New("pf.annualCeiling must be positive"))
	}
	checkRate("esi.rate", cfg.ESI.Rate)
	if cfg.ESI.GrossThreshold <= 0 {
		errs = append(errs, errors.New("esi.grossThreshold must be positive"))
	}

	if len(cfg.PT.Slabs) == 0 {
		errs = append(errs, errors.New("pt.slabs cannot be empty"))
	}
	prev := -1.0
	for i, slab := range cfg.PT.Slabs {
		last := i == len(cfg.PT.Slabs)-1
		switch {
		case slab.UpTo == nil && !last:
			errs = append(errs, fmt.Errorf("pt.slabs[%d]: only the last slab may be open-ended", i))
		case slab.UpTo == nil:
		case last:
			errs = append(errs, errors.New("pt.slabs: last slab must be open-ended"))
		case *slab.UpTo <= prev:
			errs = append(errs, fmt.Errorf("pt.slabs[%d]: upTo must be ascending", i))
		default:
			prev = *slab.UpTo
		}
		if slab.Amount < 0 {
			errs = append(errs, fmt.Errorf("pt.slabs[%d]: amount must be non-negative", i))
		}
	}

	if cfg.TDS.StandardDeduction < 0 {
		errs = append(errs, errors.New("tds.standardDeduction must be non-negative"))
	}
	if len(cfg.TDS.Slabs) == 0 {
		errs = append(errs, errors.New("tds.slabs cannot be empty"))
	}
	prev = -1.0
	for i, slab := range cfg.TDS.Slabs {
		last := i == len(cfg.TDS.Slabs)-1
		switch {
		case slab.UpTo == nil && !last:
			errs = append(errs, fmt.Errorf("tds.slabs[%d]: only the last slab may be open-ended", i))
		case slab.UpTo == nil:
		case last:
			errs = append(errs, errors.New("tds.slabs: last slab must be open-ended"))
		case *slab.UpTo <= prev:
			errs = append(errs, fmt.Errorf("tds.slabs[%d]: upTo must be ascending", i))
		default:
			prev = *slab.UpTo
		}
		checkRate(fmt.Sprintf("tds.slabs[%d].rate", i), slab.Rate)
	}

	checkRate("projection.cessRate", cfg.Projection.CessRate)
	prev = -1.0
	for i, s := range cfg.Projection.Surcharges {
		if s.Above <= prev {
			errs = append(errs, fmt.Errorf("projection.surcharges[%d]: above must be ascending", i))
		}
		prev = s.Above
		checkRate(fmt.Sprintf("projection.surcharges[%d].rate", i), s.Rate)
	}
	for section, amount := range cfg.Projection.ExemptionCaps {
		if amount < 0 {
			errs = append(errs, fmt.Errorf("projection.exemptionCaps.%s must be non-negative", section))
		}
	}

	return errors.Join(errs...)
}
