// Package data loads initial country records from files, built-in baselines,
// or synthesized profiles.
package data

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/tradewar/internal/economy"
)

// Record defaults for optional fields.
const (
	DefaultInflation    = 0.02
	DefaultUnemployment = 0.05
	DefaultInterest     = 0.02
	DefaultCurrency     = 1.0
)

// ErrInvalidRecord marks a country file that is missing required fields.
var ErrInvalidRecord = errors.New("invalid country record")

// Provider returns the starting record for a country.
type Provider interface {
	Country(name string) (*economy.Country, error)
}

// record is the on-disk shape. Pointers distinguish absent from zero.
type record struct {
	Name             *string            `yaml:"name"`
	GDP              *float64           `yaml:"gdp"`
	Population       *int64             `yaml:"population"`
	InflationRate    *float64           `yaml:"inflation_rate"`
	UnemploymentRate *float64           `yaml:"unemployment_rate"`
	InterestRate     *float64           `yaml:"interest_rate"`
	CurrencyValue    *float64           `yaml:"currency_value"`
	Sectors          map[string]float64 `yaml:"sectors"`
	TradingPartners  []string           `yaml:"trading_partners"`
}

// FileProvider reads <dir>/<name>.yaml (or .yml, .json, _economy.json) and
// falls back to built-in baselines, then to synthetic data.
type FileProvider struct {
	Dir       string
	Synthetic *Synthesizer // Nil disables synthetic fallback
}

// NewFileProvider returns a provider over dir with synthetic fallback.
func NewFileProvider(dir string, seed int64) *FileProvider {
	return &FileProvider{Dir: dir, Synthetic: NewSynthesizer(seed)}
}

// Country loads one country.
func (p *FileProvider) Country(name string) (*economy.Country, error) {
	if path, ok := p.find(name); ok {
		c, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		slog.Info("loaded country data", "country", name, "path", path)
		return c, nil
	}
	if c, ok := Baseline(name); ok {
		slog.Debug("using built-in baseline", "country", name)
		return c, nil
	}
	if p.Synthetic == nil {
		return nil, fmt.Errorf("no data for country %q", name)
	}
	slog.Warn("generating synthetic country data", "country", name)
	return p.Synthetic.Country(name), nil
}

func (p *FileProvider) find(name string) (string, bool) {
	if p.Dir == "" {
		return "", false
	}
	base := strings.ToLower(name)
	for _, candidate := range []string{base + ".yaml", base + ".yml", base + ".json", base + "_economy.json"} {
		path := filepath.Join(p.Dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// LoadFile decodes a YAML or JSON country file and fills defaults.
func LoadFile(path string) (*economy.Country, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read country file: %w", err)
	}
	var r record
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return r.country(path)
}

func (r record) country(path string) (*economy.Country, error) {
	switch {
	case r.Name == nil || *r.Name == "":
		return nil, fmt.Errorf("%w: missing name in %s", ErrInvalidRecord, path)
	case r.GDP == nil:
		return nil, fmt.Errorf("%w: missing gdp in %s", ErrInvalidRecord, path)
	case r.Population == nil:
		return nil, fmt.Errorf("%w: missing population in %s", ErrInvalidRecord, path)
	}
	c := &economy.Country{
		Name:             *r.Name,
		GDP:              max(0, *r.GDP),
		Population:       *r.Population,
		InflationRate:    orDefault(r.InflationRate, DefaultInflation),
		UnemploymentRate: orDefault(r.UnemploymentRate, DefaultUnemployment),
		InterestRate:     orDefault(r.InterestRate, DefaultInterest),
		CurrencyValue:    orDefault(r.CurrencyValue, DefaultCurrency),
		Sectors:          r.Sectors,
		TradingPartners:  r.TradingPartners,
	}
	if c.Sectors == nil {
		c.Sectors = map[string]float64{}
	}
	return c, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Load resolves every name through p.
func Load(p Provider, names []string) ([]*economy.Country, error) {
	out := make([]*economy.Country, 0, len(names))
	for _, n := range names {
		c, err := p.Country(n)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", n, err)
		}
		out = append(out, c)
	}
	return out, nil
}
