package data

import (
	"encoding/binary"

	opensimplex "github.com/ojrac/opensimplex-go"
	"lukechampine.com/blake3"

	"github.com/talgya/tradewar/internal/economy"
)

var genericSectors = map[string]float64{
	economy.SectorServices:         0.35,
	economy.SectorManufacturing:    0.25,
	economy.SectorAgriculture:      0.10,
	economy.SectorNaturalResources: 0.10,
	economy.SectorTechnology:       0.10,
	economy.SectorEducation:        0.05,
	economy.SectorHealthcare:       0.05,
}

// Synthesizer builds plausible records for countries without data. The same
// seed and name always give the same record.
type Synthesizer struct {
	macro  opensimplex.Noise
	sector opensimplex.Noise
}

// NewSynthesizer creates a synthesizer with independent noise layers.
func NewSynthesizer(seed int64) *Synthesizer {
	return &Synthesizer{
		macro:  opensimplex.NewNormalized(seed),
		sector: opensimplex.NewNormalized(seed + 1),
	}
}

// Country returns a synthetic record for name.
func (s *Synthesizer) Country(name string) *economy.Country {
	x, y := coordinates(name)

	sample := func(layer float64) float64 {
		return octaveNoise(s.macro, x+layer*17.3, y, 3, 0.9, 0.5)
	}

	c := &economy.Country{
		Name:             name,
		GDP:              0.2 + sample(0)*1.8,
		Population:       int64(10_000_000 + sample(1)*190_000_000),
		InflationRate:    0.02 + sample(2)*0.02,
		UnemploymentRate: 0.03 + sample(3)*0.04,
		InterestRate:     0.01 + sample(4)*0.03,
		CurrencyValue:    DefaultCurrency,
		Sectors:          make(map[string]float64, len(genericSectors)),
	}

	total := 0.0
	for i, sector := range economy.SortedKeys(genericSectors) {
		n := octaveNoise(s.sector, x, y+float64(i)*11.7, 2, 0.7, 0.5)
		share := genericSectors[sector] * (0.7 + 0.6*n)
		c.Sectors[sector] = share
		total += share
	}
	for sector, share := range c.Sectors {
		c.Sectors[sector] = share / total
	}
	return c
}

// coordinates maps a name to a stable point in noise space.
func coordinates(name string) (float64, float64) {
	sum := blake3.Sum256([]byte(name))
	a := binary.LittleEndian.Uint32(sum[0:4])
	b := binary.LittleEndian.Uint32(sum[4:8])
	return float64(a%100_000) / 97.0, float64(b%100_000) / 97.0
}

// octaveNoise layers several frequencies of normalized noise into [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return economy.Clamp01(total / maxVal)
}
