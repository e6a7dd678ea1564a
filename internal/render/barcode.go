package render

import "math/rand"

// BarcodeGenerator produces the bar widths for the pseudo-barcode printed on
// the ticket. Visual fidelity is not a contract; only presence is.
type BarcodeGenerator interface {
	// Widths returns alternating bar and gap widths whose sum covers at
	// least total pixels.
	Widths(total int) []int
}

// RandomBarcodeGenerator draws variable-width bars from a random source.
// A fixed seed makes the output reproducible for tests.
type RandomBarcodeGenerator struct {
	rng *rand.Rand
}

// NewRandomBarcodeGenerator creates a generator with a time-based seed.
func NewRandomBarcodeGenerator() *RandomBarcodeGenerator {
	return &RandomBarcodeGenerator{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewSeededBarcodeGenerator creates a generator with a fixed seed.
func NewSeededBarcodeGenerator(seed int64) *RandomBarcodeGenerator {
	return &RandomBarcodeGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Widths yields widths of 2 or 4 pixels until total is covered.
func (g *RandomBarcodeGenerator) Widths(total int) []int {
	var widths []int
	covered := 0
	for covered < total {
		w := 2 * (1 + g.rng.Intn(2))
		widths = append(widths, w)
		covered += w
	}
	return widths
}
