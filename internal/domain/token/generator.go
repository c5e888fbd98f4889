package token

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Generator draws a fresh code. It never checks uniqueness; callers retry on collision.
type Generator interface {
	Generate() (Code, error)
}

type RandomGenerator struct {
	source io.Reader
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{source: rand.Reader}
}

// NewGeneratorFromReader is used by tests that need a deterministic source.
func NewGeneratorFromReader(r io.Reader) *RandomGenerator {
	return &RandomGenerator{source: r}
}

func (g *RandomGenerator) Generate() (Code, error) {
	max := big.NewInt(int64(len(CodeAlphabet)))

	buf := make([]byte, 0, len(CodePrefix)+1+CodeLength)
	buf = append(buf, CodePrefix...)
	buf = append(buf, '-')
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(g.source, max)
		if err != nil {
			return Code{}, err
		}
		buf = append(buf, CodeAlphabet[n.Int64()])
	}

	return Code{value: string(buf)}, nil
}
