//go:build unit

package token_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"cng-slot-booking/internal/domain/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestRandomGenerator(t *testing.T) {
	t.Run("generated codes pass validation", func(t *testing.T) {
		gen := token.NewRandomGenerator()
		for i := 0; i < 1000; i++ {
			code, err := gen.Generate()
			require.NoError(t, err)

			parsed, err := token.NewCode(code.String())
			require.NoError(t, err)
			assert.Equal(t, code, parsed)
			assert.True(t, strings.HasPrefix(code.String(), token.CodePrefix+"-"))
		}
	})

	t.Run("draws only from the alphabet and reaches all of it", func(t *testing.T) {
		gen := token.NewRandomGenerator()
		seen := map[rune]bool{}
		for i := 0; i < 2000; i++ {
			code, err := gen.Generate()
			require.NoError(t, err)
			for _, r := range code.String()[len(token.CodePrefix)+1:] {
				require.True(t, strings.ContainsRune(token.CodeAlphabet, r), "unexpected symbol %q", r)
				seen[r] = true
			}
		}
		assert.Len(t, seen, len(token.CodeAlphabet))
	})

	t.Run("codes accepted after dedup retry are unique", func(t *testing.T) {
		const n = 5000
		gen := token.NewRandomGenerator()
		accepted := make(map[string]struct{}, n)
		for len(accepted) < n {
			code, err := gen.Generate()
			require.NoError(t, err)
			// retry on collision, the same way booking creation does
			if _, dup := accepted[code.String()]; dup {
				continue
			}
			accepted[code.String()] = struct{}{}
		}
		assert.Len(t, accepted, n)
	})

	t.Run("same entropy yields same code", func(t *testing.T) {
		seed := bytes.Repeat([]byte{0x07}, 64)
		a, err := token.NewGeneratorFromReader(bytes.NewReader(seed)).Generate()
		require.NoError(t, err)
		b, err := token.NewGeneratorFromReader(bytes.NewReader(seed)).Generate()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("entropy failure is returned", func(t *testing.T) {
		code, err := token.NewGeneratorFromReader(failingReader{}).Generate()
		require.Error(t, err)
		assert.True(t, code.IsZero())
	})
}
