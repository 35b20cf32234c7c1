// Package idgen assigns identifiers to new records.
package idgen

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// base36Width is the length of math.MaxUint64 written in base 36.
const base36Width = 13

// Generator returns random UUIDs, falling back to a PRNG-based identifier
// when the operating system entropy source fails.
type Generator struct {
	random func() (uuid.UUID, error)
}

// New returns a Generator backed by crypto/rand through google/uuid.
func New() *Generator {
	return &Generator{random: uuid.NewRandom}
}

// NewID never fails. The fallback carries 128 PRNG bits and is not meant to
// be unguessable, only unique within one dataset.
func (g *Generator) NewID() string {
	if id, err := g.random(); err == nil {
		return id.String()
	}
	return fallbackID()
}

func fallbackID() string {
	return padBase36(rand.Uint64()) + padBase36(rand.Uint64())
}

func padBase36(v uint64) string {
	s := strconv.FormatUint(v, 36)
	return strings.Repeat("0", base36Width-len(s)) + s
}
