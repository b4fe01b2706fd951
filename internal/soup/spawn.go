package soup

import (
	"math/rand"

	"github.com/funvibe/pushkit/internal/push"
)

// Spawner draws random genomes from a soup with its own seeded source,
// so spawning is reproducible and spawners can run in parallel.
type Spawner struct {
	soup *Soup
	rng  *rand.Rand
}

func NewSpawner(s *Soup, seed int64) *Spawner {
	return &Spawner{soup: s, rng: rand.New(rand.NewSource(seed))}
}

// SpawnGene draws a single genome unit.
func (sp *Spawner) SpawnGene() push.Gene {
	return sp.soup.RandomUnit(sp.rng)
}

// SpawnGenomeOfSize draws a genome of exactly size units.
func (sp *Spawner) SpawnGenomeOfSize(size int) []push.Gene {
	return sp.soup.RandomUnits(sp.rng, size)
}

// SpawnGenome draws a genome of uniform random size in [min, max].
func (sp *Spawner) SpawnGenome(min, max int) []push.Gene {
	size := min
	if max > min {
		size += sp.rng.Intn(max - min + 1)
	}
	return sp.SpawnGenomeOfSize(size)
}

// SpawnPushCodeOfSize draws a genome and linearizes it.
func (sp *Spawner) SpawnPushCodeOfSize(size int) []push.Code {
	return push.Linearize(sp.SpawnGenomeOfSize(size))
}

// SpawnPushCode draws a ranged-size genome and linearizes it.
func (sp *Spawner) SpawnPushCode(min, max int) []push.Code {
	return push.Linearize(sp.SpawnGenome(min, max))
}
