package field

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Provider produces count independent uniform values in [0,1).
// Implementations are interchangeable; the pipeline consumes them
// through this contract only.
type Provider interface {
	Name() string
	Generate(count int) ([]float64, error)
}

// Local draws from a seeded PCG source through gonum's uniform
// distribution. Deterministic for a fixed seed, which the reproducibility
// tests rely on.
type Local struct {
	src *rand.PCG
}

func NewLocal(seed uint64) *Local {
	return &Local{src: rand.NewPCG(seed, seed)}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Generate(count int) ([]float64, error) {
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: l.src}
	out := make([]float64, count)
	for i := range out {
		out[i] = uniform.Rand()
	}
	return out, nil
}

// ChaCha8 draws from the vectorized ChaCha8 generator, keyed once from
// the operating system entropy pool.
type ChaCha8 struct {
	rng *rand.ChaCha8
}

func NewChaCha8() (*ChaCha8, error) {
	var key [32]byte
	if _, err := cryptorand.Read(key[:]); err != nil {
		return nil, errors.Wrap(err, "key chacha8")
	}
	return &ChaCha8{rng: rand.NewChaCha8(key)}, nil
}

func (c *ChaCha8) Name() string { return "chacha8" }

func (c *ChaCha8) Generate(count int) ([]float64, error) {
	out := make([]float64, count)
	for i := range out {
		out[i] = float64(c.rng.Uint64()>>11) / (1 << 53)
	}
	return out, nil
}

// Entropy draws every value straight from the operating system entropy
// pool in a single read.
type Entropy struct{}

func (Entropy) Name() string { return "entropy" }

func (Entropy) Generate(count int) ([]float64, error) {
	buf := make([]byte, count*8)
	if _, err := cryptorand.Read(buf); err != nil {
		return nil, errors.Wrap(err, "read entropy")
	}
	out := make([]float64, count)
	for i := range out {
		u := binary.LittleEndian.Uint64(buf[i*8:])
		out[i] = float64(u>>11) / (1 << 53)
	}
	return out, nil
}

// Timing is the elapsed wall time of one provider invocation.
type Timing struct {
	Provider string
	Count    int
	Elapsed  time.Duration
}

// Measure times each provider generating count values. Providers run one
// after another so none contend for a shared source while being timed.
func Measure(providers []Provider, count int) ([]Timing, error) {
	timings := make([]Timing, 0, len(providers))
	for _, p := range providers {
		start := time.Now()
		if _, err := p.Generate(count); err != nil {
			return nil, errors.Wrapf(err, "measure %s", p.Name())
		}
		timings = append(timings, Timing{
			Provider: p.Name(),
			Count:    count,
			Elapsed:  time.Since(start),
		})
	}
	return timings, nil
}
