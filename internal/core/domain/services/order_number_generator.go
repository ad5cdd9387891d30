package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"atelier/internal/core/domain/model/order"
)

// SequenceReader returns the highest order sequence stored for a year, or 0.
type SequenceReader interface {
	LatestSequence(ctx context.Context, year int) (int, error)
}

// SuffixSource produces the random tail of an order number.
type SuffixSource func() (string, error)

// OrderNumberGenerator issues ORD-<year>-<seq>-<suffix> numbers.
//
// The sequence is max(latest stored, last issued by this process) + 1, so
// concurrent generations inside one process never share a sequence. Between
// processes two creations may compute the same sequence; the random suffix
// keeps the full numbers apart and storage rejects the rare full collision.
type OrderNumberGenerator struct {
	mu         sync.Mutex
	lastIssued map[int]int
	suffix     SuffixSource
}

// NewOrderNumberGenerator creates a generator with crypto random suffixes.
// One generator should be shared per process.
func NewOrderNumberGenerator() *OrderNumberGenerator {
	return NewOrderNumberGeneratorWithSuffix(RandomSuffix)
}

// NewOrderNumberGeneratorWithSuffix replaces the suffix source, mainly so
// tests can force collisions.
func NewOrderNumberGeneratorWithSuffix(suffix SuffixSource) *OrderNumberGenerator {
	return &OrderNumberGenerator{lastIssued: map[int]int{}, suffix: suffix}
}

// Next issues the number for an order created at now.
//
// Returns:
//   - the next order.Number for now's UTC year
//   - any error from reader or the suffix source
//
// Example:
//
//	n, err := gen.Next(ctx, uow.OrderRepository(), now)
//	// n.String() == "ORD-2026-00013-K9Z"
func (g *OrderNumberGenerator) Next(ctx context.Context, reader SequenceReader, now time.Time) (order.Number, error) {
	year := now.UTC().Year()

	latest, err := reader.LatestSequence(ctx, year)
	if err != nil {
		return order.Number{}, err
	}

	suffix, err := g.suffix()
	if err != nil {
		return order.Number{}, err
	}

	g.mu.Lock()
	seq := max(latest, g.lastIssued[year]) + 1
	g.lastIssued[year] = seq
	g.mu.Unlock()

	return order.NewNumber(year, seq, suffix)
}

// RandomSuffix draws three characters from order.SuffixAlphabet with crypto/rand.
func RandomSuffix() (string, error) {
	alphabetLen := big.NewInt(int64(len(order.SuffixAlphabet)))
	out := make([]byte, 3)
	for i := range out {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		out[i] = order.SuffixAlphabet[n.Int64()]
	}
	return string(out), nil
}
