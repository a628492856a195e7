// Package instrument keeps the broker's authoritative quote precision per
// instrument.
package instrument

import (
	"context"
	"fmt"
	"sync"

	"github.com/Alias1177/fxscalper/internal/utils"
)

// Source lists instrument name to display precision
type Source interface {
	Instruments(ctx context.Context) (map[string]int, error)
}

// PrecisionTable answers DecimalsFor from the loaded table and falls back
// to the yen heuristic for instruments it does not know.
type PrecisionTable struct {
	mu       sync.RWMutex
	decimals map[string]int
}

func NewPrecisionTable() *PrecisionTable {
	return &PrecisionTable{decimals: make(map[string]int)}
}

// Load replaces the table with what the source reports
func (p *PrecisionTable) Load(ctx context.Context, src Source) (int, error) {
	table, err := src.Instruments(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading instrument precision: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decimals = make(map[string]int, len(table))
	for name, d := range table {
		if d < 0 {
			continue
		}
		p.decimals[utils.NormalizeSymbol(name)] = d
	}
	return len(p.decimals), nil
}

// Set records the precision of a single instrument
func (p *PrecisionTable) Set(symbol string, decimals int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decimals[utils.NormalizeSymbol(symbol)] = decimals
}

func (p *PrecisionTable) DecimalsFor(symbol string) int {
	p.mu.RLock()
	d, ok := p.decimals[utils.NormalizeSymbol(symbol)]
	p.mu.RUnlock()
	if ok {
		return d
	}
	return utils.HeuristicDecimals(symbol)
}
