package order

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Position status constants
const (
	PositionStatusOpen   = "OPEN"
	PositionStatusClosed = "CLOSED"
)

var (
	ErrPositionNotFound      = errors.New("no open position for token")
	ErrPositionAlreadyExists = errors.New("position already open for token")
)

// Position tracks one token holding from entry to exit.
type Position struct {
	ID           string     `json:"id"`
	Symbol       string     `json:"symbol"`
	TokenAddress string     `json:"token_address"`
	Mode         string     `json:"mode"`
	AmountSol    float64    `json:"amount_sol"`
	EntryMcap    float64    `json:"entry_mcap"`
	ExitMcap     float64    `json:"exit_mcap,omitempty"`
	Status       string     `json:"status"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// Ledger tracks open positions in memory, keyed by token address. It also
// remembers the last sell time per token for the post-sell cooldown.
type Ledger struct {
	mu       sync.RWMutex
	open     map[string]*Position
	lastSell map[string]time.Time
	logger   zerolog.Logger
	now      func() time.Time
}

func NewLedger(logger zerolog.Logger) *Ledger {
	return &Ledger{
		open:     make(map[string]*Position),
		lastSell: make(map[string]time.Time),
		logger:   logger.With().Str("component", "Ledger").Logger(),
		now:      time.Now,
	}
}

// Open records a new position. A token can hold at most one open position.
func (l *Ledger) Open(symbol, tokenAddress, mode string, amountSol, entryMcap float64) (*Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.open[tokenAddress]; exists {
		return nil, ErrPositionAlreadyExists
	}

	p := &Position{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		TokenAddress: tokenAddress,
		Mode:         mode,
		AmountSol:    amountSol,
		EntryMcap:    entryMcap,
		Status:       PositionStatusOpen,
		OpenedAt:     l.now(),
	}
	l.open[tokenAddress] = p

	l.logger.Info().
		Str("symbol", symbol).
		Str("token", tokenAddress).
		Str("mode", mode).
		Float64("amount_sol", amountSol).
		Msg("Position opened")

	return p, nil
}

// Close closes the open position for a token and starts its sell cooldown.
func (l *Ledger) Close(tokenAddress string, exitMcap float64) (*Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, exists := l.open[tokenAddress]
	if !exists {
		return nil, ErrPositionNotFound
	}

	now := l.now()
	p.Status = PositionStatusClosed
	p.ExitMcap = exitMcap
	p.ClosedAt = &now
	delete(l.open, tokenAddress)
	l.lastSell[tokenAddress] = now

	l.logger.Info().
		Str("symbol", p.Symbol).
		Str("token", tokenAddress).
		Float64("entry_mcap", p.EntryMcap).
		Float64("exit_mcap", exitMcap).
		Msg("Position closed")

	return p, nil
}

// HasOpen reports whether a token has an open position.
func (l *Ledger) HasOpen(tokenAddress string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.open[tokenAddress]
	return ok
}

// OpenCount returns the number of open positions.
func (l *Ledger) OpenCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.open)
}

// OpenPositions returns a snapshot of all open positions.
func (l *Ledger) OpenPositions() []Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Position, 0, len(l.open))
	for _, p := range l.open {
		out = append(out, *p)
	}
	return out
}

// InCooldown reports whether a token was sold within the cooldown window.
func (l *Ledger) InCooldown(tokenAddress string, cooldown time.Duration) bool {
	if cooldown <= 0 {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	last, ok := l.lastSell[tokenAddress]
	if !ok {
		return false
	}
	return l.now().Sub(last) < cooldown
}
