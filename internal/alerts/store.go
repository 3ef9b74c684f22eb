// Package alerts holds the session-local price alert store. Alerts live in
// memory only; they are not persisted across restarts.
package alerts

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Condition is the direction a price alert fires on.
type Condition string

const (
	ConditionAbove Condition = "above"
	ConditionBelow Condition = "below"
)

// ValidCondition returns true for above/below.
func ValidCondition(c Condition) bool {
	return c == ConditionAbove || c == ConditionBelow
}

// Alert is one user-created price alert.
type Alert struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Condition   Condition `json:"condition"`
	TargetPrice float64   `json:"target_price"`
	CreatedAt   time.Time `json:"created_at"`
}

// SymbolChecker reports whether a symbol references a known asset. Injected
// by the caller so the store does not depend on the market client.
type SymbolChecker func(symbol string) bool

// Store holds alerts in insertion order, which is also display order.
type Store struct {
	mu          sync.Mutex
	alerts      []Alert
	knownSymbol SymbolChecker
}

// NewStore creates an empty alert store. knownSymbol may be nil, in which
// case any non-empty symbol is accepted.
func NewStore(knownSymbol SymbolChecker) *Store {
	return &Store{knownSymbol: knownSymbol}
}

// Create appends a new alert with a fresh identifier and the current time.
// It rejects an unset or unknown symbol, an invalid condition, and a target
// price that is not a positive finite number.
func (s *Store) Create(symbol string, condition Condition, targetPrice float64) (Alert, error) {
	if symbol == "" {
		return Alert{}, fmt.Errorf("alert symbol is required")
	}
	if !ValidCondition(condition) {
		return Alert{}, fmt.Errorf("invalid alert condition %q", condition)
	}
	if targetPrice <= 0 || math.IsNaN(targetPrice) || math.IsInf(targetPrice, 0) {
		return Alert{}, fmt.Errorf("alert target price must be a positive number")
	}
	if s.knownSymbol != nil && !s.knownSymbol(symbol) {
		return Alert{}, fmt.Errorf("unknown asset symbol %q", symbol)
	}

	alert := Alert{
		ID:          uuid.New().String(),
		Symbol:      symbol,
		Condition:   condition,
		TargetPrice: targetPrice,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.alerts = append(s.alerts, alert)
	s.mu.Unlock()

	return alert, nil
}

// Delete removes the alert with the given identifier. Deleting an unknown id
// is a no-op. The relative order of the remaining alerts is unchanged.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return
		}
	}
}

// List returns the alerts in creation order.
func (s *Store) List() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}
