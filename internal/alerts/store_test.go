package alerts

import (
	"math"
	"testing"
)

func knownSymbols(symbols ...string) SymbolChecker {
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[s] = true
	}
	return func(symbol string) bool { return set[symbol] }
}

func TestCreate_Valid(t *testing.T) {
	s := NewStore(knownSymbols("BTC", "ETH"))

	alert, err := s.Create("BTC", ConditionAbove, 50000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if alert.ID == "" {
		t.Error("expected a fresh identifier")
	}
	if alert.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
	if alert.Symbol != "BTC" || alert.Condition != ConditionAbove || alert.TargetPrice != 50000 {
		t.Errorf("unexpected alert fields: %+v", alert)
	}
}

func TestCreate_Rejections(t *testing.T) {
	s := NewStore(knownSymbols("BTC"))

	tests := []struct {
		name      string
		symbol    string
		condition Condition
		target    float64
	}{
		{"empty symbol", "", ConditionAbove, 1},
		{"unknown symbol", "DOGE", ConditionAbove, 1},
		{"bad condition", "BTC", Condition("sideways"), 1},
		{"zero target", "BTC", ConditionBelow, 0},
		{"negative target", "BTC", ConditionBelow, -5},
		{"nan target", "BTC", ConditionAbove, math.NaN()},
		{"inf target", "BTC", ConditionAbove, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(tt.symbol, tt.condition, tt.target); err == nil {
				t.Errorf("expected rejection for %s", tt.name)
			}
		})
	}

	if len(s.List()) != 0 {
		t.Error("rejected alerts must not be stored")
	}
}

func TestCreate_NilCheckerAcceptsAnySymbol(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.Create("ANYTHING", ConditionBelow, 10); err != nil {
		t.Fatalf("nil checker should accept any non-empty symbol: %v", err)
	}
}

func TestDelete_PreservesOrder(t *testing.T) {
	s := NewStore(nil)
	a1, _ := s.Create("AAA", ConditionAbove, 1)
	a2, _ := s.Create("BBB", ConditionAbove, 2)
	a3, _ := s.Create("CCC", ConditionAbove, 3)

	s.Delete(a2.ID)

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(list))
	}
	if list[0].ID != a1.ID || list[1].ID != a3.ID {
		t.Error("remaining alerts must keep creation order")
	}
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	s := NewStore(nil)
	s.Create("AAA", ConditionAbove, 1)

	s.Delete("no-such-id")

	if len(s.List()) != 1 {
		t.Error("deleting an unknown id must not remove anything")
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Create("AAA", ConditionAbove, 1)

	list := s.List()
	list[0].Symbol = "MUTATED"

	if s.List()[0].Symbol != "AAA" {
		t.Error("List must return a copy")
	}
}
