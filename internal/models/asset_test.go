package models

import (
	"encoding/json"
	"testing"
)

func TestFlexFloat_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"number", `42000.5`, 42000.5, false},
		{"quoted number", `"42000.50"`, 42000.5, false},
		{"negative quoted", `"-3.25"`, -3.25, false},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"garbage", `"abc"`, 0, true},
		{"nan string", `"NaN"`, 0, true},
		{"inf string", `"+Inf"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if float64(f) != tt.want {
				t.Errorf("expected %v, got %v", tt.want, float64(f))
			}
		})
	}
}

func TestAsset_UnmarshalStringPrice(t *testing.T) {
	payload := `{"id":3,"symbol":"BTC","name":"Bitcoin","asset_type":"CRYPTO","latest_price":"42000.50","change_24h":"2.0"}`

	var a Asset
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a.Price() != 42000.50 {
		t.Errorf("expected price 42000.50, got %v", a.Price())
	}
	if float64(a.Change24h) != 2.0 {
		t.Errorf("expected change 2.0, got %v", a.Change24h)
	}
}

func TestAsset_NullPrice(t *testing.T) {
	payload := `{"id":4,"symbol":"NEW","name":"New Listing","asset_type":"CRYPTO","latest_price":null,"change_24h":0}`

	var a Asset
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a.LatestPrice != nil {
		t.Error("expected nil latest price for null")
	}
	if a.Price() != 0 {
		t.Errorf("expected zero price fallback, got %v", a.Price())
	}
}

func TestAssetTypeForExchange(t *testing.T) {
	tests := []struct {
		exchange string
		want     AssetType
	}{
		{"DSE", AssetTypeStockDSE},
		{"dse", AssetTypeStockDSE},
		{"NYSE", AssetTypeStockGlobal},
		{"NASDAQ", AssetTypeStockGlobal},
		{"LSE", AssetTypeStockGlobal},
	}
	for _, tt := range tests {
		if got := AssetTypeForExchange(tt.exchange); got != tt.want {
			t.Errorf("AssetTypeForExchange(%s) = %s, want %s", tt.exchange, got, tt.want)
		}
	}
}

func TestValidExchange(t *testing.T) {
	for _, e := range StockExchanges {
		if !ValidExchange(e) {
			t.Errorf("expected %s to be valid", e)
		}
	}
	if ValidExchange("ASX") {
		t.Error("ASX is not a selectable exchange")
	}
}

func TestValidPeriod(t *testing.T) {
	for _, p := range []Period{Period1D, Period5D, Period1Mo, Period1Y, Period5Y, PeriodMax} {
		if !ValidPeriod(p) {
			t.Errorf("expected %s to be valid", p)
		}
	}
	if ValidPeriod("2w") {
		t.Error("2w is not a recognised period")
	}
}

func TestPriceSeries_SortChronological(t *testing.T) {
	s := PriceSeries{
		{Time: "2024-01-02T00:00:00", Value: 2},
		{Time: "2024-01-01T00:00:00", Value: 1},
		{Time: "2024-01-03T00:00:00", Value: 3},
	}

	s.SortChronological()

	if s[0].Time != "2024-01-01T00:00:00" || s[2].Time != "2024-01-03T00:00:00" {
		t.Errorf("series not chronological: %+v", s)
	}
}
