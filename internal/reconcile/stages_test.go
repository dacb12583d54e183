package reconcile

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/ginjaninja78/seller-recon/internal/config"
	"github.com/ginjaninja78/seller-recon/internal/types"
)

func dataset(records ...types.Record) *types.Dataset {
	return &types.Dataset{Records: records}
}

// =============================================================================
// FILTER / SORT
// =============================================================================

func TestMatchesShipping(t *testing.T) {
	keywords := config.DefaultShippingKeywords

	tests := []struct {
		label string
		want  bool
	}{
		{"Others (West Malaysia)", true},
		{"SELLER OWN FLEET", true},
		{"Non-Shopee Logistics", true},
		{"Standard Delivery", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := MatchesShipping(tt.label, keywords); got != tt.want {
			t.Errorf("MatchesShipping(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestFilterAndSort_LexicalStable(t *testing.T) {
	in := dataset(
		types.Record{SellerID: "S2", OrderNumber: "1", ShippingInfo: "Others"},
		types.Record{SellerID: "S1", OrderNumber: "2", ShippingInfo: "Standard Delivery"},
		types.Record{SellerID: "S1", OrderNumber: "3", ShippingInfo: "seller"},
		types.Record{SellerID: "S2", OrderNumber: "4", ShippingInfo: "non-shopee"},
		types.Record{SellerID: "S1", OrderNumber: "5", ShippingInfo: "OTHERS"},
		types.Record{SellerID: "S0", OrderNumber: "6", ShippingInfo: ""},
	)

	out := FilterAndSort(in, config.DefaultShippingKeywords)

	var got []string
	for _, r := range out.Records {
		got = append(got, r.SellerID+"/"+r.OrderNumber)
		if !MatchesShipping(r.ShippingInfo, config.DefaultShippingKeywords) {
			t.Errorf("record %s does not match the predicate", r.OrderNumber)
		}
	}

	if want := "S1/3,S1/5,S2/1,S2/4"; strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}

	if in.Records[0].OrderNumber != "1" || len(in.Records) != 6 {
		t.Error("input dataset was modified")
	}
}

func TestFilterAndSort_Numeric(t *testing.T) {
	in := dataset(
		types.Record{SellerID: "100", OrderNumber: "a", ShippingInfo: "Others"},
		types.Record{SellerID: "20", OrderNumber: "b", ShippingInfo: "Others"},
		types.Record{SellerID: "3", OrderNumber: "c", ShippingInfo: "Others"},
	)

	out := FilterAndSort(in, config.DefaultShippingKeywords)

	var got []string
	for _, r := range out.Records {
		got = append(got, r.SellerID)
	}
	if strings.Join(got, ",") != "3,20,100" {
		t.Errorf("numeric order = %v, want [3 20 100]", got)
	}
}

func TestFilterAndSort_MixedFallsBackToLexical(t *testing.T) {
	in := dataset(
		types.Record{SellerID: "20", ShippingInfo: "Others"},
		types.Record{SellerID: "S1", ShippingInfo: "Others"},
		types.Record{SellerID: "100", ShippingInfo: "Others"},
	)

	out := FilterAndSort(in, config.DefaultShippingKeywords)

	var got []string
	for _, r := range out.Records {
		got = append(got, r.SellerID)
	}
	if strings.Join(got, ",") != "100,20,S1" {
		t.Errorf("lexical order = %v, want [100 20 S1]", got)
	}
}

func TestFilterAndSort_Nil(t *testing.T) {
	if out := FilterAndSort(nil, config.DefaultShippingKeywords); out.Len() != 0 {
		t.Errorf("Expected empty dataset, got %d", out.Len())
	}
}

// =============================================================================
// FIELD DERIVER
// =============================================================================

func TestPostcode(t *testing.T) {
	tests := map[string]string{
		"No.12 Jalan ABC 54321": "54321",
		"A1":                    "A1",
		"12345":                 "12345",
		"":                      "",
		"Kampung Baharu 五零三零零": "五零三零零",
	}

	for address, want := range tests {
		if got := Postcode(address); got != want {
			t.Errorf("Postcode(%q) = %q, want %q", address, got, want)
		}
	}
}

func TestDerivePostcode(t *testing.T) {
	in := dataset(
		types.Record{OrderNumber: "1", Fields: map[string]string{types.ColAddress: "No.12 Jalan ABC 54321"}},
		types.Record{OrderNumber: "2", Fields: map[string]string{}},
	)

	out := DerivePostcode(in)

	if out.Records[0].Address != "No.12 Jalan ABC 54321" || out.Records[0].Postcode != "54321" {
		t.Errorf("record 1 = %q/%q", out.Records[0].Address, out.Records[0].Postcode)
	}
	if out.Records[1].Address != "" || out.Records[1].Postcode != "" {
		t.Errorf("record 2 = %q/%q, want empty", out.Records[1].Address, out.Records[1].Postcode)
	}
	if in.Records[0].Postcode != "" {
		t.Error("input dataset was modified")
	}
}

// =============================================================================
// LINE-ITEM AGGREGATOR
// =============================================================================

func TestAggregateSKUs(t *testing.T) {
	tests := []struct {
		name             string
		sku, qty         string
		wantSKU, wantQty string
	}{
		{"duplicate summed at first position", "A,B,A", "2,3,1", "A,B", "3,3"},
		{"single", "A", "4", "A", "4"},
		{"whitespace trimmed", " A , B ,A", "1, 2 ,3", "A,B", "4,2"},
		{"all same", "X,X,X", "1,1,1", "X", "3"},
		{"empty sku", "", "", "", ""},
		{"empty sku ignores quantity", "  ", "5", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sku, qty, err := AggregateSKUs(tt.sku, tt.qty)
			if err != nil {
				t.Fatalf("AggregateSKUs returned error: %v", err)
			}
			if sku != tt.wantSKU || qty != tt.wantQty {
				t.Errorf("AggregateSKUs(%q, %q) = %q, %q; want %q, %q", tt.sku, tt.qty, sku, qty, tt.wantSKU, tt.wantQty)
			}
		})
	}
}

func TestAggregateSKUs_Malformed(t *testing.T) {
	tests := []struct{ sku, qty string }{
		{"A,B", "1"},
		{"A", "1,2"},
		{"A,B", "1,two"},
		{"A", "1.5"},
		{"A", ""},
	}

	for _, tt := range tests {
		if _, _, err := AggregateSKUs(tt.sku, tt.qty); err == nil {
			t.Errorf("AggregateSKUs(%q, %q) expected error", tt.sku, tt.qty)
		}
	}
}

func TestAggregateSKUs_PreservesTotals(t *testing.T) {
	inputs := []struct{ sku, qty string }{
		{"A,B,A,C,B", "1,2,3,4,5"},
		{"Z,Y,X,Y,Z", "10,0,7,-2,1"},
	}

	for _, in := range inputs {
		before := totalsBySKU(t, in.sku, in.qty)

		sku, qty, err := AggregateSKUs(in.sku, in.qty)
		if err != nil {
			t.Fatalf("AggregateSKUs returned error: %v", err)
		}

		seen := map[string]bool{}
		for _, s := range strings.Split(sku, ",") {
			if seen[s] {
				t.Errorf("duplicate SKU %q in %q", s, sku)
			}
			seen[s] = true
		}

		after := totalsBySKU(t, sku, qty)
		for s, n := range before {
			if after[s] != n {
				t.Errorf("SKU %s total = %d, want %d", s, after[s], n)
			}
		}
	}
}

func totalsBySKU(t *testing.T, sku, qty string) map[string]int {
	t.Helper()
	skus := strings.Split(sku, ",")
	qtys := strings.Split(qty, ",")
	totals := map[string]int{}
	for i := range skus {
		n, err := strconv.Atoi(strings.TrimSpace(qtys[i]))
		if err != nil {
			t.Fatalf("bad fixture quantity %q", qtys[i])
		}
		totals[strings.TrimSpace(skus[i])] += n
	}
	return totals
}

func TestAggregateLineItems_FailFast(t *testing.T) {
	in := dataset(
		types.Record{OrderNumber: "OK1", SKU: "A,A", Quantity: "1,1"},
		types.Record{OrderNumber: "BAD1", SKU: "A,B", Quantity: "1", SourceFile: "a.xlsx", SourceRow: 4},
	)

	_, _, err := AggregateLineItems(in, config.OnMalformedFail)

	var aggErr *types.AggregationError
	if !errors.As(err, &aggErr) {
		t.Fatalf("Expected AggregationError, got %v", err)
	}
	if aggErr.OrderNumber != "BAD1" {
		t.Errorf("OrderNumber = %q, want BAD1", aggErr.OrderNumber)
	}
	if !strings.Contains(err.Error(), "BAD1") || !strings.Contains(err.Error(), "a.xlsx row 4") {
		t.Errorf("error does not identify the record: %v", err)
	}
}

func TestAggregateLineItems_Skip(t *testing.T) {
	in := dataset(
		types.Record{OrderNumber: "OK1", SKU: "A,B,A", Quantity: "2,3,1"},
		types.Record{OrderNumber: "BAD1", SKU: "A", Quantity: "x"},
		types.Record{OrderNumber: "OK2", SKU: "", Quantity: ""},
	)

	out, skipped, err := AggregateLineItems(in, config.OnMalformedSkip)
	if err != nil {
		t.Fatalf("AggregateLineItems returned error: %v", err)
	}

	if out.Len() != 2 || out.Records[0].OrderNumber != "OK1" || out.Records[1].OrderNumber != "OK2" {
		t.Errorf("kept records = %+v", out.Records)
	}
	if out.Records[0].SKU != "A,B" || out.Records[0].Quantity != "3,3" {
		t.Errorf("aggregated = %q/%q", out.Records[0].SKU, out.Records[0].Quantity)
	}
	if len(skipped) != 1 || skipped[0].Err.OrderNumber != "BAD1" {
		t.Errorf("skipped = %+v", skipped)
	}
	if in.Records[0].SKU != "A,B,A" {
		t.Error("input dataset was modified")
	}
}

// =============================================================================
// PHONE NORMALIZER
// =============================================================================

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"0123456789":      "60123456789",
		"6001234567":      "601234567",
		"60112345678":     "60112345678",
		"  0123456789  ":  "60123456789",
		"123456789":       "60123456789",
		"":                "60",
		"not a number":    "60not a number",
		"600":             "60",
		"+60 12-345 6789": "60+60 12-345 6789",
	}

	for in, want := range tests {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhone_IdempotentOnCanonical(t *testing.T) {
	for _, in := range []string{"60112345678", "601", "6019 999"} {
		once := NormalizePhone(in)
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizePhones(t *testing.T) {
	in := dataset(types.Record{Phone: "0123456789"}, types.Record{Phone: "60112345678"})

	out := NormalizePhones(in)

	if out.Records[0].Phone != "60123456789" || out.Records[1].Phone != "60112345678" {
		t.Errorf("phones = %q, %q", out.Records[0].Phone, out.Records[1].Phone)
	}
	if in.Records[0].Phone != "0123456789" {
		t.Error("input dataset was modified")
	}
}
