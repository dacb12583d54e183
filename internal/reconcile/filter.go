package reconcile

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/types"
)

// MatchesShipping reports whether the shipping label contains any keyword,
// ignoring case. An empty label never matches.
func MatchesShipping(label string, keywords []string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(label, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// FilterAndSort keeps the seller-shipped records and orders them by Seller
// ID. The sort is stable and numeric when every Seller ID is a number,
// lexical otherwise. Record fields are not modified.
func FilterAndSort(ds *types.Dataset, keywords []string) *types.Dataset {
	var kept []types.Record
	if ds != nil {
		for _, r := range ds.Records {
			if MatchesShipping(r.ShippingInfo, keywords) {
				kept = append(kept, r)
			}
		}
	}

	slices.SortStableFunc(kept, sellerIDComparator(kept))

	return ds.WithRecords(kept)
}

func sellerIDComparator(records []types.Record) func(a, b types.Record) int {
	numeric := make(map[string]float64, len(records))
	for _, r := range records {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.SellerID), 64)
		if err != nil {
			return func(a, b types.Record) int { return strings.Compare(a.SellerID, b.SellerID) }
		}
		numeric[r.SellerID] = v
	}

	return func(a, b types.Record) int { return cmp.Compare(numeric[a.SellerID], numeric[b.SellerID]) }
}
