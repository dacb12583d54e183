package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/config"
	"github.com/ginjaninja78/seller-recon/internal/types"
)

// SkippedRecord is a record dropped under the skip policy.
type SkippedRecord struct {
	Record types.Record
	Err    *types.AggregationError
}

// AggregateSKUs consolidates one record's comma-separated SKU and Quantity
// lists. Duplicate SKUs are emitted once, at the position they were first
// seen, with their quantities summed.
//
// EXAMPLE:
//   sku: "A,B,A", quantity: "2,3,1"  ->  "A,B", "3,3"
func AggregateSKUs(sku, quantity string) (string, string, error) {
	if strings.TrimSpace(sku) == "" {
		return "", "", nil
	}

	skus := strings.Split(sku, ",")
	qtys := strings.Split(quantity, ",")
	if len(skus) != len(qtys) {
		return "", "", fmt.Errorf("%d SKU(s) but %d quantity token(s)", len(skus), len(qtys))
	}

	var order []string
	totals := make(map[string]int, len(skus))

	for i, raw := range skus {
		token := strings.TrimSpace(raw)

		n, err := strconv.Atoi(strings.TrimSpace(qtys[i]))
		if err != nil {
			return "", "", fmt.Errorf("quantity %q for SKU %q is not an integer", strings.TrimSpace(qtys[i]), token)
		}

		if _, seen := totals[token]; !seen {
			order = append(order, token)
		}
		totals[token] += n
	}

	sums := make([]string, len(order))
	for i, token := range order {
		sums[i] = strconv.Itoa(totals[token])
	}

	return strings.Join(order, ","), strings.Join(sums, ","), nil
}

// AggregateLineItems applies AggregateSKUs to every record.
//
// Under config.OnMalformedFail the first malformed record aborts with a
// *types.AggregationError. Under config.OnMalformedSkip malformed records are
// left out of the returned dataset and listed in the skipped slice.
func AggregateLineItems(ds *types.Dataset, policy string) (*types.Dataset, []SkippedRecord, error) {
	if ds == nil {
		return &types.Dataset{}, nil, nil
	}

	out := make([]types.Record, 0, len(ds.Records))
	var skipped []SkippedRecord

	for _, r := range ds.Records {
		sku, qty, err := AggregateSKUs(r.SKU, r.Quantity)
		if err != nil {
			aggErr := &types.AggregationError{
				OrderNumber: r.OrderNumber,
				SourceFile:  r.SourceFile,
				SourceRow:   r.SourceRow,
				Reason:      "malformed line items",
				Err:         err,
			}
			if policy == config.OnMalformedSkip {
				skipped = append(skipped, SkippedRecord{Record: r, Err: aggErr})
				continue
			}
			return nil, nil, aggErr
		}

		r.SKU = sku
		r.Quantity = qty
		out = append(out, r)
	}

	return ds.WithRecords(out), skipped, nil
}
