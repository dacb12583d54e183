package reconcile

import (
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/types"
)

const (
	// canonicalPrefix starts every Malaysian mobile number in national
	// format with the country code.
	canonicalPrefix = "601"

	// doubledZeroPrefix is the country code followed by the trunk zero.
	doubledZeroPrefix = "600"

	countryCode = "60"
)

// NormalizePhone rewrites a phone number into the canonical "60..." form:
//
//   "601..." -> unchanged
//   "600..." -> "60" + the rest after "600" (trunk zero dropped)
//   other    -> "60" + the trimmed value
//
// The rule works on string prefixes only; no digits are validated.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	switch {
	case strings.HasPrefix(phone, canonicalPrefix):
		return phone
	case strings.HasPrefix(phone, doubledZeroPrefix):
		return countryCode + phone[len(doubledZeroPrefix):]
	default:
		return countryCode + phone
	}
}

// NormalizePhones applies NormalizePhone to every record.
func NormalizePhones(ds *types.Dataset) *types.Dataset {
	if ds == nil {
		return &types.Dataset{}
	}

	out := make([]types.Record, len(ds.Records))
	for i, r := range ds.Records {
		r.Phone = NormalizePhone(r.Phone)
		out[i] = r
	}

	return ds.WithRecords(out)
}
