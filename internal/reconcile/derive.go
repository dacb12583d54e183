package reconcile

import (
	"github.com/ginjaninja78/seller-recon/internal/types"
)

// postcodeLength is the length of a Malaysian postcode.
const postcodeLength = 5

// Postcode returns the last five characters of the address, or the whole
// address when it is shorter.
func Postcode(address string) string {
	runes := []rune(address)
	if len(runes) <= postcodeLength {
		return address
	}
	return string(runes[len(runes)-postcodeLength:])
}

// DerivePostcode promotes the ingested address column to Record.Address and
// sets Postcode from it.
func DerivePostcode(ds *types.Dataset) *types.Dataset {
	if ds == nil {
		return &types.Dataset{}
	}

	out := make([]types.Record, len(ds.Records))
	for i, r := range ds.Records {
		r.Address = r.Fields[types.ColAddress]
		r.Postcode = Postcode(r.Address)
		out[i] = r
	}

	return ds.WithRecords(out)
}
