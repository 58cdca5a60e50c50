package feed

// RawOffer is one offer element as read from the feed, before validation.
// Every scalar field except the id may be absent in the source document.
type RawOffer struct {
	// ID is the external identifier from the offer's id attribute.
	ID string
	// Available reflects the offer's availability attribute.
	// nil means the attribute was not present in the source.
	Available   *bool
	Price       *float64
	OldPrice    *float64
	Currency    *string
	CategoryID  *int
	Name        *string
	Description *string
	Vendor      *string
	VendorCode  *string
}

// allowedCurrencies is the fixed set of currency codes the feed may carry.
// Codes outside the set are dropped from the offer with a warning.
var allowedCurrencies = map[string]struct{}{
	"UAH": {},
	"USD": {},
	"EUR": {},
	"RUB": {},
	"BYR": {},
	"KZT": {},
}
