package feed

import "feed-sync/feature/catalog/models"

// Validate converts a raw offer into a catalog candidate.
// It returns false when name, category id, or price is missing; secondary
// fields (old price, currency, description, vendor) pass through as-is.
func Validate(offer *RawOffer) (models.Candidate, bool) {
	if offer.Name == nil || offer.CategoryID == nil || offer.Price == nil {
		return models.Candidate{}, false
	}

	return models.Candidate{
		ExternalID:  offer.ID,
		Available:   offer.Available,
		CategoryID:  *offer.CategoryID,
		Name:        *offer.Name,
		Price:       *offer.Price,
		OldPrice:    offer.OldPrice,
		Currency:    offer.Currency,
		Description: offer.Description,
		Vendor:      offer.Vendor,
		VendorCode:  offer.VendorCode,
	}, true
}
