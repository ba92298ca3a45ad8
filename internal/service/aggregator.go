package service

import "github.com/Dan9191/pocket-property/internal/models"

// FilterByStreet returns the listings on street. An empty street returns
// listings unchanged.
func FilterByStreet(listings []models.ResaleListing, street string) []models.ResaleListing {
	if street == "" {
		return listings
	}
	filtered := make([]models.ResaleListing, 0, len(listings))
	for _, l := range listings {
		if l.StreetName == street {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// AveragePrice is the mean resale price of the listings on street (all
// listings when street is empty). It is 0 when nothing matches.
func AveragePrice(listings []models.ResaleListing, street string) float64 {
	filtered := FilterByStreet(listings, street)
	if len(filtered) == 0 {
		return 0
	}
	var total float64
	for _, l := range filtered {
		total += l.ResalePrice
	}
	return total / float64(len(filtered))
}

// StreetNames lists the distinct street names in first-seen order
func StreetNames(listings []models.ResaleListing) []string {
	seen := make(map[string]struct{}, len(listings))
	names := make([]string, 0)
	for _, l := range listings {
		if _, ok := seen[l.StreetName]; ok {
			continue
		}
		seen[l.StreetName] = struct{}{}
		names = append(names, l.StreetName)
	}
	return names
}
