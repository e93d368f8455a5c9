package shop

import "strings"

// Category identifiers.
const (
	CategoryElectronics = "electronics"
	CategoryGrocery     = "grocery"
	CategoryFashion     = "fashion"
	CategoryHealth      = "health"
	CategorySports      = "sports"
	CategoryBooks       = "books"
	CategoryHome        = "home"
	CategoryToys        = "toys"
)

// UnknownCity is used when the address has no city part.
const UnknownCity = "Unknown"

type categoryRule struct {
	id       string
	label    string
	keywords []string
}

// Rules are checked in order; the first keyword hit wins.
var categoryRules = []categoryRule{
	{CategoryElectronics, "Electronics", []string{"gadget", "gear", "electronic", "phone", "laptop", "tech"}},
	{CategoryGrocery, "Grocery", []string{"fresh", "grocery", "food", "daily", "milk", "bread"}},
	{CategoryFashion, "Fashion", []string{"fashion", "thread", "cloth", "apparel", "dress"}},
	{CategoryHealth, "Health & Beauty", []string{"health", "beauty", "cosmetic", "salon", "spa"}},
	{CategorySports, "Sports", []string{"sport", "fitness", "active", "gym"}},
	{CategoryBooks, "Books", []string{"book", "reader", "paradise", "library", "stationery"}},
	{CategoryHome, "Home & Living", []string{"home", "furniture", "comfort", "living"}},
	{CategoryToys, "Toys & Games", []string{"toy", "game", "kids", "play"}},
}

// CategoryInfo describes a category for listing.
type CategoryInfo struct {
	ID    string
	Label string
}

// Categories returns all categories in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryRules))
	for i, r := range categoryRules {
		out[i] = CategoryInfo{ID: r.id, Label: r.label}
	}
	return out
}

// IsCategory reports whether id names a known category.
func IsCategory(id string) bool {
	for _, r := range categoryRules {
		if r.id == id {
			return true
		}
	}
	return false
}

// Categorize picks a category from name and description keywords, defaulting to grocery.
func Categorize(name, description string) string {
	text := strings.ToLower(name + " " + description)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.id
			}
		}
	}
	return CategoryGrocery
}

// ExtractCity returns the second comma-separated part of an address.
func ExtractCity(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) >= 2 {
		if city := strings.TrimSpace(parts[1]); city != "" {
			return city
		}
	}
	return UnknownCity
}
