package hotel

import "strings"

// DefaultPageSize mirrors the listing page length of the search UI.
const DefaultPageSize = 5

type SortOption string

const (
	SortByNewest    SortOption = ""
	SortByStars     SortOption = "starRating"
	SortByPriceAsc  SortOption = "pricePerNightAsc"
	SortByPriceDesc SortOption = "pricePerNightDesc"
)

type SearchParams struct {
	// Destination is matched case-insensitively against city, country,
	// name, description, type and facilities.
	Destination string
	MinAdults   int
	MinChildren int
	// Facilities must all be present; Types and Stars match any.
	Facilities []string
	Types      []string
	Stars      []int
	MaxPrice   float64
	Sort       SortOption
	Page       int
	PageSize   int
}

// Normalized fills defaults so stores can rely on sane paging values.
func (p SearchParams) Normalized() SearchParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	p.Destination = strings.TrimSpace(p.Destination)
	return p
}

type SearchResult struct {
	Hotels []*Hotel
	Total  int
	Page   int
	Pages  int
}

// Matches applies every non-paging filter; stores that cannot push the
// filters down (the in-memory one) evaluate candidates with it.
func (p SearchParams) Matches(h *Hotel) bool {
	if p.Destination != "" && !matchDestination(h, p.Destination) {
		return false
	}
	if p.MinAdults > 0 && h.Capacity.Adults < p.MinAdults {
		return false
	}
	if p.MinChildren > 0 && h.Capacity.Children < p.MinChildren {
		return false
	}
	for _, facility := range p.Facilities {
		if !containsFold(h.Facilities, facility) {
			return false
		}
	}
	if len(p.Types) > 0 && !containsFold(p.Types, h.Type) {
		return false
	}
	if len(p.Stars) > 0 {
		matched := false
		for _, s := range p.Stars {
			if h.StarRating == s {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if p.MaxPrice > 0 && h.PricePerNight > p.MaxPrice {
		return false
	}
	return true
}

func matchDestination(h *Hotel, query string) bool {
	query = strings.ToLower(query)
	fields := []string{h.City, h.Country, h.Name, h.Description, h.Type}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	for _, f := range h.Facilities {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}
