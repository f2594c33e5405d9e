package dto

import (
	"time"

	"stayfinder/internal/domain/availability"
	domainhotel "stayfinder/internal/domain/hotel"
)

type Capacity struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type Hotel struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Facilities    []string  `json:"facilities"`
	PricePerNight float64   `json:"pricePerNight"`
	StarRating    int       `json:"starRating"`
	Capacity      Capacity  `json:"capacity"`
	ImageURLs     []string  `json:"imageUrls"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func MapHotel(h *domainhotel.Hotel) Hotel {
	return Hotel{
		ID:            string(h.ID),
		Name:          h.Name,
		City:          h.City,
		Country:       h.Country,
		Description:   h.Description,
		Type:          h.Type,
		Facilities:    h.Facilities,
		PricePerNight: h.PricePerNight,
		StarRating:    h.StarRating,
		Capacity:      Capacity{Adults: h.Capacity.Adults, Children: h.Capacity.Children},
		ImageURLs:     h.ImageURLs,
		LastUpdated:   h.LastUpdated,
	}
}

func MapHotels(hs []*domainhotel.Hotel) []Hotel {
	out := make([]Hotel, 0, len(hs))
	for _, h := range hs {
		out = append(out, MapHotel(h))
	}
	return out
}

// HotelDetail optionally embeds the availability breakdown when the client
// asked for a date range.
type HotelDetail struct {
	Hotel
	Availability *availability.Breakdown `json:"availability,omitempty"`
}

type HotelSearchResponse struct {
	Data       []Hotel    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// HotelWithOwner is the back-office listing row.
type HotelWithOwner struct {
	Hotel
	Owner *UserProfile `json:"owner,omitempty"`
}
