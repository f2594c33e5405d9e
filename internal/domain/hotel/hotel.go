package hotel

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayfinder/internal/domain/user"
)

var (
	ErrNotFound        = errors.New("hotel: not found")
	ErrNameRequired    = errors.New("hotel: name is required")
	ErrCityRequired    = errors.New("hotel: city is required")
	ErrCountryRequired = errors.New("hotel: country is required")
	ErrOwnerRequired   = errors.New("hotel: owner is required")
	ErrInvalidPrice    = errors.New("hotel: price per night must be positive")
	ErrInvalidCapacity = errors.New("hotel: capacity requires at least one adult and no negative pools")
	ErrInvalidRating   = errors.New("hotel: star rating must be between 1 and 5")
)

type ID string

// Capacity is the fixed guest ceiling of a hotel, tracked as two pools.
// Adult and children capacity are enforced independently and also roll up
// into one combined pool.
type Capacity struct {
	Adults   int
	Children int
}

func (c Capacity) Validate() error {
	if c.Adults < 1 || c.Children < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// Total returns the combined pool size.
func (c Capacity) Total() int {
	return c.Adults + c.Children
}

type Hotel struct {
	ID            ID
	OwnerID       user.ID
	Name          string
	City          string
	Country       string
	Description   string
	Type          string
	Facilities    []string
	PricePerNight float64
	StarRating    int
	Capacity      Capacity
	ImageURLs     []string
	LastUpdated   time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Hotel, error)
	Save(ctx context.Context, hotel *Hotel) error
	Delete(ctx context.Context, id ID) error
	// ListAll returns every hotel, newest update first.
	ListAll(ctx context.Context) ([]*Hotel, error)
	ListByOwner(ctx context.Context, ownerID user.ID) ([]*Hotel, error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateParams struct {
	ID            ID
	OwnerID       user.ID
	Name          string
	City          string
	Country       string
	Description   string
	Type          string
	Facilities    []string
	PricePerNight float64
	StarRating    int
	Capacity      Capacity
	ImageURLs     []string
	Now           time.Time
}

func New(params CreateParams) (*Hotel, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("hotel: id is required")
	}
	if strings.TrimSpace(string(params.OwnerID)) == "" {
		return nil, ErrOwnerRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	city := strings.TrimSpace(params.City)
	if city == "" {
		return nil, ErrCityRequired
	}
	country := strings.TrimSpace(params.Country)
	if country == "" {
		return nil, ErrCountryRequired
	}
	if params.PricePerNight <= 0 {
		return nil, ErrInvalidPrice
	}
	if params.StarRating < 1 || params.StarRating > 5 {
		return nil, ErrInvalidRating
	}
	if err := params.Capacity.Validate(); err != nil {
		return nil, err
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Hotel{
		ID:            params.ID,
		OwnerID:       params.OwnerID,
		Name:          name,
		City:          city,
		Country:       country,
		Description:   strings.TrimSpace(params.Description),
		Type:          strings.TrimSpace(params.Type),
		Facilities:    append([]string(nil), params.Facilities...),
		PricePerNight: params.PricePerNight,
		StarRating:    params.StarRating,
		Capacity:      params.Capacity,
		ImageURLs:     append([]string(nil), params.ImageURLs...),
		LastUpdated:   now.UTC(),
	}, nil
}

type UpdateParams struct {
	Name          string
	City          string
	Country       string
	Description   string
	Type          string
	Facilities    []string
	PricePerNight float64
	StarRating    int
	Capacity      Capacity
	ImageURLs     []string
	Now           time.Time
}

// Apply replaces the editable fields. A capacity change takes effect for all
// future availability computations immediately, including against bookings
// admitted under the old capacity.
func (h *Hotel) Apply(params UpdateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(params.City) == "" {
		return ErrCityRequired
	}
	if strings.TrimSpace(params.Country) == "" {
		return ErrCountryRequired
	}
	if params.PricePerNight <= 0 {
		return ErrInvalidPrice
	}
	if params.StarRating < 1 || params.StarRating > 5 {
		return ErrInvalidRating
	}
	if err := params.Capacity.Validate(); err != nil {
		return err
	}
	h.Name = strings.TrimSpace(params.Name)
	h.City = strings.TrimSpace(params.City)
	h.Country = strings.TrimSpace(params.Country)
	h.Description = strings.TrimSpace(params.Description)
	h.Type = strings.TrimSpace(params.Type)
	h.Facilities = append([]string(nil), params.Facilities...)
	h.PricePerNight = params.PricePerNight
	h.StarRating = params.StarRating
	h.Capacity = params.Capacity
	h.ImageURLs = append([]string(nil), params.ImageURLs...)
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	h.LastUpdated = now.UTC()
	return nil
}

func (h *Hotel) OwnedBy(id user.ID) bool {
	return h.OwnerID == id
}

func (h *Hotel) AddImages(urls []string, now time.Time) {
	if len(urls) == 0 {
		return
	}
	h.ImageURLs = append(h.ImageURLs, urls...)
	if now.IsZero() {
		now = time.Now()
	}
	h.LastUpdated = now.UTC()
}
