package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
	domainuser "stayfinder/internal/domain/user"
)

// HotelRepository stores hotels in memory. Used for tests and local runs.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[domainhotel.ID]*domainhotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[domainhotel.ID]*domainhotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrNotFound
	}
	return cloneHotel(h), nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[h.ID] = cloneHotel(h)
	return nil
}

func (r *HotelRepository) Delete(ctx context.Context, id domainhotel.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainhotel.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *HotelRepository) ListAll(ctx context.Context) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		out = append(out, cloneHotel(h))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out, nil
}

func (r *HotelRepository) ListByOwner(ctx context.Context, ownerID domainuser.ID) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainhotel.Hotel
	for _, h := range r.items {
		if h.OwnerID == ownerID {
			out = append(out, cloneHotel(h))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out, nil
}

func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) (domainhotel.SearchResult, error) {
	opts := params.Normalized()

	r.mu.RLock()
	matches := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		if opts.Matches(h) {
			matches = append(matches, cloneHotel(h))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		switch opts.Sort {
		case domainhotel.SortByStars:
			return matches[i].StarRating > matches[j].StarRating
		case domainhotel.SortByPriceAsc:
			return matches[i].PricePerNight < matches[j].PricePerNight
		case domainhotel.SortByPriceDesc:
			return matches[i].PricePerNight > matches[j].PricePerNight
		default:
			return matches[i].LastUpdated.After(matches[j].LastUpdated)
		}
	})

	total := len(matches)
	pages := (total + opts.PageSize - 1) / opts.PageSize
	start := (opts.Page - 1) * opts.PageSize
	if start > total {
		start = total
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}
	return domainhotel.SearchResult{
		Hotels: matches[start:end],
		Total:  total,
		Page:   opts.Page,
		Pages:  pages,
	}, nil
}

// BookingRepository keeps the booking ledger in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Append(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) Remove(ctx context.Context, id domainbooking.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *BookingRepository) Overlapping(ctx context.Context, hotelID domainhotel.ID, dr daterange.DateRange) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.HotelID == hotelID && b.Range.Overlaps(dr) {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.UserID == userID {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.HotelID == hotelID {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out, nil
}

func sortBookings(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Range.CheckIn.Equal(items[j].Range.CheckIn) {
			return items[i].ID < items[j].ID
		}
		return items[i].Range.CheckIn.Before(items[j].Range.CheckIn)
	})
}

func cloneHotel(h *domainhotel.Hotel) *domainhotel.Hotel {
	copied := *h
	copied.Facilities = append([]string(nil), h.Facilities...)
	copied.ImageURLs = append([]string(nil), h.ImageURLs...)
	return &copied
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	copied := *b
	return &copied
}
