package recommend

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

// Limit is how many hotels a recommendation response carries.
const Limit = 5

// Service implements the price-similarity recommender: hotels priced close
// to the one currently being viewed score highest. Without an anchor hotel
// it falls back to a random sample.
type Service struct {
	Hotels domainhotel.Repository
	Users  domainuser.Repository
	Logger *slog.Logger
}

// RecordClick appends the hotel to the user's click log. Unknown hotels are
// rejected; duplicate clicks are a no-op.
func (s *Service) RecordClick(ctx context.Context, userID domainuser.ID, hotelID domainhotel.ID) error {
	if _, err := s.Hotels.ByID(ctx, hotelID); err != nil {
		return err
	}
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.RecordClick(string(hotelID), time.Now()) {
		return nil
	}
	return s.Users.Save(ctx, u)
}

// ForHotel returns up to Limit hotels ranked by price similarity to the
// anchor. An empty or unknown anchor degrades to a random sample rather
// than an error.
func (s *Service) ForHotel(ctx context.Context, anchorID domainhotel.ID) ([]*domainhotel.Hotel, error) {
	all, err := s.Hotels.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	if anchorID == "" {
		return randomSample(all, Limit), nil
	}
	anchor, err := s.Hotels.ByID(ctx, anchorID)
	if err != nil {
		if errors.Is(err, domainhotel.ErrNotFound) {
			return randomSample(all, Limit), nil
		}
		return nil, err
	}
	return rankBySimilarity(all, anchor), nil
}

func rankBySimilarity(all []*domainhotel.Hotel, anchor *domainhotel.Hotel) []*domainhotel.Hotel {
	type scored struct {
		hotel      *domainhotel.Hotel
		similarity float64
	}
	ranked := make([]scored, 0, len(all))
	for _, h := range all {
		if h.ID == anchor.ID {
			continue
		}
		diff := math.Abs(h.PricePerNight - anchor.PricePerNight)
		similarity := math.Max(0, 100-diff/anchor.PricePerNight*100)
		ranked = append(ranked, scored{hotel: h, similarity: similarity})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].similarity > ranked[j].similarity
	})
	if len(ranked) > Limit {
		ranked = ranked[:Limit]
	}
	out := make([]*domainhotel.Hotel, len(ranked))
	for i, r := range ranked {
		out[i] = r.hotel
	}
	return out
}

func randomSample(all []*domainhotel.Hotel, n int) []*domainhotel.Hotel {
	shuffled := append([]*domainhotel.Hotel(nil), all...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}
