package hotels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

var ErrNotAllowed = errors.New("hotels: caller is not allowed to manage this hotel")

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

type Service struct {
	Hotels   domainhotel.Repository
	Uploader ImageUploader
	Logger   *slog.Logger
}

type Actor struct {
	UserID domainuser.ID
	Role   domainuser.Role
}

func (a Actor) canManage(h *domainhotel.Hotel) bool {
	return h.OwnedBy(a.UserID) || a.Role == domainuser.RoleAdmin
}

type HotelParams struct {
	Name          string
	City          string
	Country       string
	Description   string
	Type          string
	Facilities    []string
	PricePerNight float64
	StarRating    int
	Capacity      domainhotel.Capacity
}

// ImageFile is one multipart upload destined for the object store.
type ImageFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

func (s *Service) Create(ctx context.Context, actor Actor, params HotelParams, images []ImageFile) (*domainhotel.Hotel, error) {
	if actor.Role != domainuser.RoleHotelOwner && actor.Role != domainuser.RoleAdmin {
		return nil, ErrNotAllowed
	}
	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:            domainhotel.ID(uuid.NewString()),
		OwnerID:       actor.UserID,
		Name:          params.Name,
		City:          params.City,
		Country:       params.Country,
		Description:   params.Description,
		Type:          params.Type,
		Facilities:    params.Facilities,
		PricePerNight: params.PricePerNight,
		StarRating:    params.StarRating,
		Capacity:      params.Capacity,
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}
	urls, err := s.uploadImages(ctx, h.ID, images)
	if err != nil {
		return nil, err
	}
	h.AddImages(urls, time.Now())
	if err := s.Hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("hotel created", "hotel_id", h.ID, "owner_id", h.OwnerID, "city", h.City)
	}
	return h, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id domainhotel.ID, params HotelParams, images []ImageFile, keepImageURLs []string) (*domainhotel.Hotel, error) {
	h, err := s.Hotels.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canManage(h) {
		return nil, ErrNotAllowed
	}
	uploaded, err := s.uploadImages(ctx, h.ID, images)
	if err != nil {
		return nil, err
	}
	if err := h.Apply(domainhotel.UpdateParams{
		Name:          params.Name,
		City:          params.City,
		Country:       params.Country,
		Description:   params.Description,
		Type:          params.Type,
		Facilities:    params.Facilities,
		PricePerNight: params.PricePerNight,
		StarRating:    params.StarRating,
		Capacity:      params.Capacity,
		ImageURLs:     append(append([]string(nil), keepImageURLs...), uploaded...),
		Now:           time.Now(),
	}); err != nil {
		return nil, err
	}
	if err := s.Hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("hotel updated", "hotel_id", h.ID, "capacity_adults", h.Capacity.Adults, "capacity_children", h.Capacity.Children)
	}
	return h, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id domainhotel.ID) error {
	h, err := s.Hotels.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canManage(h) {
		return ErrNotAllowed
	}
	if err := s.Hotels.Delete(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("hotel deleted", "hotel_id", id)
	}
	return nil
}

func (s *Service) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	return s.Hotels.ByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]*domainhotel.Hotel, error) {
	return s.Hotels.ListAll(ctx)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID domainuser.ID) ([]*domainhotel.Hotel, error) {
	return s.Hotels.ListByOwner(ctx, ownerID)
}

func (s *Service) Search(ctx context.Context, params domainhotel.SearchParams) (domainhotel.SearchResult, error) {
	return s.Hotels.Search(ctx, params)
}

func (s *Service) uploadImages(ctx context.Context, hotelID domainhotel.ID, images []ImageFile) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if s.Uploader == nil {
		return nil, errors.New("hotels: image uploader not configured")
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		ext := path.Ext(img.Name)
		key := fmt.Sprintf("hotels/%s/%s%s", hotelID, uuid.NewString(), ext)
		url, err := s.Uploader.Upload(ctx, key, img.Reader, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("hotels: upload image %q: %w", img.Name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
