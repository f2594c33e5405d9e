package admin

import (
	"context"
	"errors"
	"log/slog"

	domainauth "stayfinder/internal/domain/auth"
	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

var ErrNotAllowed = errors.New("admin: caller is not an administrator")

// Service exposes the back-office operations. Every call checks the actor's
// role itself so the service stays safe even without the route middleware.
type Service struct {
	Users    domainuser.Repository
	Hotels   domainhotel.Repository
	Sessions domainauth.SessionStore
	Logger   *slog.Logger
}

type Actor struct {
	UserID domainuser.ID
	Role   domainuser.Role
}

func (s *Service) ListUsers(ctx context.Context, actor Actor) ([]*domainuser.User, error) {
	if actor.Role != domainuser.RoleAdmin {
		return nil, ErrNotAllowed
	}
	return s.Users.List(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, actor Actor, id domainuser.ID) error {
	if actor.Role != domainuser.RoleAdmin {
		return ErrNotAllowed
	}
	if id == actor.UserID {
		return errors.New("admin: cannot delete own account")
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	if s.Sessions != nil {
		if err := s.Sessions.DeleteByUser(ctx, id); err != nil && s.Logger != nil {
			s.Logger.Warn("failed to revoke sessions of deleted user", "user_id", id, "err", err)
		}
	}
	if s.Logger != nil {
		s.Logger.Info("user deleted", "user_id", id, "deleted_by", actor.UserID)
	}
	return nil
}

// ListHotels returns every hotel together with its owner, for the
// back-office overview.
type HotelWithOwner struct {
	Hotel *domainhotel.Hotel
	Owner *domainuser.User
}

func (s *Service) ListHotels(ctx context.Context, actor Actor) ([]HotelWithOwner, error) {
	if actor.Role != domainuser.RoleAdmin {
		return nil, ErrNotAllowed
	}
	hotels, err := s.Hotels.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]HotelWithOwner, 0, len(hotels))
	for _, h := range hotels {
		owner, err := s.Users.ByID(ctx, h.OwnerID)
		if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
			return nil, err
		}
		out = append(out, HotelWithOwner{Hotel: h, Owner: owner})
	}
	return out, nil
}
