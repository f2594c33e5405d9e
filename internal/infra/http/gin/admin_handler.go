package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	adminsvc "stayfinder/internal/app/services/admin"
	hotelsvc "stayfinder/internal/app/services/hotels"
	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

type AdminHTTP interface {
	ListUsers(c *gin.Context)
	DeleteUser(c *gin.Context)
	ListHotels(c *gin.Context)
	DeleteHotel(c *gin.Context)
}

type AdminHandler struct {
	Admin  *adminsvc.Service
	Hotels *hotelsvc.Service
	Logger *slog.Logger
}

func (h AdminHandler) ListUsers(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleAdmin)
	if !ok {
		return
	}
	users, err := h.Admin.ListUsers(c.Request.Context(), adminActor(p))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]dto.UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, dto.MapUserProfile(u))
	}
	c.JSON(http.StatusOK, out)
}

func (h AdminHandler) DeleteUser(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleAdmin)
	if !ok {
		return
	}
	err := h.Admin.DeleteUser(c.Request.Context(), adminActor(p), domainuser.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) ListHotels(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleAdmin)
	if !ok {
		return
	}
	rows, err := h.Admin.ListHotels(c.Request.Context(), adminActor(p))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]dto.HotelWithOwner, 0, len(rows))
	for _, row := range rows {
		mapped := dto.HotelWithOwner{Hotel: dto.MapHotel(row.Hotel)}
		if row.Owner != nil {
			owner := dto.MapUserProfile(row.Owner)
			mapped.Owner = &owner
		}
		out = append(out, mapped)
	}
	c.JSON(http.StatusOK, out)
}

func (h AdminHandler) DeleteHotel(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleAdmin)
	if !ok {
		return
	}
	err := h.Hotels.Delete(c.Request.Context(), actorOf(p), domainhotel.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func adminActor(p principal) adminsvc.Actor {
	return adminsvc.Actor{UserID: domainuser.ID(p.ID), Role: p.Role}
}

var _ AdminHTTP = (*AdminHandler)(nil)
