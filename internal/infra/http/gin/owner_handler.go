package ginserver

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	hotelsvc "stayfinder/internal/app/services/hotels"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

// maxImageUploads bounds one multipart submission.
const maxImageUploads = 6

type OwnerHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Bookings(c *gin.Context)
}

// OwnerHandler serves the hotel owner's management surface. Hotels are
// submitted as multipart forms because they carry image files.
type OwnerHandler struct {
	Hotels      *hotelsvc.Service
	BookingRepo domainbooking.Repository
	Logger      *slog.Logger
}

func (h OwnerHandler) List(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHotelOwner)
	if !ok {
		return
	}
	owned, err := h.Hotels.ListByOwner(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotels(owned))
}

func (h OwnerHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHotelOwner)
	if !ok {
		return
	}
	params, images, err := hotelFormFromRequest(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer closeImages(images)

	created, err := h.Hotels.Create(c.Request.Context(), actorOf(p), params, images)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapHotel(created))
}

func (h OwnerHandler) Get(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHotelOwner)
	if !ok {
		return
	}
	hotel, err := h.Hotels.ByID(c.Request.Context(), domainhotel.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if !hotel.OwnedBy(domainuser.ID(p.ID)) && p.Role != domainuser.RoleAdmin {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotel(hotel))
}

func (h OwnerHandler) Update(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHotelOwner)
	if !ok {
		return
	}
	params, images, err := hotelFormFromRequest(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer closeImages(images)

	keep := c.PostFormArray("imageUrls")
	updated, err := h.Hotels.Update(c.Request.Context(), actorOf(p), domainhotel.ID(c.Param("id")), params, images, keep)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotel(updated))
}

func (h OwnerHandler) Delete(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHotelOwner)
	if !ok {
		return
	}
	if err := h.Hotels.Delete(c.Request.Context(), actorOf(p), domainhotel.ID(c.Param("id"))); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bookings lists the ledger entries of one owned hotel.
func (h OwnerHandler) Bookings(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHotelOwner)
	if !ok {
		return
	}
	id := domainhotel.ID(c.Param("id"))
	hotel, err := h.Hotels.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if !hotel.OwnedBy(domainuser.ID(p.ID)) && p.Role != domainuser.RoleAdmin {
		forbidden(c)
		return
	}
	entries, err := h.BookingRepo.ListByHotel(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookings(entries))
}

func actorOf(p principal) hotelsvc.Actor {
	return hotelsvc.Actor{UserID: domainuser.ID(p.ID), Role: p.Role}
}

func hotelFormFromRequest(c *gin.Context) (hotelsvc.HotelParams, []hotelsvc.ImageFile, error) {
	price, _ := strconv.ParseFloat(c.PostForm("pricePerNight"), 64)
	stars, _ := strconv.Atoi(c.PostForm("starRating"))
	adults, _ := strconv.Atoi(c.PostForm("adultCount"))
	children, _ := strconv.Atoi(c.PostForm("childCount"))
	params := hotelsvc.HotelParams{
		Name:          c.PostForm("name"),
		City:          c.PostForm("city"),
		Country:       c.PostForm("country"),
		Description:   c.PostForm("description"),
		Type:          c.PostForm("type"),
		Facilities:    c.PostFormArray("facilities"),
		PricePerNight: price,
		StarRating:    stars,
		Capacity:      domainhotel.Capacity{Adults: adults, Children: children},
	}

	form, err := c.MultipartForm()
	if err != nil {
		// JSON submissions without images are fine too.
		return params, nil, nil
	}
	headers := form.File["imageFiles"]
	if len(headers) > maxImageUploads {
		headers = headers[:maxImageUploads]
	}
	images := make([]hotelsvc.ImageFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeImages(images)
			return hotelsvc.HotelParams{}, nil, err
		}
		images = append(images, hotelsvc.ImageFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      f,
		})
	}
	return params, images, nil
}

func closeImages(images []hotelsvc.ImageFile) {
	for _, img := range images {
		if closer, ok := img.Reader.(multipart.File); ok {
			_ = closer.Close()
		}
	}
}
