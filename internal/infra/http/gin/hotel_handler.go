package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/services/admission"
	"stayfinder/internal/app/services/hotels"
	"stayfinder/internal/app/services/recommend"
	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

type HotelHTTP interface {
	List(c *gin.Context)
	Search(c *gin.Context)
	Detail(c *gin.Context)
	Recommendations(c *gin.Context)
	Click(c *gin.Context)
}

type HotelHandler struct {
	Hotels    *hotels.Service
	Admission *admission.Service
	Recommend *recommend.Service
	Logger    *slog.Logger
}

func (h HotelHandler) List(c *gin.Context) {
	all, err := h.Hotels.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotels(all))
}

func (h HotelHandler) Search(c *gin.Context) {
	params := searchParamsFromQuery(c)
	result, err := h.Hotels.Search(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.HotelSearchResponse{
		Data: dto.MapHotels(result.Hotels),
		Pagination: dto.Pagination{
			Total: result.Total,
			Page:  result.Page,
			Pages: result.Pages,
		},
	})
}

// Detail returns the hotel, with the availability breakdown embedded when
// the client supplied a checkIn/checkOut pair.
func (h HotelHandler) Detail(c *gin.Context) {
	id := domainhotel.ID(c.Param("id"))
	hotel, err := h.Hotels.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	detail := dto.HotelDetail{Hotel: dto.MapHotel(hotel)}

	checkIn, checkOut, ok, err := dateRangeFromQuery(c)
	if err != nil {
		badRequest(c, "checkIn and checkOut must be RFC 3339 dates")
		return
	}
	if ok {
		breakdown, err := h.Admission.Availability(c.Request.Context(), id, checkIn, checkOut)
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		detail.Availability = &breakdown
	}
	c.JSON(http.StatusOK, detail)
}

func (h HotelHandler) Recommendations(c *gin.Context) {
	anchor := domainhotel.ID(strings.TrimSpace(c.Query("hotelId")))
	recommended, err := h.Recommend.ForHotel(c.Request.Context(), anchor)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotels(recommended))
}

func (h HotelHandler) Click(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	err := h.Recommend.RecordClick(c.Request.Context(), domainuser.ID(p.ID), domainhotel.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hotel click recorded"})
}

func searchParamsFromQuery(c *gin.Context) domainhotel.SearchParams {
	stars := make([]int, 0)
	for _, raw := range c.QueryArray("stars") {
		if v, err := strconv.Atoi(raw); err == nil {
			stars = append(stars, v)
		}
	}
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)
	adults, _ := strconv.Atoi(c.Query("adultCount"))
	children, _ := strconv.Atoi(c.Query("childCount"))
	page, _ := strconv.Atoi(c.Query("page"))
	return domainhotel.SearchParams{
		Destination: c.Query("destination"),
		MinAdults:   adults,
		MinChildren: children,
		Facilities:  c.QueryArray("facilities"),
		Types:       c.QueryArray("types"),
		Stars:       stars,
		MaxPrice:    maxPrice,
		Sort:        domainhotel.SortOption(c.Query("sortOption")),
		Page:        page,
	}
}

// dateRangeFromQuery parses the optional checkIn/checkOut pair. ok reports
// whether both were present.
func dateRangeFromQuery(c *gin.Context) (checkIn, checkOut time.Time, ok bool, err error) {
	rawIn := strings.TrimSpace(c.Query("checkIn"))
	rawOut := strings.TrimSpace(c.Query("checkOut"))
	if rawIn == "" || rawOut == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	checkIn, err = parseDate(rawIn)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	checkOut, err = parseDate(rawOut)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return checkIn, checkOut, true, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

var _ HotelHTTP = (*HotelHandler)(nil)
