package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/policies"
	"stayfinder/internal/app/services/admission"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

type BookingHTTP interface {
	PaymentIntent(c *gin.Context)
	Create(c *gin.Context)
	MyBookings(c *gin.Context)
	Cancel(c *gin.Context)
}

type BookingHandler struct {
	Admission *admission.Service
	Payments  policies.PaymentsPort
	Bookings  domainbooking.Repository
	Hotels    domainhotel.Repository
	Logger    *slog.Logger
}

type paymentIntentRequest struct {
	AdultCount int    `json:"adultCount"`
	ChildCount int    `json:"childCount"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
}

type createBookingRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	AdultCount      int    `json:"adultCount"`
	ChildCount      int    `json:"childCount"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// PaymentIntent prices the stay after the static capacity checks and opens a
// payment intent for that amount, tagged with the hotel and user so Create
// can verify the intent belongs to this exact booking request.
func (h BookingHandler) PaymentIntent(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleUser)
	if !ok {
		return
	}
	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	checkIn, checkOut, err := parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		badRequest(c, "checkIn and checkOut must be RFC 3339 dates")
		return
	}
	hotelID := domainhotel.ID(c.Param("id"))
	total, err := h.Admission.Quote(c.Request.Context(), hotelID, req.AdultCount, req.ChildCount, checkIn, checkOut)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	intent, err := h.Payments.CreateIntent(c.Request.Context(), total, "", map[string]string{
		"hotelId": string(hotelID),
		"userId":  p.ID,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		TotalCost:       total,
	})
}

// Create admits a booking once the referenced payment intent has succeeded
// and is tagged for this hotel and user.
func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleUser)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	checkIn, checkOut, err := parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		badRequest(c, "checkIn and checkOut must be RFC 3339 dates")
		return
	}
	hotelID := domainhotel.ID(c.Param("id"))

	if err := h.verifyIntent(c, req.PaymentIntentID, hotelID, p.ID); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	entry, err := h.Admission.AttemptBooking(c.Request.Context(), admission.AttemptParams{
		HotelID:    hotelID,
		UserID:     domainuser.ID(p.ID),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		AdultCount: req.AdultCount,
		ChildCount: req.ChildCount,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapBooking(entry))
}

func (h BookingHandler) verifyIntent(c *gin.Context, intentID string, hotelID domainhotel.ID, userID string) error {
	if intentID == "" {
		return policies.ErrIntentNotFound
	}
	intent, err := h.Payments.RetrieveIntent(c.Request.Context(), intentID)
	if err != nil {
		return err
	}
	if intent.Metadata["hotelId"] != string(hotelID) || intent.Metadata["userId"] != userID {
		return policies.ErrIntentMismatch
	}
	if !intent.Succeeded {
		return policies.ErrIntentNotCaught
	}
	return nil
}

func (h BookingHandler) MyBookings(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	entries, err := h.Bookings.ListByUser(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]dto.BookingWithHotel, 0, len(entries))
	for _, entry := range entries {
		row := dto.BookingWithHotel{Booking: dto.MapBooking(entry)}
		if hotel, err := h.Hotels.ByID(c.Request.Context(), entry.HotelID); err == nil {
			mapped := dto.MapHotel(hotel)
			row.Hotel = &mapped
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	bookingID := domainbooking.ID(c.Param("bookingId"))
	hotelID := domainhotel.ID(c.Param("hotelId"))

	entry, err := h.Bookings.ByID(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if entry.HotelID != hotelID {
		respondError(c, h.Logger, domainbooking.ErrNotFound)
		return
	}
	err = h.Admission.Cancel(c.Request.Context(), bookingID, admission.Actor{
		UserID: domainuser.ID(p.ID),
		Role:   p.Role,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseStayDates(rawIn, rawOut string) (time.Time, time.Time, error) {
	checkIn, err := parseDate(rawIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := parseDate(rawOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

var _ BookingHTTP = (*BookingHandler)(nil)
