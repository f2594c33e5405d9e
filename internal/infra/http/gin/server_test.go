package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	adminsvc "stayfinder/internal/app/services/admin"
	"stayfinder/internal/app/services/admission"
	authsvc "stayfinder/internal/app/services/auth"
	hotelsvc "stayfinder/internal/app/services/hotels"
	"stayfinder/internal/app/services/recommend"
	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/obs"
	"stayfinder/internal/infra/payments/fake"
	"stayfinder/internal/infra/security"
	"stayfinder/internal/infra/storage/memory"
)

type capturingMailer struct{ lastCode string }

func (m *capturingMailer) SendLoginCode(_ context.Context, _, _, code string) error {
	m.lastCode = code
	return nil
}

type testEnv struct {
	handler http.Handler
	mailer  *capturingMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hotels := memory.NewHotelRepository()
	bookings := memory.NewBookingRepository()
	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	factory := memory.NewFactory(hotels, bookings)
	mailer := &capturingMailer{}

	auth := &authsvc.Service{
		Users:     users,
		Sessions:  sessions,
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
		Codes:     security.DigitCodeGenerator{},
		Mailer:    mailer,
	}
	adm := &admission.Service{UoW: factory}
	hotelSvc := &hotelsvc.Service{Hotels: hotels}
	recommendSvc := &recommend.Service{Hotels: hotels, Users: users}
	adminSvc := &adminsvc.Service{Users: users, Hotels: hotels, Sessions: sessions}

	server := NewServer(
		config.Config{Env: "test", HTTPAddr: ":0"},
		obs.Middleware{},
		obs.HealthHandlers{},
		Handlers{
			Auth:           AuthHandler{Service: auth},
			Hotel:          HotelHandler{Hotels: hotelSvc, Admission: adm, Recommend: recommendSvc},
			Booking:        BookingHandler{Admission: adm, Payments: fake.NewProvider(), Bookings: bookings, Hotels: hotels},
			Owner:          OwnerHandler{Hotels: hotelSvc, BookingRepo: bookings},
			Admin:          AdminHandler{Admin: adminSvc, Hotels: hotelSvc},
			AuthMiddleware: AuthMiddleware{Service: auth}.Handle,
		},
	)
	return &testEnv{handler: server.Handler, mailer: mailer}
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doForm(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// signUp registers and completes the two-step login, returning a session token.
func (e *testEnv) signUp(t *testing.T, email, role string) string {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "firstName": "Test", "lastName": "User",
		"password": "secret-1", "role": role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, rec.Code, rec.Body)
	}
	rec = e.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret-1",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body)
	}
	rec = e.doJSON(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]string{
		"email": email, "code": e.mailer.lastCode,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-otp %s: status %d body %s", email, rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}

func (e *testEnv) createHotel(t *testing.T, token string, adults, children int, price float64) string {
	t.Helper()
	form := url.Values{
		"name":          {"Seaside Inn"},
		"city":          {"Porto"},
		"country":       {"Portugal"},
		"description":   {"Small place by the water"},
		"type":          {"Boutique"},
		"facilities":    {"Free WiFi", "Parking"},
		"pricePerNight": {fmt.Sprintf("%g", price)},
		"starRating":    {"4"},
		"adultCount":    {fmt.Sprintf("%d", adults)},
		"childCount":    {fmt.Sprintf("%d", children)},
	}
	rec := e.doForm(t, http.MethodPost, "/api/my-hotels", token, form)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create hotel: status %d body %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.ID
}

func (e *testEnv) book(t *testing.T, token, hotelID string, adults, children int, checkIn, checkOut string) *httptest.ResponseRecorder {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/hotels/"+hotelID+"/bookings/payment-intent", token, map[string]any{
		"adultCount": adults, "childCount": children,
		"checkIn": checkIn, "checkOut": checkOut,
	})
	if rec.Code != http.StatusOK {
		return rec
	}
	var intent struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &intent); err != nil {
		t.Fatal(err)
	}
	return e.doJSON(t, http.MethodPost, "/api/hotels/"+hotelID+"/bookings", token, map[string]any{
		"firstName": "Guest", "lastName": "One", "email": "guest@example.com",
		"adultCount": adults, "childCount": children,
		"checkIn": checkIn, "checkOut": checkOut,
		"paymentIntentId": intent.PaymentIntentID,
	})
}

func TestBookingFlowEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.signUp(t, "owner@example.com", "hotel owner")
	guestToken := env.signUp(t, "guest@example.com", "user")
	hotelID := env.createHotel(t, ownerToken, 2, 1, 100)

	// Unauthenticated booking attempts are rejected.
	rec := env.doJSON(t, http.MethodPost, "/api/hotels/"+hotelID+"/bookings/payment-intent", "", map[string]any{
		"adultCount": 1, "childCount": 0, "checkIn": "2026-01-01", "checkOut": "2026-01-02",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous payment-intent: status %d", rec.Code)
	}

	// First booking takes both adult places for Jan 1-3.
	rec = env.book(t, guestToken, hotelID, 2, 0, "2026-01-01", "2026-01-03")
	if rec.Code != http.StatusCreated {
		t.Fatalf("first booking: status %d body %s", rec.Code, rec.Body)
	}
	var booked struct {
		ID        string  `json:"id"`
		TotalCost float64 `json:"totalCost"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &booked); err != nil {
		t.Fatal(err)
	}
	if booked.TotalCost != 400 { // 100 * 2 adults * 2 nights
		t.Fatalf("total cost %v, want 400", booked.TotalCost)
	}

	// An overlapping request for one more adult must fail dynamically.
	rec = env.book(t, guestToken, hotelID, 1, 0, "2026-01-02", "2026-01-04")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("overlapping booking: status %d body %s", rec.Code, rec.Body)
	}
	var rejection struct {
		Kind string `json:"kind"`
		Pool string `json:"pool"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rejection); err != nil {
		t.Fatal(err)
	}
	if rejection.Kind != "dynamic_availability_exceeded" || rejection.Pool != "adults" {
		t.Fatalf("rejection %+v", rejection)
	}

	// Back-to-back with the first stay: checkout day equals check-in day.
	rec = env.book(t, guestToken, hotelID, 2, 0, "2026-01-03", "2026-01-05")
	if rec.Code != http.StatusCreated {
		t.Fatalf("back-to-back booking: status %d body %s", rec.Code, rec.Body)
	}

	// Requests beyond the hotel's fixed capacity fail statically.
	rec = env.book(t, guestToken, hotelID, 3, 0, "2026-06-01", "2026-06-02")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("static overflow: status %d body %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rejection); err != nil {
		t.Fatal(err)
	}
	if rejection.Kind != "static_capacity_exceeded" || rejection.Pool != "adults" {
		t.Fatalf("rejection %+v", rejection)
	}

	// The availability breakdown reflects the booked dates.
	rec = env.doJSON(t, http.MethodGet, "/api/hotels/"+hotelID+"?checkIn=2026-01-01&checkOut=2026-01-03", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: status %d body %s", rec.Code, rec.Body)
	}
	var detail struct {
		Availability *struct {
			AvailableAdults     int  `json:"availableAdults"`
			IsAdultsFullyBooked bool `json:"isAdultsFullyBooked"`
		} `json:"availability"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if detail.Availability == nil || detail.Availability.AvailableAdults != 0 || !detail.Availability.IsAdultsFullyBooked {
		t.Fatalf("availability %+v", detail.Availability)
	}

	// My bookings lists both admitted stays.
	rec = env.doJSON(t, http.MethodGet, "/api/my-bookings", guestToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("my-bookings: status %d", rec.Code)
	}
	var mine []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("my-bookings count %d, want 2", len(mine))
	}

	// Cancelling frees the capacity again.
	rec = env.doJSON(t, http.MethodDelete, "/api/my-bookings/"+hotelID+"/"+booked.ID, guestToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("cancel: status %d body %s", rec.Code, rec.Body)
	}
	rec = env.book(t, guestToken, hotelID, 1, 0, "2026-01-02", "2026-01-03")
	if rec.Code != http.StatusCreated {
		t.Fatalf("rebook after cancel: status %d body %s", rec.Code, rec.Body)
	}
}

func TestOwnerAndAdminSurfaces(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.signUp(t, "owner@example.com", "hotel owner")
	guestToken := env.signUp(t, "guest@example.com", "user")
	adminToken := env.signUp(t, "root@example.com", "admin")
	hotelID := env.createHotel(t, ownerToken, 2, 0, 80)

	// Guests cannot create hotels.
	rec := env.doForm(t, http.MethodPost, "/api/my-hotels", guestToken, url.Values{
		"name": {"Nope"}, "city": {"X"}, "country": {"Y"},
		"pricePerNight": {"10"}, "starRating": {"3"}, "adultCount": {"1"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("guest hotel create: status %d", rec.Code)
	}

	// Owner sees bookings against their hotel.
	if rec := env.book(t, guestToken, hotelID, 1, 0, "2026-02-01", "2026-02-03"); rec.Code != http.StatusCreated {
		t.Fatalf("booking: status %d body %s", rec.Code, rec.Body)
	}
	rec = env.doJSON(t, http.MethodGet, "/api/my-hotels/"+hotelID+"/bookings", ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner bookings: status %d body %s", rec.Code, rec.Body)
	}

	// Admin endpoints are closed to non-admins and open to admins.
	if rec := env.doJSON(t, http.MethodGet, "/api/admin/users", guestToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("guest admin access: status %d", rec.Code)
	}
	rec = env.doJSON(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin users: status %d", rec.Code)
	}
	rec = env.doJSON(t, http.MethodGet, "/api/admin/hotels", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin hotels: status %d", rec.Code)
	}
	if rec := env.doJSON(t, http.MethodDelete, "/api/admin/hotels/"+hotelID, adminToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete hotel: status %d body %s", rec.Code, rec.Body)
	}
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.signUp(t, "owner@example.com", "hotel owner")
	env.createHotel(t, ownerToken, 2, 1, 100)

	rec := env.doJSON(t, http.MethodGet, "/api/hotels/search?destination=porto&adultCount=2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Data       []struct{ ID string }
		Pagination struct{ Total, Page, Pages int }
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("search result %+v", resp)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/hotels/search?destination=porto&adultCount=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 0 {
		t.Fatalf("capacity filter leaked: %+v", resp)
	}
}
