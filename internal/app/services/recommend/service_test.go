package recommend

import (
	"context"
	"fmt"
	"testing"
	"time"

	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/storage/memory"
)

func seedHotels(t *testing.T, repo domainhotel.Repository, prices map[string]float64) {
	t.Helper()
	for id, price := range prices {
		h, err := domainhotel.New(domainhotel.CreateParams{
			ID:            domainhotel.ID(id),
			OwnerID:       "owner-1",
			Name:          "Hotel " + id,
			City:          "Lisbon",
			Country:       "Portugal",
			PricePerNight: price,
			StarRating:    3,
			Capacity:      domainhotel.Capacity{Adults: 2, Children: 1},
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := repo.Save(context.Background(), h); err != nil {
			t.Fatal(err)
		}
	}
}

func TestForHotelRanksByPriceSimilarity(t *testing.T) {
	hotels := memory.NewHotelRepository()
	seedHotels(t, hotels, map[string]float64{
		"anchor": 100,
		"close":  105,
		"closer": 101,
		"far":    300,
		"mid":    140,
	})
	svc := &Service{Hotels: hotels, Users: memory.NewUserRepository()}

	got, err := svc.ForHotel(context.Background(), "anchor")
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(got))
	for i, h := range got {
		ids[i] = string(h.ID)
	}
	want := []string{"closer", "close", "mid", "far"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("rank %d: got %v, want %v", i, ids, want)
		}
	}
}

func TestForHotelCapsAtLimitAndExcludesAnchor(t *testing.T) {
	hotels := memory.NewHotelRepository()
	prices := map[string]float64{"anchor": 100}
	for i := 0; i < 8; i++ {
		prices[fmt.Sprintf("h%d", i)] = float64(100 + i)
	}
	seedHotels(t, hotels, prices)
	svc := &Service{Hotels: hotels, Users: memory.NewUserRepository()}

	got, err := svc.ForHotel(context.Background(), "anchor")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != Limit {
		t.Fatalf("got %d recommendations, want %d", len(got), Limit)
	}
	for _, h := range got {
		if h.ID == "anchor" {
			t.Fatal("anchor hotel recommended to itself")
		}
	}
}

func TestForHotelFallsBackToRandomSample(t *testing.T) {
	hotels := memory.NewHotelRepository()
	seedHotels(t, hotels, map[string]float64{"a": 90, "b": 120, "c": 200})
	svc := &Service{Hotels: hotels, Users: memory.NewUserRepository()}

	for _, anchor := range []domainhotel.ID{"", "missing"} {
		got, err := svc.ForHotel(context.Background(), anchor)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Fatalf("anchor %q: got %d hotels, want all 3", anchor, len(got))
		}
	}
}

func TestRecordClickDedupesAndCaps(t *testing.T) {
	hotels := memory.NewHotelRepository()
	users := memory.NewUserRepository()
	prices := make(map[string]float64)
	for i := 0; i < domainuser.ClickedHotelsLimit+3; i++ {
		prices[fmt.Sprintf("h%02d", i)] = float64(80 + i)
	}
	seedHotels(t, hotels, prices)

	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID: "u1", Email: "guest@example.com", FirstName: "A", LastName: "B",
		PasswordHash: "x", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := users.Save(context.Background(), u); err != nil {
		t.Fatal(err)
	}

	svc := &Service{Hotels: hotels, Users: users}
	ctx := context.Background()

	if err := svc.RecordClick(ctx, "u1", "h00"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordClick(ctx, "u1", "h00"); err != nil {
		t.Fatal(err)
	}
	stored, err := users.ByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.ClickedHotels) != 1 {
		t.Fatalf("duplicate click recorded: %v", stored.ClickedHotels)
	}

	for i := 0; i < domainuser.ClickedHotelsLimit+3; i++ {
		if err := svc.RecordClick(ctx, "u1", domainhotel.ID(fmt.Sprintf("h%02d", i))); err != nil {
			t.Fatal(err)
		}
	}
	stored, err = users.ByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.ClickedHotels) != domainuser.ClickedHotelsLimit {
		t.Fatalf("click log not capped: %d entries", len(stored.ClickedHotels))
	}

	if err := svc.RecordClick(ctx, "u1", "missing"); err == nil {
		t.Fatal("click on unknown hotel should fail")
	}
}
