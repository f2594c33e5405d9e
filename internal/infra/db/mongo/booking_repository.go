package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainrange "stayfinder/internal/domain/shared/daterange"
	domainuser "stayfinder/internal/domain/user"
)

const bookingCollection = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *BookingRepository) Append(ctx context.Context, b *domainbooking.Booking) error {
	_, err := r.col.InsertOne(ctx, newBookingDocument(b))
	return err
}

func (r *BookingRepository) Remove(ctx context.Context, id domainbooking.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbooking.ErrNotFound
	}
	return nil
}

// Overlapping selects the hotel's entries intersecting dr under half-open
// semantics: an entry overlaps iff it starts before dr ends and ends after
// dr starts, so back-to-back stays never collide.
func (r *BookingRepository) Overlapping(ctx context.Context, hotelID domainhotel.ID, dr domainrange.DateRange) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"hotel_id":  string(hotelID),
		"check_in":  bson.M{"$lt": dr.CheckOut.UnixMilli()},
		"check_out": bson.M{"$gt": dr.CheckIn.UnixMilli()},
	}
	return r.list(ctx, filter)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"user_id": string(userID)})
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"hotel_id": string(hotelID)})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var bookings []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		bookings = append(bookings, doc.toEntity())
	}
	return bookings, cursor.Err()
}

type bookingDocument struct {
	ID         string  `bson:"_id"`
	HotelID    string  `bson:"hotel_id"`
	UserID     string  `bson:"user_id"`
	FirstName  string  `bson:"first_name"`
	LastName   string  `bson:"last_name"`
	Email      string  `bson:"email"`
	AdultCount int     `bson:"adult_count"`
	ChildCount int     `bson:"child_count"`
	CheckIn    int64   `bson:"check_in"`
	CheckOut   int64   `bson:"check_out"`
	TotalCost  float64 `bson:"total_cost"`
	CreatedAt  int64   `bson:"created_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		HotelID:    string(b.HotelID),
		UserID:     string(b.UserID),
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		Email:      b.Email,
		AdultCount: b.AdultCount,
		ChildCount: b.ChildCount,
		CheckIn:    b.Range.CheckIn.UnixMilli(),
		CheckOut:   b.Range.CheckOut.UnixMilli(),
		TotalCost:  b.TotalCost,
		CreatedAt:  b.CreatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toEntity() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:         domainbooking.ID(d.ID),
		HotelID:    domainhotel.ID(d.HotelID),
		UserID:     domainuser.ID(d.UserID),
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		AdultCount: d.AdultCount,
		ChildCount: d.ChildCount,
		Range: domainrange.DateRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		TotalCost: d.TotalCost,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
