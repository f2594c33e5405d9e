package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
)

const hotelCollection = "hotels"

type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection(hotelCollection)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhotel.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	doc := newHotelDocument(h)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *HotelRepository) Delete(ctx context.Context, id domainhotel.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainhotel.ErrNotFound
	}
	return nil
}

func (r *HotelRepository) ListAll(ctx context.Context) ([]*domainhotel.Hotel, error) {
	return r.list(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}}))
}

func (r *HotelRepository) ListByOwner(ctx context.Context, ownerID domainuser.ID) ([]*domainhotel.Hotel, error) {
	filter := bson.M{"owner_id": string(ownerID)}
	return r.list(ctx, filter, options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}}))
}

// Search pushes every filter down to Mongo: the destination term becomes a
// case-insensitive regex over the descriptive fields, facilities use $all,
// types and stars use $in, and paging runs server-side with skip/limit.
func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) (domainhotel.SearchResult, error) {
	params = params.Normalized()
	filter := searchFilter(params)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainhotel.SearchResult{}, err
	}

	skip := int64((params.Page - 1) * params.PageSize)
	opts := options.Find().
		SetSort(searchSort(params.Sort)).
		SetSkip(skip).
		SetLimit(int64(params.PageSize))
	hotels, err := r.list(ctx, filter, opts)
	if err != nil {
		return domainhotel.SearchResult{}, err
	}

	pages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		pages++
	}
	return domainhotel.SearchResult{
		Hotels: hotels,
		Total:  int(total),
		Page:   params.Page,
		Pages:  pages,
	}, nil
}

func searchFilter(params domainhotel.SearchParams) bson.M {
	filter := bson.M{}
	if params.Destination != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(params.Destination), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"city": re},
			bson.M{"country": re},
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"type": re},
			bson.M{"facilities": re},
		}
	}
	if params.MinAdults > 0 {
		filter["capacity.adults"] = bson.M{"$gte": params.MinAdults}
	}
	if params.MinChildren > 0 {
		filter["capacity.children"] = bson.M{"$gte": params.MinChildren}
	}
	if len(params.Facilities) > 0 {
		filter["facilities"] = bson.M{"$all": params.Facilities}
	}
	if len(params.Types) > 0 {
		filter["type"] = bson.M{"$in": params.Types}
	}
	if len(params.Stars) > 0 {
		filter["star_rating"] = bson.M{"$in": params.Stars}
	}
	if params.MaxPrice > 0 {
		filter["price_per_night"] = bson.M{"$lte": params.MaxPrice}
	}
	return filter
}

func searchSort(sort domainhotel.SortOption) bson.D {
	switch sort {
	case domainhotel.SortByStars:
		return bson.D{{Key: "star_rating", Value: -1}}
	case domainhotel.SortByPriceAsc:
		return bson.D{{Key: "price_per_night", Value: 1}}
	case domainhotel.SortByPriceDesc:
		return bson.D{{Key: "price_per_night", Value: -1}}
	default:
		return bson.D{{Key: "last_updated", Value: -1}}
	}
}

func (r *HotelRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainhotel.Hotel, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var hotels []*domainhotel.Hotel
	for cursor.Next(ctx) {
		var doc hotelDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		hotels = append(hotels, doc.toEntity())
	}
	return hotels, cursor.Err()
}

type hotelDocument struct {
	ID            string           `bson:"_id"`
	OwnerID       string           `bson:"owner_id"`
	Name          string           `bson:"name"`
	City          string           `bson:"city"`
	Country       string           `bson:"country"`
	Description   string           `bson:"description"`
	Type          string           `bson:"type"`
	Facilities    []string         `bson:"facilities"`
	PricePerNight float64          `bson:"price_per_night"`
	StarRating    int              `bson:"star_rating"`
	Capacity      capacityDocument `bson:"capacity"`
	ImageURLs     []string         `bson:"image_urls"`
	LastUpdated   int64            `bson:"last_updated"`
	// admission_seq lives on the document too but is only ever touched with
	// $inc by the unit of work, so it stays out of the $set payload here.
}

type capacityDocument struct {
	Adults   int `bson:"adults"`
	Children int `bson:"children"`
}

func newHotelDocument(h *domainhotel.Hotel) hotelDocument {
	return hotelDocument{
		ID:            string(h.ID),
		OwnerID:       string(h.OwnerID),
		Name:          h.Name,
		City:          h.City,
		Country:       h.Country,
		Description:   h.Description,
		Type:          h.Type,
		Facilities:    h.Facilities,
		PricePerNight: h.PricePerNight,
		StarRating:    h.StarRating,
		Capacity:      capacityDocument{Adults: h.Capacity.Adults, Children: h.Capacity.Children},
		ImageURLs:     h.ImageURLs,
		LastUpdated:   h.LastUpdated.UnixMilli(),
	}
}

func (d hotelDocument) toEntity() *domainhotel.Hotel {
	return &domainhotel.Hotel{
		ID:            domainhotel.ID(d.ID),
		OwnerID:       domainuser.ID(d.OwnerID),
		Name:          d.Name,
		City:          d.City,
		Country:       d.Country,
		Description:   d.Description,
		Type:          d.Type,
		Facilities:    d.Facilities,
		PricePerNight: d.PricePerNight,
		StarRating:    d.StarRating,
		Capacity:      domainhotel.Capacity{Adults: d.Capacity.Adults, Children: d.Capacity.Children},
		ImageURLs:     d.ImageURLs,
		LastUpdated:   time.UnixMilli(d.LastUpdated).UTC(),
	}
}
