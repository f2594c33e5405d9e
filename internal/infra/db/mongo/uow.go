package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayfinder/internal/app/uow"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
// When TxOptions carries a hotel ID the transaction immediately bumps that
// hotel document's admission counter: two concurrent admissions for the same
// hotel then contend on the same document and one of them aborts with a write
// conflict instead of both passing the availability check.
type Factory struct {
	DB *mongo.Database

	HotelsRepo   domainhotel.Repository
	BookingsRepo domainbooking.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(f.DB.ReadConcern()).
		SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	unit := &Unit{
		db:       f.DB,
		session:  session,
		hotels:   f.HotelsRepo,
		bookings: f.BookingsRepo,
	}
	if opts.HotelID != "" && !opts.ReadOnly {
		if err := unit.lockHotel(ctx, opts.HotelID); err != nil {
			_ = session.AbortTransaction(ctx)
			session.EndSession(ctx)
			return nil, err
		}
	}
	return unit, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	hotels   domainhotel.Repository
	bookings domainbooking.Repository
}

func (u *Unit) Hotels() domainhotel.Repository {
	return u.hotels
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

// Context binds the session to ctx so repository calls join the transaction.
func (u *Unit) Context(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

func (u *Unit) lockHotel(ctx context.Context, hotelID domainhotel.ID) error {
	sessCtx := mongo.NewSessionContext(ctx, u.session)
	res, err := u.db.Collection(hotelCollection).UpdateOne(sessCtx,
		bson.M{"_id": string(hotelID)},
		bson.M{"$inc": bson.M{"admission_seq": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainhotel.ErrNotFound
	}
	return nil
}
