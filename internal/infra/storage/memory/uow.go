package memory

import (
	"context"
	"errors"
	"sync"

	"stayfinder/internal/app/uow"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires the in-memory repositories into a unit-of-work boundary.
// Admissions targeting the same hotel are serialized with a per-hotel mutex
// held from Begin until Commit or Rollback, which is what makes the
// overlap-check-then-insert sequence atomic for this store.
type Factory struct {
	HotelsRepo   domainhotel.Repository
	BookingsRepo domainbooking.Repository

	mu    sync.Mutex
	locks map[domainhotel.ID]*sync.Mutex
}

func NewFactory(hotels domainhotel.Repository, bookings domainbooking.Repository) *Factory {
	return &Factory{
		HotelsRepo:   hotels,
		BookingsRepo: bookings,
		locks:        make(map[domainhotel.ID]*sync.Mutex),
	}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.HotelsRepo == nil || f.BookingsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{hotels: f.HotelsRepo, bookings: f.BookingsRepo}
	if opts.HotelID != "" && !opts.ReadOnly {
		lock := f.hotelLock(opts.HotelID)
		lock.Lock()
		unit.release = lock.Unlock
	}
	return unit, nil
}

func (f *Factory) hotelLock(id domainhotel.ID) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock, ok := f.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		f.locks[id] = lock
	}
	return lock
}

// Unit is a lightweight uow.UnitOfWork backed by the in-memory stores.
// Writes apply immediately; rollback only releases the admission lock.
type Unit struct {
	hotels   domainhotel.Repository
	bookings domainbooking.Repository

	once    sync.Once
	release func()
}

func (u *Unit) Hotels() domainhotel.Repository {
	return u.hotels
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Context(ctx context.Context) context.Context {
	return ctx
}

func (u *Unit) Commit(ctx context.Context) error {
	u.unlock()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.unlock()
	return nil
}

func (u *Unit) unlock() {
	u.once.Do(func() {
		if u.release != nil {
			u.release()
		}
	})
}
