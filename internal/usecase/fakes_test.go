package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"room-booking/internal/broadcast"
	"room-booking/internal/data/entity"
	"room-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes shared by the service tests.

var errForced = errors.New("forced repository error")

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	fail  bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errForced
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	c := *user
	return &c, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	for _, user := range f.users {
		if user.Email == email {
			c := *user
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	names := make(map[uuid.UUID]string)
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			names[id] = user.Name
		}
	}
	return names, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *session
	f.sessions[session.Token] = &c
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	session, ok := f.sessions[parsed]
	if !ok || session.RevokedAt != nil || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	c := *session
	return &c, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	if session, ok := f.sessions[parsed]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*entity.Room
	fail  bool
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uuid.UUID]*entity.Room)}
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *entity.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errForced
	}
	c := *room
	f.rooms[room.ID] = &c
	return nil
}

func (f *fakeRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	room, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	c := *room
	return &c, nil
}

func (f *fakeRoomRepo) FindAllSortedByName(ctx context.Context) ([]*entity.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	rooms := make([]*entity.Room, 0, len(f.rooms))
	for _, room := range f.rooms {
		c := *room
		rooms = append(rooms, &c)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	fail     bool

	// createDelay widens the check-then-write window for race tests
	createDelay time.Duration
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if f.createDelay > 0 {
		time.Sleep(f.createDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errForced
	}
	c := *booking
	f.bookings[booking.ID] = &c
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	c := *booking
	return &c, nil
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (f *fakeBookingRepo) UpdateTimes(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errForced
	}
	booking, ok := f.bookings[id]
	if !ok {
		return errForced
	}
	booking.StartTime = start
	booking.EndTime = end
	booking.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errForced
	}
	booking, ok := f.bookings[id]
	if !ok {
		return errForced
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingRepo) FindOverlappingActive(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.RoomID != roomID || b.Status != entity.BookingStatusActive {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeBookingRepo) FindActiveInRange(ctx context.Context, start, end time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status != entity.BookingStatusActive {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeBookingRepo) FindActiveSorted(ctx context.Context) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errForced
	}
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status == entity.BookingStatusActive {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// ==================== TEST WIRING ====================

type fixture struct {
	repo     *repository.Repository
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	rooms    *fakeRoomRepo
	bookings *fakeBookingRepo
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	rooms := newFakeRoomRepo()
	bookings := newFakeBookingRepo()
	return &fixture{
		repo: &repository.Repository{
			User:    users,
			Session: sessions,
			Room:    rooms,
			Booking: bookings,
		},
		users:    users,
		sessions: sessions,
		rooms:    rooms,
		bookings: bookings,
	}
}

func (f *fixture) addUser(name, email string, role entity.UserRole) *entity.User {
	user := &entity.User{
		Base: entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name: name, Email: email, PasswordHash: "x", Role: role,
	}
	f.users.users[user.ID] = user
	return user
}

func (f *fixture) addRoom(name string, capacity int) *entity.Room {
	room := &entity.Room{
		Base: entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name: name, Capacity: capacity,
	}
	f.rooms.rooms[room.ID] = room
	return room
}

func (f *fixture) addBooking(room *entity.Room, user *entity.User, start, end time.Time, status entity.BookingStatus) *entity.Booking {
	booking := &entity.Booking{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		RoomID:    room.ID,
		UserID:    user.ID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	f.bookings.bookings[booking.ID] = booking
	return booking
}

// newBookingServiceAt builds a booking service with a fixed clock.
func newBookingServiceAt(f *fixture, now time.Time) (*bookingService, *broadcast.Broadcaster) {
	log := zap.NewNop()
	broadcaster := broadcast.NewBroadcaster(log)
	svc := &bookingService{
		repo:        f.repo,
		conflicts:   NewConflictEngine(f.repo, log),
		broadcaster: broadcaster,
		locks:       newRoomLocks(),
		log:         log,
		now:         func() time.Time { return now },
	}
	return svc, broadcaster
}
