package showings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cinetix/internal/shared/constants"
	"cinetix/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeShowingRepo serves a single showing and its seat map.
type fakeShowingRepo struct {
	showing Showing
	seats   []ShowingSeat
}

func newFakeShowingRepo(states ...string) *fakeShowingRepo {
	repo := &fakeShowingRepo{
		showing: Showing{
			ID:        uuid.New(),
			MovieID:   uuid.New(),
			RoomID:    uuid.New(),
			StartsAt:  time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC),
			EndsAt:    time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC),
			BasePrice: 12.50,
		},
	}
	for i, state := range states {
		repo.seats = append(repo.seats, ShowingSeat{
			ID:        uuid.New(),
			ShowingID: repo.showing.ID,
			SeatID:    uuid.New(),
			State:     state,
			Price:     repo.showing.BasePrice,
			Seat:      &Seat{Row: "A", Number: i + 1},
		})
	}
	return repo
}

func (f *fakeShowingRepo) CreateRoom(ctx context.Context, room *Room) error { return nil }

func (f *fakeShowingRepo) CreateShowing(ctx context.Context, showing *Showing) error { return nil }

func (f *fakeShowingRepo) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	return nil, ErrShowingNotFound
}

func (f *fakeShowingRepo) GetShowingByID(ctx context.Context, id uuid.UUID) (*Showing, error) {
	if id != f.showing.ID {
		return nil, ErrShowingNotFound
	}
	return &f.showing, nil
}

func (f *fakeShowingRepo) ListShowings(ctx context.Context, movieID *uuid.UUID) ([]Showing, error) {
	return []Showing{f.showing}, nil
}

func (f *fakeShowingRepo) GetSeatMap(ctx context.Context, showingID uuid.UUID) ([]ShowingSeat, error) {
	return f.seats, nil
}

func (f *fakeShowingRepo) GetShowingSeats(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID) ([]ShowingSeat, error) {
	var matched []ShowingSeat
	for _, ss := range f.seats {
		for _, id := range seatIDs {
			if ss.SeatID == id {
				matched = append(matched, ss)
			}
		}
	}
	return matched, nil
}

func (f *fakeShowingRepo) TrySetState(ctx context.Context, showingID uuid.UUID, seatIDs []uuid.UUID, from, to string) error {
	return nil
}

// fakeCache records the TTLs and invalidations the service issues.
type fakeCache struct {
	lastKey         string
	lastTTL         time.Duration
	deletedPatterns []string
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	f.deletedPatterns = append(f.deletedPatterns, pattern)
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) bool { return false }

func (f *fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	f.lastKey = key
	f.lastTTL = ttl
	data, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func TestGetSeatMapUsesConfiguredTTL(t *testing.T) {
	repo := newFakeShowingRepo(SeatStateAvailable, SeatStateAvailable, SeatStateSold)
	fc := &fakeCache{}
	svc := NewService(repo, fc, 45*time.Second)

	seatMap, err := svc.GetSeatMap(context.Background(), repo.showing.ID.String())
	require.NoError(t, err)

	assert.Equal(t, constants.BuildSeatMapKey(repo.showing.ID.String()), fc.lastKey)
	assert.Equal(t, 45*time.Second, fc.lastTTL)
	assert.Equal(t, 2, seatMap.AvailableCount)
	assert.Equal(t, 1, seatMap.SoldCount)
}

func TestGetSeatMapFallsBackToDefaultTTL(t *testing.T) {
	repo := newFakeShowingRepo(SeatStateAvailable)
	fc := &fakeCache{}
	svc := NewService(repo, fc, 0)

	_, err := svc.GetSeatMap(context.Background(), repo.showing.ID.String())
	require.NoError(t, err)

	assert.Equal(t, constants.TTL_SEAT_MAP, fc.lastTTL)
}

func TestTrySetStateInvalidatesCachedSeatMaps(t *testing.T) {
	repo := newFakeShowingRepo(SeatStateAvailable)
	fc := &fakeCache{}
	svc := NewService(repo, fc, 30*time.Second)

	err := svc.TrySetState(context.Background(), repo.showing.ID,
		[]uuid.UUID{repo.seats[0].SeatID}, SeatStateAvailable, SeatStateHeld)
	require.NoError(t, err)

	want := constants.SeatMapInvalidationPattern(repo.showing.ID.String())
	assert.Equal(t, []string{want}, fc.deletedPatterns)
}
