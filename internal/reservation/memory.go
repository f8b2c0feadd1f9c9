package reservation

import (
	"context"
	"sort"
	"sync"

	"github.com/jaksia/easybook/internal/domain"
)

// MemoryEngine implements the reservation contract over an in-process seat
// table guarded by a single mutex. It backs handler and orchestrator tests
// and the concurrency property tests; the commit semantics match
// PostgresEngine exactly.
type MemoryEngine struct {
	mu    sync.Mutex
	shows map[int]*memShow
}

type memShow struct {
	availableSeats int
	version        int64
	seats          map[int]*memSeat
}

type memSeat struct {
	seatNumber string
	booked     bool
}

func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		shows: make(map[int]*memShow),
	}
}

// AddShow seeds a show and its seats. Seats start available.
func (e *MemoryEngine) AddShow(showID int, seatIDs ...int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	show := &memShow{
		availableSeats: len(seatIDs),
		seats:          make(map[int]*memSeat, len(seatIDs)),
	}

	for _, id := range seatIDs {
		show.seats[id] = &memSeat{}
	}

	e.shows[showID] = show
}

func (e *MemoryEngine) Reserve(ctx context.Context, showID int, seatIDs []int) (*domain.CommitResult, error) {
	if len(seatIDs) == 0 {
		return nil, domain.ErrSeatsNotFound
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.ErrStorageUnavailable
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	show, ok := e.shows[showID]
	if !ok {
		return nil, domain.ErrSeatsNotFound
	}

	// Duplicate ids are rejected, matching the row-count check in
	// PostgresEngine.
	seen := make(map[int]struct{}, len(seatIDs))
	resolved := make([]*memSeat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return nil, domain.ErrSeatsNotFound
		}
		seen[id] = struct{}{}

		seat, ok := show.seats[id]
		if !ok {
			return nil, domain.ErrSeatsNotFound
		}
		resolved = append(resolved, seat)
	}

	for _, seat := range resolved {
		if seat.booked {
			return nil, domain.ErrSeatsUnavailable
		}
	}

	for _, seat := range resolved {
		seat.booked = true
	}

	show.availableSeats -= len(resolved)
	show.version++

	ids := make([]int, len(seatIDs))
	copy(ids, seatIDs)
	sort.Ints(ids)

	return &domain.CommitResult{
		ShowID:  showID,
		SeatIDs: ids,
		Version: show.version,
	}, nil
}

// AvailableSeats reports the show's denormalized counter.
func (e *MemoryEngine) AvailableSeats(showID int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	show, ok := e.shows[showID]
	if !ok {
		return 0
	}

	return show.availableSeats
}

// Booked reports the booked flag of a single seat.
func (e *MemoryEngine) Booked(showID, seatID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	show, ok := e.shows[showID]
	if !ok {
		return false
	}

	seat, ok := show.seats[seatID]
	return ok && seat.booked
}
