package cart

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nurye/shop/internal/localstore"
	"github.com/nurye/shop/internal/money"
)

// StorageKey is the local storage key holding the serialized cart.
const StorageKey = "nurye_cart"

// Store coordinates concurrent access to the cart.
type Store struct {
	mu      sync.RWMutex
	lines   []Line
	flash   uint64
	storage localstore.Storage
	logger  *zap.Logger
	lastErr error
}

// New creates a store backed by storage and hydrates it. A nil storage keeps
// the cart in memory only. Hydration failures leave the cart empty.
func New(storage localstore.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger}
	if err := s.Hydrate(); err != nil {
		logger.Debug("cart hydrate failed", zap.Error(err))
	}
	return s
}

// Hydrate replaces the in-memory cart with the stored one. A missing record
// yields an empty cart and no error; an unreadable or corrupt one yields an
// empty cart and the error.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if s.storage == nil {
		return nil
	}
	data, err := s.storage.Get(StorageKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("hydrate cart: %w", err)
	}
	lines, err := Decode(data)
	if err != nil {
		return fmt.Errorf("hydrate cart: %w", err)
	}
	s.lines = lines
	return nil
}

// Add puts quantity units of item in the cart. Quantities below one count as
// one. An existing line keeps its position and accumulates the quantity.
func (s *Store) Add(item Item, quantity int) {
	if item.ID == "" {
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mutate(func(lines []Line) []Line {
		if i := indexOf(lines, item.ID); i >= 0 {
			lines[i].Quantity += quantity
			return lines
		}
		return append(lines, Line{
			ID:       item.ID,
			Title:    item.Title,
			Price:    money.Sanitize(item.Price),
			Image:    item.Image,
			Quantity: quantity,
		})
	}, true)
}

// Remove deletes the line for id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mutate(func(lines []Line) []Line {
		if i := indexOf(lines, id); i >= 0 {
			return slices.Delete(lines, i, i+1)
		}
		return lines
	}, false)
}

// ChangeQuantity adjusts a line's quantity by delta without going below one.
// It never removes a line; use Remove for that.
func (s *Store) ChangeQuantity(id string, delta int) {
	s.mutate(func(lines []Line) []Line {
		if i := indexOf(lines, id); i >= 0 {
			lines[i].Quantity = max(1, lines[i].Quantity+delta)
		}
		return lines
	}, false)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mutate(func([]Line) []Line { return nil }, false)
}

// Count returns the total number of units across all lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the cart in display order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLines(s.lines)
}

// Line returns the line for id.
func (s *Store) Line(id string) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.lines, id); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// Subtotal sums the line totals.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Flash increases by one on every Add.
func (s *Store) Flash() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flash
}

// Persist writes the current cart to storage.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// LastPersistError returns the outcome of the most recent write.
func (s *Store) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// mutate applies fn to a private copy and swaps it in, then writes the
// result through while still holding the lock so stored order matches
// mutation order.
func (s *Store) mutate(fn func([]Line) []Line, flash bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(cloneLines(s.lines))
	if len(next) == 0 {
		next = nil
	}
	s.lines = next
	if flash {
		s.flash++
	}
	if err := s.persistLocked(); err != nil {
		s.logger.Debug("cart persist failed", zap.Error(err))
	}
}

func (s *Store) persistLocked() error {
	if s.storage == nil {
		s.lastErr = nil
		return nil
	}
	data, err := Encode(s.lines)
	if err == nil {
		err = s.storage.Set(StorageKey, data)
	}
	if err != nil {
		err = fmt.Errorf("persist cart: %w", err)
	}
	s.lastErr = err
	return err
}

func indexOf(lines []Line, id string) int {
	return slices.IndexFunc(lines, func(l Line) bool { return l.ID == id })
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]Line, len(lines))
	copy(dup, lines)
	return dup
}
