// Package cart holds the shopping cart: the line items a session has picked
// from the menu, kept in memory and written through to a durable Mirror
// after every change.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Kariqs/bistro-api/models"
	"github.com/Kariqs/bistro-api/notify"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItem     = errors.New("invalid item data")
	ErrOutOfStock      = errors.New("item is out of stock")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidID       = errors.New("invalid item id")
)

// ErrCheckoutInProgress is returned by mutations while the cart is being
// checked out.
var ErrCheckoutInProgress = errors.New("cart is being checked out")

type Store struct {
	mu         sync.Mutex
	lines      []LineItem
	mirror     Mirror
	notifier   notify.Notifier
	logger     *slog.Logger
	processing atomic.Bool
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore reads the mirror once and starts from its content. Stored data
// that cannot be decoded is dropped with a warning; only a failing mirror
// read is returned as an error.
func NewStore(ctx context.Context, mirror Mirror, opts ...Option) (*Store, error) {
	s := &Store{
		mirror:   mirror,
		notifier: notify.Discard{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := mirror.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	s.lines = decodeLines(ctx, s.logger, data)
	return s, nil
}

// decodeLines decodes each stored line on its own so one bad entry does not
// take the rest of the cart with it. Missing fields keep their zero value.
func decodeLines(ctx context.Context, logger *slog.Logger, data []byte) []LineItem {
	if len(data) == 0 {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.WarnContext(ctx, "discarding unreadable cart", "error", err)
		return nil
	}
	lines := make([]LineItem, 0, len(raw))
	for i, entry := range raw {
		if string(entry) == "null" {
			continue
		}
		var line LineItem
		if err := json.Unmarshal(entry, &line); err != nil {
			logger.WarnContext(ctx, "discarding unreadable cart line", "index", i, "error", err)
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// commit writes next to the mirror and, only if that succeeds, makes it the
// in-memory cart. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []LineItem) error {
	if next == nil {
		next = []LineItem{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.mirror.Save(ctx, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.lines = next
	return nil
}

func (s *Store) notice(ctx context.Context, level notify.Level, msg string) {
	s.notifier.Notify(ctx, notify.Notice{Level: level, Message: msg})
}

// lockIdle takes s.mu unless a checkout holds the cart. On false the lock
// is not held.
func (s *Store) lockIdle(ctx context.Context) bool {
	s.mu.Lock()
	if !s.processing.Load() {
		return true
	}
	s.mu.Unlock()
	s.notice(ctx, notify.LevelWarning, "Your order is being placed, the cart cannot change until it is done")
	return false
}

func displayName(item *models.Item) string {
	if strings.TrimSpace(item.Name) == "" {
		return "Item"
	}
	return item.Name
}

// Add puts quantity units of item in the cart. Adding an item that is
// already there sums the quantities and replaces the ingredient selection.
func (s *Store) Add(ctx context.Context, item *models.Item, quantity int, selections []IngredientSelection) error {
	if item == nil || strings.TrimSpace(item.ID) == "" || item.Price.IsNegative() || item.Quantity < 0 {
		s.notice(ctx, notify.LevelError, "Invalid item data")
		return ErrInvalidItem
	}
	if item.Quantity == 0 {
		s.notice(ctx, notify.LevelError, displayName(item)+" is out of stock")
		return ErrOutOfStock
	}
	if quantity <= 0 {
		s.notice(ctx, notify.LevelError, "Quantity must be at least 1")
		return ErrInvalidQuantity
	}
	selections = uniqueSelections(selections)

	if !s.lockIdle(ctx) {
		return ErrCheckoutInProgress
	}
	next := cloneLines(s.lines)
	merged := false
	for i := range next {
		if next[i].ItemID() != item.ID {
			continue
		}
		next[i].Quantity += quantity
		next[i].SelectedIngredients = selections
		next[i].TotalPrice = lineTotal(next[i].Quantity, item.Price)
		merged = true
		break
	}
	if !merged {
		next = append(next, LineItem{
			Item:                snapshotItem(item),
			Quantity:            quantity,
			SelectedIngredients: selections,
			TotalPrice:          lineTotal(quantity, item.Price),
		})
	}
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if merged {
		s.notice(ctx, notify.LevelSuccess, displayName(item)+" quantity updated in cart")
	} else {
		s.notice(ctx, notify.LevelSuccess, displayName(item)+" added to cart")
	}
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Stock is not checked again.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if strings.TrimSpace(itemID) == "" {
		s.logger.WarnContext(ctx, "invalid item id provided to UpdateQuantity")
		s.notice(ctx, notify.LevelWarning, "Invalid item id")
		return ErrInvalidID
	}
	if quantity <= 0 {
		return s.Remove(ctx, itemID)
	}

	if !s.lockIdle(ctx) {
		return ErrCheckoutInProgress
	}
	defer s.mu.Unlock()
	next := cloneLines(s.lines)
	for i := range next {
		if next[i].ItemID() == itemID {
			next[i].Quantity = quantity
			next[i].TotalPrice = lineTotal(quantity, next[i].Item.Price)
		}
	}
	return s.commit(ctx, next)
}

// Remove deletes the line for itemID. Removing an absent item is a no-op
// apart from the mirror write and the notice.
func (s *Store) Remove(ctx context.Context, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		s.logger.WarnContext(ctx, "invalid item id provided to Remove")
		s.notice(ctx, notify.LevelWarning, "Invalid item id")
		return ErrInvalidID
	}

	if !s.lockIdle(ctx) {
		return ErrCheckoutInProgress
	}
	next := make([]LineItem, 0, len(s.lines))
	for _, l := range cloneLines(s.lines) {
		if l.ItemID() != itemID {
			next = append(next, l)
		}
	}
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notice(ctx, notify.LevelInfo, "Item removed from cart")
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if !s.lockIdle(ctx) {
		return ErrCheckoutInProgress
	}
	return s.clearLocked(ctx)
}

// CompleteCheckout empties the cart at the end of a successful checkout.
// Unlike Clear it is allowed while the checkout flag is held.
func (s *Store) CompleteCheckout(ctx context.Context) error {
	s.mu.Lock()
	return s.clearLocked(ctx)
}

// clearLocked releases s.mu.
func (s *Store) clearLocked(ctx context.Context) error {
	err := s.commit(ctx, []LineItem{})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notice(ctx, notify.LevelInfo, "Cart cleared")
	return nil
}

// Items returns a copy of the lines in cart order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TryBeginCheckout marks the cart as being checked out. It returns false if
// a checkout is already running. Once it returns true, Add, UpdateQuantity,
// Remove and Clear fail with ErrCheckoutInProgress until EndCheckout.
func (s *Store) TryBeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing.CompareAndSwap(false, true)
}

func (s *Store) EndCheckout() {
	s.processing.Store(false)
}

func (s *Store) Processing() bool {
	return s.processing.Load()
}
