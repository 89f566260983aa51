// Package checkout turns a cart into placed orders.
//
// Each cart line is placed in cart order: an order record is created and the
// menu item's stock is decremented. The first failure stops the run and
// leaves the cart untouched, so lines placed before the failure stay placed
// and a retry submits them again.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kariqs/bistro-api/cart"
	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/models"
	"github.com/Kariqs/bistro-api/notify"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultOwner is recorded as the owner of every order placed without an
// explicit owner.
const DefaultOwner = "customer"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrPlacementFailed    = errors.New("order placement failed")
	ErrItemGone           = errors.New("ordered item not found")
)

// Cart is the part of cart.Store the workflow needs. While the checkout
// flag is held the cart must refuse other changes, so the lines read after
// TryBeginCheckout are the lines CompleteCheckout removes.
type Cart interface {
	Items() []cart.LineItem
	CompleteCheckout(ctx context.Context) error
	TryBeginCheckout() bool
	EndCheckout()
}

type StepStatus string

const (
	StepPlaced  StepStatus = "placed"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepResult is the outcome of placing one cart line.
type StepResult struct {
	Index            int             `json:"index"`
	ItemID           string          `json:"itemId"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	Ingredients      []string        `json:"ingredients,omitempty"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	OrderID          string          `json:"orderId,omitempty"`
	StockDecremented bool            `json:"stockDecremented"`
	Status           StepStatus      `json:"status"`
	Err              error           `json:"-"`
}

type Receipt struct {
	Results []StepResult `json:"results"`
}

// OrderIDs lists the orders created, in cart order.
func (r *Receipt) OrderIDs() []string {
	var ids []string
	for _, res := range r.Results {
		if res.OrderID != "" {
			ids = append(ids, res.OrderID)
		}
	}
	return ids
}

// Total is the sum of the placed lines.
func (r *Receipt) Total() decimal.Decimal {
	total := decimal.Zero
	for _, res := range r.Results {
		if res.Status == StepPlaced {
			total = total.Add(res.TotalPrice)
		}
	}
	return total
}

type Workflow struct {
	orders   gateway.Collection[models.Order]
	items    gateway.Collection[models.Item]
	notifier notify.Notifier
	logger   *slog.Logger
	tracer   trace.Tracer
	owner    string
	onPlaced func(ctx context.Context, receipt *Receipt)
}

type Option func(*Workflow)

func WithNotifier(n notify.Notifier) Option {
	return func(w *Workflow) { w.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

func WithOwner(owner string) Option {
	return func(w *Workflow) { w.owner = owner }
}

// WithPlacedHook registers fn to run after a fully successful checkout.
func WithPlacedHook(fn func(ctx context.Context, receipt *Receipt)) Option {
	return func(w *Workflow) { w.onPlaced = fn }
}

func New(orders gateway.Collection[models.Order], items gateway.Collection[models.Item], opts ...Option) *Workflow {
	w := &Workflow{
		orders:   orders,
		items:    items,
		notifier: notify.Discard{},
		logger:   slog.Default(),
		tracer:   otel.Tracer("github.com/Kariqs/bistro-api/checkout"),
		owner:    DefaultOwner,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) notice(ctx context.Context, level notify.Level, msg string) {
	w.notifier.Notify(ctx, notify.Notice{Level: level, Message: msg})
}

// Place checks out c. On failure the returned receipt lists the lines that
// were already placed and the error wraps ErrPlacementFailed.
func (w *Workflow) Place(ctx context.Context, c Cart) (*Receipt, error) {
	if len(c.Items()) == 0 {
		w.notice(ctx, notify.LevelError, "Your cart is empty")
		return nil, ErrEmptyCart
	}
	if !c.TryBeginCheckout() {
		w.notice(ctx, notify.LevelWarning, "Your order is already being placed")
		return nil, ErrCheckoutInProgress
	}
	defer c.EndCheckout()

	// read again under the flag; a change may have landed before it was set
	lines := c.Items()
	if len(lines) == 0 {
		w.notice(ctx, notify.LevelError, "Your cart is empty")
		return nil, ErrEmptyCart
	}

	ctx, span := w.tracer.Start(ctx, "checkout.place", trace.WithAttributes(attribute.Int("cart.lines", len(lines))))
	defer span.End()

	receipt := &Receipt{Results: make([]StepResult, 0, len(lines))}
	for i, line := range lines {
		res := w.placeLine(ctx, i, line)
		receipt.Results = append(receipt.Results, res)
		if res.Status == StepFailed {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, "line failed")
			w.logger.ErrorContext(ctx, "error placing order", "index", i, "item_id", res.ItemID, "error", res.Err)
			w.notice(ctx, notify.LevelError, "Failed to place order")
			return receipt, fmt.Errorf("%w: line %d: %w", ErrPlacementFailed, i, res.Err)
		}
	}

	if err := c.CompleteCheckout(ctx); err != nil {
		// orders are placed already; only the local cart is stale
		w.logger.ErrorContext(ctx, "orders placed but cart not cleared", "error", err)
		w.notice(ctx, notify.LevelWarning, "Order placed, but the cart could not be emptied")
		return receipt, fmt.Errorf("clear cart: %w", err)
	}
	w.notice(ctx, notify.LevelSuccess, "Order placed successfully!")
	if w.onPlaced != nil {
		w.onPlaced(ctx, receipt)
	}
	return receipt, nil
}

func (w *Workflow) placeLine(ctx context.Context, index int, line cart.LineItem) StepResult {
	res := StepResult{
		Index:      index,
		ItemID:     line.ItemID(),
		Name:       line.Item.Name,
		Quantity:   line.Quantity,
		TotalPrice: line.TotalPrice,
	}
	if strings.TrimSpace(res.ItemID) == "" {
		w.logger.WarnContext(ctx, "skipping invalid cart item", "index", index)
		res.Status = StepSkipped
		return res
	}

	ctx, span := w.tracer.Start(ctx, "checkout.line", trace.WithAttributes(
		attribute.String("item.id", res.ItemID),
		attribute.Int("line.quantity", line.Quantity),
	))
	defer span.End()

	quantity := line.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	ingredients := make([]models.Ingredient, len(line.SelectedIngredients))
	for i, sel := range line.SelectedIngredients {
		ingredients[i] = models.Ingredient{Name: sel.Name, Quantity: sel.Quantity}
		res.Ingredients = append(res.Ingredients, sel.Name)
	}
	order := &models.Order{
		UserID:      w.owner,
		ItemID:      res.ItemID,
		Quantity:    quantity,
		Ingredients: ingredients,
		Price:       line.Item.Price,
		TotalPrice:  line.TotalPrice,
		Status:      models.OrderStatusPending,
	}
	orderID, err := w.orders.Create(ctx, order)
	if err != nil {
		return failed(span, res, fmt.Errorf("create order: %w", err))
	}
	res.OrderID = orderID

	decremented, err := w.decrementStock(ctx, res.ItemID, line.Quantity)
	if err != nil {
		return failed(span, res, err)
	}
	res.StockDecremented = decremented
	res.Status = StepPlaced
	return res
}

// decrementStock lowers the live stock of itemID by quantity, floored at
// zero. It reports false without error when there is nothing well-formed to
// decrement. An item missing from the menu is an error.
func (w *Workflow) decrementStock(ctx context.Context, itemID string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, nil
	}
	item, err := w.items.GetByID(ctx, itemID)
	if errors.Is(err, gateway.ErrNotFound) {
		return false, fmt.Errorf("%w: item %q no longer on the menu", ErrItemGone, itemID)
	}
	if err != nil {
		return false, fmt.Errorf("read stock: %w", err)
	}
	if item.Quantity < 0 {
		return false, nil
	}

	remaining := max(0, item.Quantity-quantity)
	if err := w.items.Update(ctx, itemID, map[string]any{"quantity": remaining}); err != nil {
		return false, fmt.Errorf("update stock: %w", err)
	}
	return true, nil
}

func failed(span trace.Span, res StepResult, err error) StepResult {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	res.Status = StepFailed
	res.Err = err
	return res
}
