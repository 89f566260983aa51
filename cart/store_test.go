package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/Kariqs/bistro-api/models"
	"github.com/Kariqs/bistro-api/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuItem(id, name, price string, stock int) *models.Item {
	return &models.Item{
		ID:       id,
		Name:     name,
		Type:     "mains",
		Price:    decimal.RequireFromString(price),
		Quantity: stock,
		Ingredients: []models.Ingredient{
			{Name: "Cheese", Quantity: "2 slices"},
			{Name: "Onion", Quantity: "1"},
		},
	}
}

func newTestStore(t *testing.T, mirror Mirror) (*Store, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	store, err := NewStore(context.Background(), mirror, WithNotifier(rec))
	require.NoError(t, err)
	return store, rec
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

type failingMirror struct {
	MemoryMirror
	err error
}

func (f *failingMirror) Save(context.Context, []byte) error { return f.err }

func TestStore_AddNewLine(t *testing.T) {
	ctx := context.Background()
	store, rec := newTestStore(t, NewMemoryMirror(nil))

	sel := []IngredientSelection{{Name: "Cheese", Quantity: "2 slices"}}
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10.00", 5), 2, sel))

	lines := store.Items()
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].ItemID())
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, sel, lines[0].SelectedIngredients)
	assertDecimal(t, "20", lines[0].TotalPrice)
	assert.True(t, rec.Has(notify.LevelSuccess, "Burger added to cart"))
}

func TestStore_AddMergesQuantityAndReplacesSelection(t *testing.T) {
	ctx := context.Background()
	store, rec := newTestStore(t, NewMemoryMirror(nil))
	item := menuItem("a", "Burger", "10.00", 5)

	require.NoError(t, store.Add(ctx, item, 2, []IngredientSelection{{Name: "Cheese"}}))
	require.NoError(t, store.Add(ctx, item, 3, []IngredientSelection{{Name: "Onion"}}))

	lines := store.Items()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, []IngredientSelection{{Name: "Onion"}}, lines[0].SelectedIngredients)
	assertDecimal(t, "50", lines[0].TotalPrice)
	assert.True(t, rec.Has(notify.LevelSuccess, "Burger quantity updated in cart"))
}

func TestStore_AddDeduplicatesSelectionByName(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryMirror(nil))

	err := store.Add(context.Background(), menuItem("a", "Burger", "10", 5), 1, []IngredientSelection{
		{Name: "Cheese", Quantity: "1"},
		{Name: "Cheese", Quantity: "3"},
		{Name: "Onion"},
	})
	require.NoError(t, err)

	assert.Equal(t, []IngredientSelection{{Name: "Cheese", Quantity: "1"}, {Name: "Onion"}}, store.Items()[0].SelectedIngredients)
}

func TestStore_AddOutOfStockLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	store, rec := newTestStore(t, NewMemoryMirror(nil))
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10", 5), 1, nil))

	err := store.Add(ctx, menuItem("b", "Soup", "4", 0), 1, nil)

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 1, store.Len())
	assert.True(t, rec.Has(notify.LevelError, "Soup is out of stock"))
}

func TestStore_AddRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	mirror := NewMemoryMirror(nil)
	store, rec := newTestStore(t, mirror)

	assert.ErrorIs(t, store.Add(ctx, nil, 1, nil), ErrInvalidItem)
	assert.ErrorIs(t, store.Add(ctx, menuItem("", "Nameless", "1", 1), 1, nil), ErrInvalidItem)
	assert.ErrorIs(t, store.Add(ctx, menuItem("a", "Burger", "-1", 1), 1, nil), ErrInvalidItem)
	assert.ErrorIs(t, store.Add(ctx, menuItem("a", "Burger", "1", 3), 0, nil), ErrInvalidQuantity)

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 4, rec.Count(notify.LevelError))
	data, err := mirror.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "rejected adds must not write the mirror")
}

func TestStore_AddSnapshotIsDetached(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryMirror(nil))
	item := menuItem("a", "Burger", "10", 5)
	require.NoError(t, store.Add(context.Background(), item, 1, nil))

	item.Name = "Renamed"
	item.Ingredients[0].Name = "Changed"

	line := store.Items()[0]
	assert.Equal(t, "Burger", line.Item.Name)
	assert.Equal(t, "Cheese", line.Item.Ingredients[0].Name)
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryMirror(nil))
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "2.50", 1), 1, nil))

	// stock is not re-validated on update
	require.NoError(t, store.UpdateQuantity(ctx, "a", 4))

	line := store.Items()[0]
	assert.Equal(t, 4, line.Quantity)
	assertDecimal(t, "10", line.TotalPrice)
}

func TestStore_UpdateQuantityFloorRemoves(t *testing.T) {
	for _, qty := range []int{0, -5} {
		ctx := context.Background()
		store, _ := newTestStore(t, NewMemoryMirror(nil))
		require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10", 5), 2, nil))
		require.NoError(t, store.Add(ctx, menuItem("b", "Soup", "4", 5), 1, nil))

		require.NoError(t, store.UpdateQuantity(ctx, "a", qty))

		lines := store.Items()
		require.Len(t, lines, 1, "quantity %d", qty)
		assert.Equal(t, "b", lines[0].ItemID())
	}
}

func TestStore_UpdateQuantityInvalidID(t *testing.T) {
	ctx := context.Background()
	store, rec := newTestStore(t, NewMemoryMirror(nil))
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10", 5), 2, nil))

	assert.ErrorIs(t, store.UpdateQuantity(ctx, "  ", 3), ErrInvalidID)
	assert.Equal(t, 2, store.Items()[0].Quantity)
	assert.Equal(t, 1, rec.Count(notify.LevelWarning))
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mirror := NewMemoryMirror(nil)
	store, rec := newTestStore(t, mirror)
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10", 5), 2, nil))
	require.NoError(t, store.Add(ctx, menuItem("b", "Soup", "4", 5), 1, nil))

	require.NoError(t, store.Remove(ctx, "a"))
	once := store.Items()
	onceData, _ := mirror.Load(ctx)

	require.NoError(t, store.Remove(ctx, "a"))
	twiceData, _ := mirror.Load(ctx)

	assert.Equal(t, once, store.Items())
	assert.JSONEq(t, string(onceData), string(twiceData))
	assert.Equal(t, 2, rec.Count(notify.LevelInfo))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	mirror := NewMemoryMirror(nil)
	store, rec := newTestStore(t, mirror)
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10", 5), 2, nil))

	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 0, store.Len())
	data, err := mirror.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
	assert.True(t, rec.Has(notify.LevelInfo, "Cart cleared"))
}

func TestStore_Totals(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryMirror(nil))
	assertDecimal(t, "0", store.TotalPrice())
	assert.Equal(t, 0, store.TotalItems())

	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10.00", 5), 2, nil))
	require.NoError(t, store.Add(ctx, menuItem("b", "Soup", "5.00", 5), 1, nil))

	assertDecimal(t, "25", store.TotalPrice())
	assert.Equal(t, 3, store.TotalItems())

	sum, count := decimal.Zero, 0
	for _, l := range store.Items() {
		sum = sum.Add(l.TotalPrice)
		count += l.Quantity
	}
	assert.True(t, sum.Equal(store.TotalPrice()))
	assert.Equal(t, count, store.TotalItems())
}

func TestStore_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	mirror := &failingMirror{}
	store, rec := newTestStore(t, mirror)

	mirror.err = errors.New("disk full")
	err := store.Add(ctx, menuItem("a", "Burger", "10", 5), 1, nil)

	assert.ErrorIs(t, err, mirror.err)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, rec.Count(notify.LevelSuccess))
}

func TestStore_MirrorFidelity(t *testing.T) {
	ctx := context.Background()
	mirror := NewMemoryMirror(nil)
	store, _ := newTestStore(t, mirror)

	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10.00", 5), 2, []IngredientSelection{{Name: "Cheese", Quantity: "2 slices"}}))
	require.NoError(t, store.Add(ctx, menuItem("b", "Soup", "4.25", 5), 1, nil))
	require.NoError(t, store.Add(ctx, menuItem("c", "Cake", "6", 5), 1, nil))
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10.00", 5), 1, nil))
	require.NoError(t, store.UpdateQuantity(ctx, "b", 3))
	require.NoError(t, store.Remove(ctx, "c"))

	reloaded, _ := newTestStore(t, mirror)

	want, got := store.Items(), reloaded.Items()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ItemID(), got[i].ItemID())
		assert.Equal(t, want[i].Item.Name, got[i].Item.Name)
		assert.True(t, want[i].Item.Price.Equal(got[i].Item.Price))
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.Equal(t, want[i].SelectedIngredients, got[i].SelectedIngredients)
		assert.True(t, want[i].TotalPrice.Equal(got[i].TotalPrice))
	}
	assert.True(t, store.TotalPrice().Equal(reloaded.TotalPrice()))
}

func TestNewStore_ToleratesMalformedData(t *testing.T) {
	cases := map[string]string{
		"not json":     `{{{`,
		"not an array": `{"item": {}}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			store, _ := newTestStore(t, NewMemoryMirror([]byte(data)))
			assert.Equal(t, 0, store.Len())
			assertDecimal(t, "0", store.TotalPrice())
		})
	}
}

func TestNewStore_DefaultsMissingFields(t *testing.T) {
	data := `[
		{"item": {"id": "a", "name": "Burger", "price": 10}, "quantity": 2, "totalPrice": 20},
		{"quantity": 1},
		null,
		{"item": {"id": "b", "price": "oops"}, "quantity": 1},
		{"item": {"id": "c"}}
	]`
	store, _ := newTestStore(t, NewMemoryMirror([]byte(data)))

	lines := store.Items()
	require.Len(t, lines, 3)
	assert.Equal(t, "a", lines[0].ItemID())
	assert.Equal(t, "", lines[1].ItemID())
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, "c", lines[2].ItemID())
	assert.Equal(t, 0, lines[2].Quantity)
	assert.Nil(t, lines[2].SelectedIngredients)
	assertDecimal(t, "20", store.TotalPrice())
	assert.Equal(t, 3, store.TotalItems())
}

func TestStore_CheckoutFlag(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryMirror(nil))

	assert.True(t, store.TryBeginCheckout())
	assert.True(t, store.Processing())
	assert.False(t, store.TryBeginCheckout())

	store.EndCheckout()
	assert.False(t, store.Processing())
	assert.True(t, store.TryBeginCheckout())
}

func TestStore_RejectsChangesDuringCheckout(t *testing.T) {
	ctx := context.Background()
	mirror := NewMemoryMirror(nil)
	store, rec := newTestStore(t, mirror)
	require.NoError(t, store.Add(ctx, menuItem("a", "Burger", "10", 5), 2, nil))
	before, err := mirror.Load(ctx)
	require.NoError(t, err)

	require.True(t, store.TryBeginCheckout())

	assert.ErrorIs(t, store.Add(ctx, menuItem("b", "Shake", "4", 5), 1, nil), ErrCheckoutInProgress)
	assert.ErrorIs(t, store.Add(ctx, menuItem("a", "Burger", "10", 5), 1, nil), ErrCheckoutInProgress)
	assert.ErrorIs(t, store.UpdateQuantity(ctx, "a", 7), ErrCheckoutInProgress)
	assert.ErrorIs(t, store.UpdateQuantity(ctx, "a", 0), ErrCheckoutInProgress)
	assert.ErrorIs(t, store.Remove(ctx, "a"), ErrCheckoutInProgress)
	assert.ErrorIs(t, store.Clear(ctx), ErrCheckoutInProgress)

	assert.Equal(t, 2, store.TotalItems())
	after, err := mirror.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 6, rec.Count(notify.LevelWarning))

	// the checkout itself may still empty the cart
	require.NoError(t, store.CompleteCheckout(ctx))
	assert.Equal(t, 0, store.Len())

	store.EndCheckout()
	require.NoError(t, store.Add(ctx, menuItem("b", "Shake", "4", 5), 1, nil))
	assert.Equal(t, 1, store.Len())
}

func TestSessions_SeparateSlots(t *testing.T) {
	ctx := context.Background()
	mirrors := map[string]*MemoryMirror{}
	sessions := NewSessions(func(slot string) Mirror {
		m := NewMemoryMirror(nil)
		mirrors[slot] = m
		return m
	})

	alice, err := sessions.Get(ctx, "alice")
	require.NoError(t, err)
	again, err := sessions.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, alice, again)

	bob, err := sessions.Get(ctx, "bob")
	require.NoError(t, err)
	require.NoError(t, alice.Add(ctx, menuItem("a", "Burger", "10", 5), 1, nil))

	assert.Equal(t, 1, alice.Len())
	assert.Equal(t, 0, bob.Len())
	assert.Contains(t, mirrors, "cart:alice")
	assert.Contains(t, mirrors, "cart:bob")

	_, err = sessions.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestSessions_ForgetReloadsFromMirror(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryMirror(nil)
	sessions := NewSessions(func(string) Mirror { return shared })

	first, err := sessions.Get(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, menuItem("a", "Burger", "10", 5), 2, nil))

	assert.True(t, sessions.Forget("alice"))
	second, err := sessions.Get(ctx, "alice")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, second.TotalItems())
}

func TestSessions_ForgetKeepsCartBeingCheckedOut(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryMirror(nil)
	sessions := NewSessions(func(string) Mirror { return shared })

	first, err := sessions.Get(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, menuItem("a", "Burger", "10", 5), 1, nil))
	require.True(t, first.TryBeginCheckout())

	assert.False(t, sessions.Forget("alice"))
	again, err := sessions.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.False(t, again.TryBeginCheckout(), "a second checkout must not start")

	first.EndCheckout()
	assert.True(t, sessions.Forget("alice"))
}
