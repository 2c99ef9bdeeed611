package services_test

import (
	"sync"
	"testing"

	"backend/entity"
	"backend/services"

	"github.com/stretchr/testify/assert"
)

const userID = uint(1)

func TestGetCreatesEmptyCartLazily(t *testing.T) {
	f := newFixture(t)

	cart, subtotal, err := f.carts.Get(userID)
	assert.NoError(t, err)
	assert.Equal(t, entity.CartStatusActive, cart.Status)
	assert.Empty(t, cart.Items)
	assert.EqualValues(t, 0, subtotal)

	// second call reuses the same row
	again, _, err := f.carts.Get(userID)
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	var n int64
	f.db.Model(&entity.Cart{}).Where("user_id = ?", userID).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestAddMergesSameMenuItem(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1, Note: "no onions"}))
	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 2}))

	cart, subtotal, err := f.carts.Get(userID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Qty)
	// empty note on the second add must not wipe the first one
	assert.Equal(t, "no onions", cart.Items[0].Note)
	assert.EqualValues(t, 3*1499, subtotal)

	// a newer non-empty note wins
	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1, Note: "extra cheese"}))
	cart, _, _ = f.carts.Get(userID)
	assert.Equal(t, "extra cheese", cart.Items[0].Note)
}

func TestAddUnknownMenuItem(t *testing.T) {
	f := newFixture(t)

	err := f.carts.Add(userID, &services.AddItemIn{MenuItemID: 9999, Qty: 1})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAddFromOtherRestaurantConflicts(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))

	err := f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.sushi.ID, Qty: 1})
	assert.ErrorIs(t, err, services.ErrRestaurantConflict)

	// cart contents unchanged
	cart, _, err := f.carts.Get(userID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, f.burger.ID, cart.Items[0].MenuItemID)
	assert.Equal(t, f.restaurantA.ID, cart.RestaurantID)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))
	cart, _, _ := f.carts.Get(userID)
	itemID := cart.Items[0].ID

	assert.NoError(t, f.carts.UpdateItem(userID, itemID, &services.UpdateItemIn{Qty: 5, Note: "well done"}))
	cart, subtotal, _ := f.carts.Get(userID)
	assert.Equal(t, 5, cart.Items[0].Qty)
	assert.Equal(t, "well done", cart.Items[0].Note)
	assert.EqualValues(t, 5*1499, subtotal)

	// another user's cart cannot see the item
	err := f.carts.UpdateItem(2, itemID, &services.UpdateItemIn{Qty: 1})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRemoveLastItemKeepsCartAndUnbindsRestaurant(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1}))
	cart, _, _ := f.carts.Get(userID)

	assert.NoError(t, f.carts.RemoveItem(userID, cart.Items[0].ID))

	after, _, err := f.carts.Get(userID)
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, after.ID)
	assert.Empty(t, after.Items)
	assert.EqualValues(t, 0, after.RestaurantID)

	// freed cart accepts a different restaurant now
	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.sushi.ID, Qty: 1}))
}

func TestRemoveUnknownItem(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.carts.RemoveItem(userID, 12345), services.ErrNotFound)
}

func TestClearIsNoopWithoutCart(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.carts.Clear(userID))

	assert.NoError(t, f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 2}))
	assert.NoError(t, f.carts.Clear(userID))

	cart, subtotal, _ := f.carts.Get(userID)
	assert.Empty(t, cart.Items)
	assert.EqualValues(t, 0, subtotal)

	// clearing again is still fine
	assert.NoError(t, f.carts.Clear(userID))
}

// Concurrent adds of the same menu item must merge into one line with the
// full quantity, and only one active cart may exist afterwards.
func TestConcurrentAddsKeepOneActiveCart(t *testing.T) {
	f := newFixture(t)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.carts.Add(userID, &services.AddItemIn{MenuItemID: f.burger.ID, Qty: 1})
		}()
	}
	wg.Wait()

	var carts int64
	f.db.Model(&entity.Cart{}).
		Where("user_id = ? AND status = ?", userID, entity.CartStatusActive).
		Count(&carts)
	assert.EqualValues(t, 1, carts)

	cart, _, err := f.carts.Get(userID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, workers, cart.Items[0].Qty)
}

func TestComputeSubtotal(t *testing.T) {
	cart := &entity.Cart{Items: []entity.CartItem{
		{Qty: 1, MenuItem: entity.MenuItem{Price: 1499}},
		{Qty: 2, MenuItem: entity.MenuItem{Price: 1599}},
	}}
	assert.EqualValues(t, 4697, services.ComputeSubtotal(cart))
}
