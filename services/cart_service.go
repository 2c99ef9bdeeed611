package services

import (
	"errors"
	"sync"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

// CartService owns the mutable pre-order basket. All mutations for one user
// run under that user's lock: two racing add-item calls must not produce
// duplicate lines or lost quantities.
type CartService struct {
	DB        *gorm.DB
	CartRepo  *repository.CartRepository
	OrderRepo *repository.OrderRepository // menu lookups

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, or *repository.OrderRepository) *CartService {
	return &CartService{DB: db, CartRepo: cr, OrderRepo: or, locks: make(map[uint]*sync.Mutex)}
}

// userLock returns the per-user mutex, creating it on first use.
func (s *CartService) userLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// LockUser serializes an external critical section (checkout) with this
// user's cart mutations. Returns the unlock func.
func (s *CartService) LockUser(userID uint) func() {
	l := s.userLock(userID)
	l.Lock()
	return l.Unlock
}

type AddItemIn struct {
	MenuItemID uint   `json:"menuItemId" binding:"required"`
	Qty        int    `json:"qty" binding:"min=1"`
	Note       string `json:"note"`
}

type UpdateItemIn struct {
	Qty  int    `json:"qty" binding:"min=1"`
	Note string `json:"note"`
}

// Get returns the active cart (created lazily) with its live subtotal.
func (s *CartService) Get(userID uint) (*entity.Cart, int64, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	c, err := s.CartRepo.GetOrCreateActiveCart(s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	return c, ComputeSubtotal(c), nil
}

// ComputeSubtotal sums unit price x quantity over live menu data. Pure; the
// cart must have been loaded with its menu items.
func ComputeSubtotal(c *entity.Cart) int64 {
	var subtotal int64
	for _, it := range c.Items {
		subtotal += it.MenuItem.Price * int64(it.Qty)
	}
	return subtotal
}

// Add puts a menu item into the user's active cart. Same menu item merges
// into the existing line (quantities summed, newer non-empty note wins). An
// item from a different restaurant than the cart's is rejected before any
// write.
func (s *CartService) Add(userID uint, in *AddItemIn) error {
	if in.Qty <= 0 {
		in.Qty = 1
	}

	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	m, err := s.OrderRepo.GetMenuItem(s.DB, in.MenuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		c, err := s.CartRepo.GetOrCreateActiveCart(tx, userID)
		if err != nil {
			return err
		}

		if c.RestaurantID != 0 && c.RestaurantID != m.RestaurantID {
			return ErrRestaurantConflict
		}
		if c.RestaurantID == 0 {
			if err := s.CartRepo.SetRestaurant(tx, c.ID, m.RestaurantID); err != nil {
				return err
			}
		}

		exist, err := s.CartRepo.FindItemByMenu(tx, c.ID, m.ID)
		if err == nil {
			exist.Qty += in.Qty
			if in.Note != "" {
				exist.Note = in.Note
			}
			return s.CartRepo.SaveItem(tx, exist)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		line := &entity.CartItem{CartID: c.ID, MenuItemID: m.ID, Qty: in.Qty, Note: in.Note}
		return s.CartRepo.CreateItem(tx, line)
	})
}

// UpdateItem changes quantity/note of a line in the user's active cart.
func (s *CartService) UpdateItem(userID, itemID uint, in *UpdateItemIn) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		it, err := s.CartRepo.FindOwnedItem(tx, userID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		it.Qty = in.Qty
		it.Note = in.Note
		return s.CartRepo.SaveItem(tx, it)
	})
}

// RemoveItem deletes one line. Removing the last line keeps the cart but
// unbinds its restaurant so the next add can pick any vendor.
func (s *CartService) RemoveItem(userID, itemID uint) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		it, err := s.CartRepo.FindOwnedItem(tx, userID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.CartRepo.RemoveItem(tx, it.ID); err != nil {
			return err
		}
		n, err := s.CartRepo.CountItems(tx, it.CartID)
		if err != nil {
			return err
		}
		if n == 0 {
			return s.CartRepo.SetRestaurant(tx, it.CartID, 0)
		}
		return nil
	})
}

// Clear wipes the cart. Not an error when the cart is empty or absent.
func (s *CartService) Clear(userID uint) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.ClearItems(tx, userID)
	})
}
