package services_test

import (
	"fmt"
	"testing"

	"backend/entity"
	"backend/repository"
	"backend/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a per-test in-memory database. The named-memory DSN keeps
// every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{}, &entity.MenuItem{},
		&entity.Cart{}, &entity.CartItem{},
		&entity.Order{}, &entity.OrderItem{}, &entity.OrderTracking{},
		&entity.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type fixture struct {
	db    *gorm.DB
	carts *services.CartService

	restaurantA entity.Restaurant
	restaurantB entity.Restaurant
	burger      entity.MenuItem // 1499, restaurant A
	pizza       entity.MenuItem // 1599, restaurant A
	sushi       entity.MenuItem // 2299, restaurant B
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{db: db}
	f.restaurantA = entity.Restaurant{Name: "Burger Barn", UserID: 100}
	f.restaurantB = entity.Restaurant{Name: "Sushi Spot", UserID: 200}
	if err := db.Create(&f.restaurantA).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	if err := db.Create(&f.restaurantB).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}

	f.burger = entity.MenuItem{Name: "Classic Burger", Price: 1499, RestaurantID: f.restaurantA.ID}
	f.pizza = entity.MenuItem{Name: "Margherita", Price: 1599, RestaurantID: f.restaurantA.ID}
	f.sushi = entity.MenuItem{Name: "Salmon Set", Price: 2299, RestaurantID: f.restaurantB.ID}
	for _, m := range []*entity.MenuItem{&f.burger, &f.pizza, &f.sushi} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed menu item: %v", err)
		}
	}

	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	f.carts = services.NewCartService(db, cartRepo, orderRepo)
	return f
}
