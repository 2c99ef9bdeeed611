package services

import (
	"errors"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

// RestaurantService is the read-only catalog surface plus the room access
// check the fanout gateway needs.
type RestaurantService struct {
	Repo *repository.RestaurantRepository
}

func NewRestaurantService(repo *repository.RestaurantRepository) *RestaurantService {
	return &RestaurantService{Repo: repo}
}

func (s *RestaurantService) List() ([]entity.Restaurant, error) {
	return s.Repo.List()
}

func (s *RestaurantService) Detail(id uint) (*entity.Restaurant, error) {
	r, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *RestaurantService) Menu(restaurantID uint) ([]entity.MenuItem, error) {
	if _, err := s.Detail(restaurantID); err != nil {
		return nil, err
	}
	return s.Repo.MenuItems(restaurantID)
}

// CanJoinRestaurant allows only the owning account into the vendor's order
// feed room.
func (s *RestaurantService) CanJoinRestaurant(userID, restaurantID uint) (bool, error) {
	return s.Repo.IsOwnedBy(restaurantID, userID)
}
