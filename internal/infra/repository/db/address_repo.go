package db

import (
	"context"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
)

type AddressRepo struct {
	db *DbDao
}

func NewAddressRepo(db *DbDao) *AddressRepo {
	return &AddressRepo{db: db}
}

func (s *AddressRepo) CreateAddress(ctx context.Context, address *model.DeliveryAddress) error {
	return translateDBErr(s.db.WithContext(ctx).Create(address).Error)
}

func (s *AddressRepo) GetAddressByID(ctx context.Context, id uint) (*model.DeliveryAddress, error) {
	var address model.DeliveryAddress
	err := s.db.WithContext(ctx).First(&address, "address_id = ?", id).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	return &address, nil
}

func (s *AddressRepo) ListAddressesByUserID(ctx context.Context, userID uint) ([]model.DeliveryAddress, error) {
	var addresses []model.DeliveryAddress
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("address_id").
		Find(&addresses).Error
	return addresses, translateDBErr(err)
}
