package db

import (
	"context"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"gorm.io/gorm/clause"
)

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return translateDBErr(s.db.WithContext(ctx).Create(product).Error)
}

// Read - 根據ID查詢商品，帶出價格與庫存明細
func (s *ProductRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Preload("Prices.PriceType").
		Preload("Stocks").
		First(&product, "product_id = ?", productID).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	return &product, nil
}

// Read - 同GetProductByID但鎖商品列
// checkout途中商品被停售的race由這把鎖擋住
func (s *ProductRepo) GetProductByIDForUpdate(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "product_id = ?", productID).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	if err := s.db.WithContext(ctx).Preload("PriceType").
		Where("product_id = ?", productID).
		Find(&product.Prices).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return &product, nil
}

func (s *ProductRepo) GetProductBySku(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, translateDBErr(err)
	}
	return &product, nil
}

// Read - 查詢所有上架商品
func (s *ProductRepo) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&products).Error
	return products, translateDBErr(err)
}

func (s *ProductRepo) SetProductActive(ctx context.Context, productID uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", productID).
		Update("is_active", active)
	return translateDBErr(res.Error)
}
