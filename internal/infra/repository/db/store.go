package db

import (
	"context"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store 統一的資料庫介面
// ExecTx 內拿到的Store操作同一個transaction
type Store interface {
	GetDB() *gorm.DB
	InitMigrate() error
	ExecTx(ctx context.Context, fn func(Store) error) error

	IProductRepository
	IStockRepository
	IOrderRepository
	IAddressRepository
	IUserRepository
}

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID uint) (*model.Product, error)
	GetProductByIDForUpdate(ctx context.Context, productID uint) (*model.Product, error)
	GetProductBySku(ctx context.Context, sku string) (*model.Product, error)
	ListActiveProducts(ctx context.Context) ([]model.Product, error)
	SetProductActive(ctx context.Context, productID uint, active bool) error
}

// IStockRepository Stock 相關操作介面
// Reserve / Release / AdjustStock 一定要在ExecTx裡呼叫
type IStockRepository interface {
	CreateWarehouse(ctx context.Context, warehouse *model.Warehouse) error
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)
	CreateStock(ctx context.Context, stock *model.Stock) error
	GetStocksByProduct(ctx context.Context, productID uint) ([]model.Stock, error)
	Reserve(ctx context.Context, productID uint, warehouseID *uint, quantity int) (*model.Reservation, error)
	Release(ctx context.Context, productID, warehouseID uint, quantity int) error
	AdjustStock(ctx context.Context, productID, warehouseID uint, newQuantity int) error
	RecomputeStockCache(ctx context.Context, productID uint) (int, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetOrderByIDForUpdate(ctx context.Context, id string) (*model.Order, error)
	ListOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	ListAllOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	UpdateOrderItemQuantity(ctx context.Context, item *model.OrderItem) error
	RecalcOrderSum(ctx context.Context, orderID string) (decimal.Decimal, error)
}

// IAddressRepository DeliveryAddress 相關操作介面
type IAddressRepository interface {
	CreateAddress(ctx context.Context, address *model.DeliveryAddress) error
	GetAddressByID(ctx context.Context, id uint) (*model.DeliveryAddress, error)
	ListAddressesByUserID(ctx context.Context, userID uint) ([]model.DeliveryAddress, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

// StoreImpl 統一資料庫實現
type StoreImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*ProductRepo
	*StockRepo
	*OrderRepo
	*AddressRepo
	*UserRepo
}

// NewStore 創建新的統一資料庫實例
func NewStore(db *gorm.DB) *StoreImpl {
	dbDao := NewDbDao(db)
	return &StoreImpl{
		db:          db,
		dbDao:       dbDao,
		ProductRepo: NewProductRepo(dbDao),
		StockRepo:   NewStockRepo(dbDao),
		OrderRepo:   NewOrderRepo(dbDao),
		AddressRepo: NewAddressRepo(dbDao),
		UserRepo:    NewUserRepo(dbDao),
	}
}

func (s *StoreImpl) GetDB() *gorm.DB {
	return s.db
}

func (s *StoreImpl) InitMigrate() error {
	return s.dbDao.InitMigrate()
}

// ExecTx 把整個workflow包進一個transaction
// fn回傳錯誤就整包rollback，包含已扣的庫存
func (s *StoreImpl) ExecTx(ctx context.Context, fn func(Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return translateDBErr(err)
}

var _ Store = (*StoreImpl)(nil)
