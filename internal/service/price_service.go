package service

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
)

// ResolveCurrentPrice 從一批價格列挑出now當下生效的那筆
// 規則: is_active且落在[start_date, end_date]區間，priceTypeCode給定時再過濾類型，
// 依priority desc、start_date desc排序取第一筆，價格重疊時永遠有唯一贏家
// 無任何符合回傳nil，由呼叫端決定怎麼呈現，絕不默默補零
func ResolveCurrentPrice(prices []model.Price, priceTypeCode string, now time.Time) *model.Price {
	var best *model.Price
	for i := range prices {
		p := &prices[i]
		if !p.ActiveAt(now) {
			continue
		}
		if priceTypeCode != "" && (p.PriceType == nil || p.PriceType.Code != priceTypeCode) {
			continue
		}
		if best == nil || betterPrice(p, best) {
			best = p
		}
	}
	return best
}

// betterPrice a是否優先於b
// priority、start_date都相同時用price_id最小當tiebreak，結果才是確定性的
func betterPrice(a, b *model.Price) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.PriceID < b.PriceID
}

type IPriceResolver interface {
	CurrentPrice(ctx context.Context, productID uint, priceTypeCode string) (*model.Price, error)
}

type PriceResolver struct {
	store db.Store
}

func NewPriceResolver(store db.Store) *PriceResolver {
	return &PriceResolver{store: store}
}

// CurrentPrice 查出商品價格列後做記憶體內解析，沒有副作用
func (p *PriceResolver) CurrentPrice(ctx context.Context, productID uint, priceTypeCode string) (*model.Price, error) {
	product, err := p.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ResolveCurrentPrice(product.Prices, priceTypeCode, time.Now()), nil
}

var _ IPriceResolver = (*PriceResolver)(nil)
