package usecase

import (
	"context"
	"net/http"

	repo "shop/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartLineRepo repo.CartLineRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartLineRepo repo.CartLineRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartLineRepo: cartLineRepo,
		productRepo:  productRepo,
	}
}

// priceは現在のカタログ価格（スナップショットではない）。
// チェックアウト前の表示合計は、管理者の価格変更で変わりうる。
type CartLineResponse struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total float64            `json:"total"`
}

type AddCartLineInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得。
// 商品が消えた明細はここで削除して結果から除外する（lazy pruning）。
// 読みと削除はアトミックではないが、冪等なので次回の表示で自己回復する。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := u.cartLineRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respLines := make([]CartLineResponse, 0, len(lines))
	var total float64 = 0

	for _, ln := range lines {
		p, err := u.productRepo.FindByID(ctx, ln.ProductID)
		if err == repo.ErrNotFound {
			//商品が削除済みなら明細ごと消す
			_ = u.cartLineRepo.DeleteByID(ctx, ln.ID)
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		respLines = append(respLines, CartLineResponse{
			ID:        ln.ID,
			ProductID: ln.ProductID,
			Name:      p.Name,
			Code:      p.Code,
			Price:     p.Price,
			Quantity:  ln.Quantity,
		})

		total += p.Price * float64(ln.Quantity)
	}

	return CartResponse{Lines: respLines, Total: total}, nil
}

// AddLine はカートに追加（同一商品は数量加算、上限なし）。
func (u *CartUsecase) AddLine(ctx context.Context, userID int64, in AddCartLineInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック
	_, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）
	if err := u.cartLineRepo.UpsertByUserAndProduct(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// RemoveLine は明細削除。
// 不存在・他人の明細はエラーにしない（no-op）。
func (u *CartUsecase) RemoveLine(ctx context.Context, userID int64, lineID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if lineID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.cartLineRepo.DeleteByIDAndUser(ctx, lineID, userID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// Clear はカートを空にする。
func (u *CartUsecase) Clear(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.cartLineRepo.ClearByUserID(ctx, userID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{Lines: []CartLineResponse{}, Total: 0}, nil
}
