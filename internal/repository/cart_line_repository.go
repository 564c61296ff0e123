package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartLineRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 同一商品はプラス
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error
	//本人の明細のみ削除。他人・不存在は0件更新で何もしない
	DeleteByIDAndUser(ctx context.Context, lineID int64, userID int64) error
	DeleteByID(ctx context.Context, lineID int64) error
	ClearByUserID(ctx context.Context, userID int64) error
}
