package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（email / code / user+product）
var ErrDuplicate = errors.New("duplicate")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//新しい順で全件
	ListAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByCode(ctx context.Context, code string) (model.Product, error)

	//code重複は ErrDuplicate
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
