package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type CartLineGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartLineGormRepository(db *gorm.DB) *CartLineGormRepository {
	return &CartLineGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartLineGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

// 同一商品は数量加算
// 読み→書きの間のロックは取らない（同時追加のlost updateは許容）。
func (r *CartLineGormRepository) UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line model.CartLine

		err := tx.
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&line).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			newQty := line.Quantity + addQty

			res := tx.Model(&model.CartLine{}).
				Where("id = ?", line.ID).
				Update("quantity", newQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		newLine := model.CartLine{
			UserID:    userID,
			ProductID: productID,
			Quantity:  addQty,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newLine).Error; err != nil {
			if isUniqueViolation(err) {
				return repo.ErrDuplicate
			}
			return err
		}

		return nil
	})
}

// 本人の明細のみ削除。0件更新はエラーにしない（no-op）。
func (r *CartLineGormRepository) DeleteByIDAndUser(ctx context.Context, lineID int64, userID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&model.CartLine{}).Error
}

// IDで明細を削除（lazy pruning用）
func (r *CartLineGormRepository) DeleteByID(ctx context.Context, lineID int64) error {
	return r.db.WithContext(ctx).Delete(&model.CartLine{}, lineID).Error
}

// ユーザーの明細を全削除
func (r *CartLineGormRepository) ClearByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLine{}).Error
}
