package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/validator"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

// カタログ一覧（作成の新しい順）
func (u *ProductUsecase) ListProducts(ctx context.Context) (ProductListOutput, error) {
	items, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: len(items),
	}, nil
}

func (u *ProductUsecase) GetProductByCode(ctx context.Context, code string) (model.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	p, err := u.productRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type AdminProductInput struct {
	Name        string  `validate:"required,min=1,max=255"`
	Code        string  `validate:"required,min=1,max=100"`
	Price       float64 `validate:"required,gt=0"`
	Description string  `validate:"max=5000"`
	Image       string  `validate:"max=500"`
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)

	//価格>0・必須項目は項目別エラーで返す
	if fields := validator.Struct(in); fields != nil {
		return model.Product{}, NewValidationError(fields)
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        in.Name,
		Code:        in.Code,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err == repo.ErrDuplicate {
		return model.Product{}, NewHTTPError(http.StatusConflict, "code already exists")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// codeで指定した商品を更新する。codeそのものは変更しない。
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, code string, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Code = code

	if fields := validator.Struct(in); fields != nil {
		return model.Product{}, NewValidationError(fields)
	}

	p, err := u.productRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p.Name = in.Name
	p.Price = in.Price
	p.Description = in.Description
	p.Image = in.Image

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetProductByCode(ctx, code)
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, code string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	p, err := u.productRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.productRepo.SoftDelete(ctx, p.ID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
