package main

import (
	"context"
	"fmt"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/repository"
	auth "shop/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

// デモ用の初期データ投入。
// 既にあるもの（email/code重複）はスキップして先へ進む。
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderLine{},
	); err != nil {
		panic(err)
	}

	ctx := context.Background()

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)

	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)

	//ユーザー2人（管理者・一般）
	users := []struct {
		name     string
		email    string
		password string
		role     model.Role
	}{
		{"Admin", "admin@example.com", "admin123", model.RoleAdmin},
		{"Demo User", "user@example.com", "user123", model.RoleUser},
	}

	for _, u := range users {
		hash, err := hasher.Hash(u.password)
		if err != nil {
			panic(err)
		}

		now := time.Now()
		err = userRepo.Create(ctx, &model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err == repository.ErrDuplicate {
			fmt.Printf("skip user %s (exists)\n", u.email)
			continue
		}
		if err != nil {
			panic(err)
		}
		fmt.Printf("created user %s (%s)\n", u.email, u.role)
	}

	//デモ商品
	products := []model.Product{
		{Name: "House Blend Coffee Beans 250g", Code: "PROD-001", Price: 12.50, Description: "Medium roast, whole bean.", Image: "/images/prod-001.png"},
		{Name: "Ceramic Pour-Over Dripper", Code: "PROD-002", Price: 24.00, Description: "Cone dripper for 1-2 cups.", Image: "/images/prod-002.png"},
		{Name: "Paper Filters (100 pack)", Code: "PROD-003", Price: 4.75, Description: "Bleached, size 02.", Image: "/images/prod-003.png"},
		{Name: "Double-Wall Glass Mug 350ml", Code: "PROD-004", Price: 15.00, Description: "Borosilicate glass.", Image: "/images/prod-004.png"},
		{Name: "Hand Grinder", Code: "PROD-005", Price: 52.00, Description: "Ceramic burr, adjustable.", Image: "/images/prod-005.png"},
		{Name: "Gooseneck Kettle 1L", Code: "PROD-006", Price: 39.90, Description: "Stainless steel, stovetop.", Image: "/images/prod-006.png"},
		{Name: "Espresso Blend Coffee Beans 1kg", Code: "PROD-007", Price: 38.00, Description: "Dark roast, whole bean.", Image: "/images/prod-007.png"},
		{Name: "Digital Scale 0.1g", Code: "PROD-008", Price: 21.50, Description: "With timer.", Image: "/images/prod-008.png"},
	}

	for _, p := range products {
		now := time.Now()
		p.CreatedAt = now
		p.UpdatedAt = now

		_, err := productRepo.Create(ctx, p)
		if err == repository.ErrDuplicate {
			fmt.Printf("skip product %s (exists)\n", p.Code)
			continue
		}
		if err != nil {
			panic(err)
		}
		fmt.Printf("created product %s %s\n", p.Code, p.Name)
	}

	fmt.Println("seed done")
}
