package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// 商品の作成→取得→更新→削除（管理者）と閲覧（一般ユーザー）。
func Test_Products_AdminCRUD_And_UserRead(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()

	adminToken, _ := registerAndLogin(t, c, ctx, "prod_admin", "ADMIN")
	userToken, _ := registerAndLogin(t, c, ctx, "prod_user", "USER")

	//Create（admin、201）
	code := fmt.Sprintf("E2E-%d", time.Now().UnixNano())
	resp, body := c.doJSON(ctx, t, http.MethodPost, "/admin/products", adminToken, mustMarshal(t, map[string]interface{}{
		"name":        "Test Espresso",
		"code":        code,
		"price":       3.5,
		"description": "e2e product",
	}))
	requireStatus(t, resp, http.StatusCreated, body)
	created := mustDecodeProduct(t, body)
	if created.ID <= 0 {
		t.Fatalf("created.id invalid: %d", created.ID)
	}

	//同じcodeの再作成は409
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/admin/products", adminToken, mustMarshal(t, map[string]interface{}{
		"name":  "Another",
		"code":  code,
		"price": 4.0,
	}))
	requireStatus(t, resp, http.StatusConflict, body)

	//価格0は項目別エラー
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/admin/products", adminToken, mustMarshal(t, map[string]interface{}{
		"name":  "Free",
		"code":  code + "-FREE",
		"price": 0,
	}))
	requireStatus(t, resp, http.StatusBadRequest, body)
	e := mustDecodeError(t, body)
	if _, ok := e.Fields["price"]; !ok {
		t.Fatalf("missing price field error: body=%s", string(body))
	}

	//一般ユーザーは詳細を見られる
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/products/"+code, userToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	got := mustDecodeProduct(t, body)
	if got.Name != "Test Espresso" {
		t.Fatalf("unexpected name: %s", got.Name)
	}

	//未ログインは401
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/products/"+code, "", nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)

	//一般ユーザーの管理APIは403
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/admin/products", userToken, mustMarshal(t, map[string]interface{}{
		"name":  "Sneaky",
		"code":  code + "-X",
		"price": 1.0,
	}))
	requireStatus(t, resp, http.StatusForbidden, body)

	//Update（codeは不変、nameとpriceが変わる）
	resp, body = c.doJSON(ctx, t, http.MethodPut, "/admin/products/"+code, adminToken, mustMarshal(t, map[string]interface{}{
		"name":  "Renamed Espresso",
		"price": 4.5,
	}))
	requireStatus(t, resp, http.StatusOK, body)
	updated := mustDecodeProduct(t, body)
	if updated.Code != code || updated.Name != "Renamed Espresso" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	//一覧に出ている
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/products", userToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	var list ProductListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("json.Unmarshal(ProductListResponse) failed: %v body=%s", err, string(body))
	}
	found := false
	for _, p := range list.Items {
		if p.Code == code {
			found = true
		}
	}
	if !found {
		t.Fatalf("product %s not in list", code)
	}

	//Delete
	resp, body = c.doJSON(ctx, t, http.MethodDelete, "/admin/products/"+code, adminToken, nil)
	requireStatus(t, resp, http.StatusOK, body)

	//削除後は404
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/products/"+code, userToken, nil)
	requireStatus(t, resp, http.StatusNotFound, body)

	//二重削除も404
	resp, body = c.doJSON(ctx, t, http.MethodDelete, "/admin/products/"+code, adminToken, nil)
	requireStatus(t, resp, http.StatusNotFound, body)
}
