package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// チェックアウト→支払い確定→履歴の流れ。
func Test_Orders_Checkout_Confirm_History(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()

	adminToken, _ := registerAndLogin(t, c, ctx, "order_admin", "ADMIN")
	userToken, _ := registerAndLogin(t, c, ctx, "order_user", "USER")

	pa := createProduct(t, c, ctx, adminToken, "Order Beans A", 10.0)
	pb := createProduct(t, c, ctx, adminToken, "Order Beans B", 5.0)

	//空カートのチェックアウトは400
	resp, body := c.doJSON(ctx, t, http.MethodPost, "/orders", userToken, nil)
	requireStatus(t, resp, http.StatusBadRequest, body)
	e := mustDecodeError(t, body)
	if e.Error != "cart empty" {
		t.Fatalf("unexpected error: %s", e.Error)
	}

	//カートに積む: A×2 + B×1
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/cart/lines", userToken, mustMarshal(t, map[string]interface{}{
		"product_id": pa.ID, "quantity": 2,
	}))
	requireStatus(t, resp, http.StatusOK, body)
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/cart/lines", userToken, mustMarshal(t, map[string]interface{}{
		"product_id": pb.ID, "quantity": 1,
	}))
	requireStatus(t, resp, http.StatusOK, body)

	//チェックアウト（201、PENDING、合計25.00）
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/orders", userToken, nil)
	requireStatus(t, resp, http.StatusCreated, body)
	created := mustDecodeOrder(t, body)
	if created.Status != "PENDING" {
		t.Fatalf("unexpected status: %s", created.Status)
	}
	if created.Total < 24.99 || created.Total > 25.01 {
		t.Fatalf("unexpected total: %f", created.Total)
	}
	if len(created.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(created.Lines))
	}

	//カートは空になった
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/cart", userToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	cart := mustDecodeCart(t, body)
	if len(cart.Lines) != 0 {
		t.Fatalf("cart must be empty after checkout, got %+v", cart)
	}

	//商品を削除しても注文は変わらない（スナップショット）
	resp, body = c.doJSON(ctx, t, http.MethodDelete, "/admin/products/"+pa.Code, adminToken, nil)
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = c.doJSON(ctx, t, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), userToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	detail := mustDecodeOrder(t, body)
	if detail.Total != created.Total || len(detail.Lines) != 2 {
		t.Fatalf("snapshot changed: %+v", detail)
	}

	//支払い確定（PAID + payment_ref）
	resp, body = c.doJSON(ctx, t, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", created.ID), userToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	paid := mustDecodeOrder(t, body)
	if paid.Status != "PAID" {
		t.Fatalf("unexpected status: %s", paid.Status)
	}
	if !strings.HasPrefix(paid.PaymentRef, "PAYMENT-") {
		t.Fatalf("unexpected payment_ref: %s", paid.PaymentRef)
	}

	//再確定は404で参照は据え置き
	resp, body = c.doJSON(ctx, t, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", created.ID), userToken, nil)
	requireStatus(t, resp, http.StatusNotFound, body)

	resp, body = c.doJSON(ctx, t, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), userToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	after := mustDecodeOrder(t, body)
	if after.PaymentRef != paid.PaymentRef {
		t.Fatalf("payment_ref regenerated: %s -> %s", paid.PaymentRef, after.PaymentRef)
	}

	//履歴に載っている
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/orders", userToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	var history []OrderDTO
	if err := json.Unmarshal(body, &history); err != nil {
		t.Fatalf("json.Unmarshal([]OrderDTO) failed: %v body=%s", err, string(body))
	}
	if len(history) != 1 || history[0].ID != created.ID {
		t.Fatalf("unexpected history: %+v", history)
	}

	//他人の注文は見えない
	otherToken, _ := registerAndLogin(t, c, ctx, "order_other", "USER")
	resp, body = c.doJSON(ctx, t, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), otherToken, nil)
	requireStatus(t, resp, http.StatusNotFound, body)
	resp, body = c.doJSON(ctx, t, http.MethodPost, fmt.Sprintf("/orders/%d/confirm", created.ID), otherToken, nil)
	requireStatus(t, resp, http.StatusNotFound, body)
}
