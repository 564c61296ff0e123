package usecase

import (
	"context"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
)

// OrderUsecase はチェックアウト（カート→注文→支払い確定）の調整役です。
// 注文作成は注文INSERT・明細INSERT・カートクリアをひとつのTxで行う。
// 途中で失敗したら全部ロールバックされ、中途半端な注文は見えない。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineOutput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Status     string            `json:"status"`
	Total      float64           `json:"total"`
	PaymentRef string            `json:"payment_ref"`
	CreatedAt  time.Time         `json:"created_at"`
	Lines      []OrderLineOutput `json:"lines"`
}

// CreateOrder はカートから注文を作る。
// 有効な明細ゼロなら"cart empty"。合計は作成時点のカタログ価格で確定。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartLines, err := r.CartLines().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//商品が消えた明細はここでも除外（prune）しつつスナップショットを作る
		orderLines := make([]model.OrderLine, 0, len(cartLines))
		var total float64 = 0
		now := time.Now()

		for _, cl := range cartLines {
			p, err := r.Products().FindByID(ctx, cl.ProductID)
			if err == repo.ErrNotFound {
				if err := r.CartLines().DeleteByID(ctx, cl.ID); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//スナップショット（コピーであり参照ではない）
			orderLines = append(orderLines, model.OrderLine{
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  cl.Quantity,
				CreatedAt: now,
			})

			total += p.Price * float64(cl.Quantity)
		}

		if len(orderLines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		// 注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:    userID,
			Total:     total,
			Status:    model.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderLines().CreateBulk(ctx, orderID, orderLines); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをクリア
		if err := r.CartLines().ClearByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:        orderID,
			UserID:    userID,
			Total:     total,
			Status:    model.OrderStatusPending,
			CreatedAt: now,
		}
		out = toOrderOutput(created, orderLines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ConfirmPayment は支払い確定（外部ゲートウェイなしの擬似決済）。
// PENDINGの自分の注文だけが対象。PAID済みの再確定は404で、参照は再発行されない。
func (u *OrderUsecase) ConfirmPayment(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//確定ごとに一意な支払い参照
	paymentRef := "PAYMENT-" + uuid.NewString()

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().MarkPaid(ctx, orderID, userID, paymentRef); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ListMyOrders は注文履歴（新しい順、明細つき）。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, lines))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, lines []model.OrderLine) OrderOutput {
	outLines := make([]OrderLineOutput, 0, len(lines))
	for _, ln := range lines {
		outLines = append(outLines, OrderLineOutput{
			Name:     ln.Name,
			Price:    ln.Price,
			Quantity: ln.Quantity,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		Total:      o.Total,
		PaymentRef: o.PaymentRef,
		CreatedAt:  o.CreatedAt,
		Lines:      outLines,
	}
}
