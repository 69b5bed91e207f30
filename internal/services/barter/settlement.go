package barter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rajivgeraev/bolend-api/internal/models"
)

// execer покрывает Exec у pgxpool.Pool и pgx.Tx
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PaymentShortfall возвращает доплату, которую инициатор обмена должен
// внести сверх своего товара. Платит всегда инициатор: если желаемый товар
// дороже предложенного, разница покрывается деньгами. Ноль или меньше -
// обмен без доплаты.
func PaymentShortfall(targetPrice, offeredPrice float64) float64 {
	return targetPrice - offeredPrice
}

// attachBarterRequest снимает товар-цель с витрины и добавляет запрос
// в его массив одним условным UPDATE. Если статус товара уже не available,
// обновление не затрагивает ни одной строки и запрос не добавляется.
func attachBarterRequest(ctx context.Context, ex execer, productID uuid.UUID, requestJSON []byte) (bool, error) {
	tag, err := ex.Exec(ctx, `
		UPDATE products
		SET status = $1, barter_requests = barter_requests || $2::jsonb, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.ProductUnavailable, requestJSON, productID, models.ProductAvailable)

	if err != nil {
		return false, fmt.Errorf("ошибка сохранения запроса на обмен: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// settleExchange выполняет атомарную передачу владения обоими товарами.
// Вызывается внутри транзакции: либо обновляются обе строки, либо ни одной.
// Товар-цель переходит инициатору обмена, предложенный товар - прежнему
// владельцу цели; оба снимаются с витрины, запросы на обмен очищаются.
func settleExchange(ctx context.Context, tx execer, request models.BarterRequest) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET user_id = $1, status = $2, barter_requests = '[]', updated_at = NOW()
		WHERE id = $3
	`, request.RequestingUserID, models.ProductUnavailable, request.BarterExchangeProductID)

	if err != nil {
		return fmt.Errorf("ошибка передачи товара-цели: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("товар-цель %s не найден", request.BarterExchangeProductID)
	}

	tag, err = tx.Exec(ctx, `
		UPDATE products
		SET user_id = $1, status = $2, barter_requests = '[]', updated_at = NOW()
		WHERE id = $3
	`, request.BarterOwnerID, models.ProductUnavailable, request.SelectedProductID)

	if err != nil {
		return fmt.Errorf("ошибка передачи предложенного товара: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("предложенный товар %s не найден", request.SelectedProductID)
	}

	return nil
}
