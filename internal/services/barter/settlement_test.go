package barter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rajivgeraev/bolend-api/internal/models"
)

// execCall фиксирует один вызов Exec
type execCall struct {
	sql  string
	args []any
}

// fakeExecer подставляется вместо pgx.Tx и возвращает заранее заданные теги
type fakeExecer struct {
	calls []execCall
	tags  []pgconn.CommandTag
	err   error
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	tag := f.tags[len(f.calls)-1]
	return tag, nil
}

func TestPaymentShortfall(t *testing.T) {
	tests := []struct {
		name         string
		targetPrice  float64
		offeredPrice float64
		want         float64
	}{
		{"требуется доплата", 1500, 1000, 500},
		{"равные цены", 700, 700, 0},
		{"предложенный товар дороже", 300, 450, -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaymentShortfall(tt.targetPrice, tt.offeredPrice)
			if got != tt.want {
				t.Errorf("PaymentShortfall(%v, %v) = %v, ожидалось %v",
					tt.targetPrice, tt.offeredPrice, got, tt.want)
			}
		})
	}
}

func TestAttachBarterRequest(t *testing.T) {
	productID := uuid.New()
	requestJSON := []byte(`[{"status": "pending"}]`)

	t.Run("available product accepts the request", func(t *testing.T) {
		fake := &fakeExecer{tags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 1")}}

		attached, err := attachBarterRequest(context.Background(), fake, productID, requestJSON)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if !attached {
			t.Fatal("запрос должен был добавиться к доступному товару")
		}

		if len(fake.calls) != 1 {
			t.Fatalf("ожидался один UPDATE, выполнено %d", len(fake.calls))
		}

		// Условие UPDATE одновременно снимает товар с витрины
		// и отсекает конкурирующий запрос
		args := fake.calls[0].args
		if args[0] != models.ProductUnavailable {
			t.Errorf("товар должен сниматься с витрины, статус %v", args[0])
		}
		if args[3] != models.ProductAvailable {
			t.Errorf("условие должно требовать статус available, получено %v", args[3])
		}
	})

	t.Run("concurrent request loses", func(t *testing.T) {
		// Товар уже снят с витрины: UPDATE не затрагивает ни одной строки
		fake := &fakeExecer{tags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 0")}}

		attached, err := attachBarterRequest(context.Background(), fake, productID, requestJSON)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if attached {
			t.Fatal("запрос не должен добавляться к недоступному товару")
		}
	})

	t.Run("database error is returned", func(t *testing.T) {
		fake := &fakeExecer{err: errors.New("connection reset")}

		if _, err := attachBarterRequest(context.Background(), fake, productID, requestJSON); err == nil {
			t.Fatal("ожидалась ошибка базы данных")
		}
	})
}

func TestSettleExchange(t *testing.T) {
	requesterID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()
	offeredID := uuid.New()

	request := models.BarterRequest{
		ID:                      uuid.New(),
		RequestingUserID:        requesterID,
		SelectedProductID:       offeredID,
		BarterExchangeProductID: targetID,
		BarterOwnerID:           ownerID,
		Status:                  StatusAccepted,
	}

	t.Run("both products change hands", func(t *testing.T) {
		fake := &fakeExecer{tags: []pgconn.CommandTag{
			pgconn.NewCommandTag("UPDATE 1"),
			pgconn.NewCommandTag("UPDATE 1"),
		}}

		if err := settleExchange(context.Background(), fake, request); err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}

		if len(fake.calls) != 2 {
			t.Fatalf("ожидалось два UPDATE, выполнено %d", len(fake.calls))
		}

		// Товар-цель переходит инициатору обмена
		targetArgs := fake.calls[0].args
		if targetArgs[0] != requesterID || targetArgs[2] != targetID {
			t.Errorf("товар-цель %v должен перейти пользователю %v, аргументы %v",
				targetID, requesterID, targetArgs)
		}
		if targetArgs[1] != models.ProductUnavailable {
			t.Errorf("товар-цель должен сниматься с витрины, статус %v", targetArgs[1])
		}

		// Предложенный товар переходит прежнему владельцу цели
		offeredArgs := fake.calls[1].args
		if offeredArgs[0] != ownerID || offeredArgs[2] != offeredID {
			t.Errorf("предложенный товар %v должен перейти пользователю %v, аргументы %v",
				offeredID, ownerID, offeredArgs)
		}
		if offeredArgs[1] != models.ProductUnavailable {
			t.Errorf("предложенный товар должен сниматься с витрины, статус %v", offeredArgs[1])
		}
	})

	t.Run("missing offered product fails the batch", func(t *testing.T) {
		fake := &fakeExecer{tags: []pgconn.CommandTag{
			pgconn.NewCommandTag("UPDATE 1"),
			pgconn.NewCommandTag("UPDATE 0"),
		}}

		if err := settleExchange(context.Background(), fake, request); err == nil {
			t.Fatal("обмен не должен завершаться, если второй товар не найден")
		}
	})

	t.Run("missing target product fails before the second update", func(t *testing.T) {
		fake := &fakeExecer{tags: []pgconn.CommandTag{
			pgconn.NewCommandTag("UPDATE 0"),
		}}

		if err := settleExchange(context.Background(), fake, request); err == nil {
			t.Fatal("обмен не должен завершаться, если товар-цель не найден")
		}
		if len(fake.calls) != 1 {
			t.Fatalf("после неудачи первого UPDATE второй не должен выполняться, выполнено %d", len(fake.calls))
		}
	})
}
