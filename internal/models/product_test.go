package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseBarterRequests(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		requests, err := ParseBarterRequests(nil)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if requests == nil || len(requests) != 0 {
			t.Errorf("ожидался пустой массив, получено %v", requests)
		}
	})

	t.Run("json null", func(t *testing.T) {
		requests, err := ParseBarterRequests([]byte("null"))
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if requests == nil {
			t.Error("ожидался пустой массив вместо nil")
		}
	})

	t.Run("valid array", func(t *testing.T) {
		id := uuid.New()
		data := []byte(`[{"id": "` + id.String() + `", "status": "pending"}]`)
		requests, err := ParseBarterRequests(data)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if len(requests) != 1 || requests[0].ID != id || requests[0].Status != "pending" {
			t.Errorf("некорректный разбор: %+v", requests)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := ParseBarterRequests([]byte(`{not json`)); err == nil {
			t.Error("ожидалась ошибка разбора")
		}
	})
}

func TestFindBarterRequest(t *testing.T) {
	first := BarterRequest{ID: uuid.New(), Status: "pending"}
	second := BarterRequest{ID: uuid.New(), Status: "accepted"}
	requests := []BarterRequest{first, second}

	got, ok := FindBarterRequest(requests, second.ID)
	if !ok || got.ID != second.ID {
		t.Errorf("FindBarterRequest не нашёл запрос %s", second.ID)
	}

	if _, ok := FindBarterRequest(requests, uuid.New()); ok {
		t.Error("FindBarterRequest нашёл несуществующий запрос")
	}
}

func TestRemoveBarterRequest(t *testing.T) {
	first := BarterRequest{ID: uuid.New()}
	second := BarterRequest{ID: uuid.New()}
	requests := []BarterRequest{first, second}

	result := RemoveBarterRequest(requests, first.ID)
	if len(result) != 1 || result[0].ID != second.ID {
		t.Errorf("ожидался массив из одного запроса %s, получено %+v", second.ID, result)
	}

	// Удаление отсутствующего ID ничего не меняет
	result = RemoveBarterRequest(requests, uuid.New())
	if len(result) != 2 {
		t.Errorf("массив не должен был измениться, получено %+v", result)
	}
}

func TestReplaceBarterRequest(t *testing.T) {
	first := BarterRequest{ID: uuid.New(), Status: "pending"}
	second := BarterRequest{ID: uuid.New(), Status: "pending"}
	requests := []BarterRequest{first, second}

	updated := first
	updated.Status = "accepted"
	updated.PaymentOrderID = "order_123"

	result := ReplaceBarterRequest(requests, updated)
	if len(result) != 2 {
		t.Fatalf("длина массива изменилась: %d", len(result))
	}
	if result[0].Status != "accepted" || result[0].PaymentOrderID != "order_123" {
		t.Errorf("запрос не заменён: %+v", result[0])
	}
	if result[1].Status != "pending" {
		t.Errorf("чужой запрос изменён: %+v", result[1])
	}
}
