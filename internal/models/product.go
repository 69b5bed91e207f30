package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Статусы товара
const (
	ProductAvailable   = "available"
	ProductUnavailable = "unavailable"
)

// Product представляет товар в системе
type Product struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	ImageURL       string          `json:"image_url"`
	Category       string          `json:"category,omitempty"`
	Status         string          `json:"status"` // available, unavailable
	BarterRequests []BarterRequest `json:"barter_requests"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BarterRequest представляет запрос на обмен, вложенный в товар-цель.
// Запрос живёт только внутри массива barter_requests одного товара
// и не имеет самостоятельной записи в базе.
type BarterRequest struct {
	ID                  uuid.UUID `json:"id"`
	RequestingUserID    uuid.UUID `json:"requesting_user_id"`
	RequestingUserEmail string    `json:"requesting_user_email"`

	// Предложенный товар (товар инициатора обмена)
	SelectedProductID    uuid.UUID `json:"selected_product_id"`
	SelectedProductName  string    `json:"selected_product_name"`
	SelectedProductPrice float64   `json:"selected_product_price"`
	SelectedProductImage string    `json:"selected_product_image"`

	// Денормализованная копия товара-цели (родительского товара)
	BarterExchangeProductID    uuid.UUID `json:"barter_exchange_product_id"`
	BarterExchangeProductName  string    `json:"barter_exchange_product_name"`
	BarterExchangeProductPrice float64   `json:"barter_exchange_product_price"`
	BarterExchangeProductImage string    `json:"barter_exchange_product_image"`

	// Владелец товара-цели на момент создания запроса
	BarterOwnerID uuid.UUID `json:"barter_owner_id"`

	Status string `json:"status"` // pending, accepted, awaiting_payment, completed

	// Заполняются при переходе в awaiting_payment
	PaymentOrderID string  `json:"payment_order_id,omitempty"`
	PaymentAmount  float64 `json:"payment_amount,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ParseBarterRequests разбирает JSONB-массив запросов из строки товара
func ParseBarterRequests(data []byte) ([]BarterRequest, error) {
	if len(data) == 0 {
		return []BarterRequest{}, nil
	}
	var requests []BarterRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("ошибка разбора barter_requests: %w", err)
	}
	if requests == nil {
		requests = []BarterRequest{}
	}
	return requests, nil
}

// FindBarterRequest ищет запрос по ID в массиве запросов товара
func FindBarterRequest(requests []BarterRequest, requestID uuid.UUID) (BarterRequest, bool) {
	for _, r := range requests {
		if r.ID == requestID {
			return r, true
		}
	}
	return BarterRequest{}, false
}

// RemoveBarterRequest возвращает массив без запроса с указанным ID
func RemoveBarterRequest(requests []BarterRequest, requestID uuid.UUID) []BarterRequest {
	result := make([]BarterRequest, 0, len(requests))
	for _, r := range requests {
		if r.ID != requestID {
			result = append(result, r)
		}
	}
	return result
}

// ReplaceBarterRequest заменяет запрос с тем же ID в массиве
func ReplaceBarterRequest(requests []BarterRequest, updated BarterRequest) []BarterRequest {
	result := make([]BarterRequest, len(requests))
	for i, r := range requests {
		if r.ID == updated.ID {
			result[i] = updated
		} else {
			result[i] = r
		}
	}
	return result
}
