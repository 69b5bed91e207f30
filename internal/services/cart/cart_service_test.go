package cart

import (
	"testing"

	"github.com/rajivgeraev/bolend-api/internal/models"
)

func TestCartTotal(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		if got := CartTotal(nil); got != 0 {
			t.Errorf("CartTotal(nil) = %v, ожидалось 0", got)
		}
	})

	t.Run("sums current prices", func(t *testing.T) {
		products := []models.Product{
			{Name: "Книга", Price: 250},
			{Name: "Лампа", Price: 1200.50},
			{Name: "Стул", Price: 0},
		}
		if got := CartTotal(products); got != 1450.50 {
			t.Errorf("CartTotal = %v, ожидалось 1450.50", got)
		}
	})
}

func TestCheckoutOrderMatches(t *testing.T) {
	payload := models.PaymentVerification{
		OrderCreationID: "order_cart_1",
		RazorpayOrderID: "order_cart_1",
	}

	t.Run("matching order", func(t *testing.T) {
		if !checkoutOrderMatches(payload, "order_cart_1") {
			t.Fatal("платёж по привязанному заказу должен приниматься")
		}
	})

	t.Run("no checkout order bound", func(t *testing.T) {
		// Подпись реального, но чужого платежа без checkout не принимается
		if checkoutOrderMatches(payload, "") {
			t.Fatal("без привязанного заказа платёж не должен приниматься")
		}
	})

	t.Run("foreign order", func(t *testing.T) {
		// Валидная подпись заказа на другую сумму не передает корзину
		if checkoutOrderMatches(payload, "order_other") {
			t.Fatal("платёж по чужому заказу не должен приниматься")
		}
	})

	t.Run("inconsistent payload order ids", func(t *testing.T) {
		mixed := models.PaymentVerification{
			OrderCreationID: "order_cart_1",
			RazorpayOrderID: "order_other",
		}
		if checkoutOrderMatches(mixed, "order_cart_1") {
			t.Fatal("расходящиеся ID заказа в платеже не должны приниматься")
		}
	})
}
