package models

// CheckoutOptions представляет конфигурацию hosted checkout Razorpay,
// которую фронтенд передаёт в window.Razorpay(options)
type CheckoutOptions struct {
	Key         string          `json:"key"`
	Amount      int64           `json:"amount"` // в минимальных единицах валюты
	Currency    string          `json:"currency"`
	OrderID     string          `json:"order_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Prefill     CheckoutPrefill `json:"prefill"`
	Theme       CheckoutTheme   `json:"theme"`
}

// CheckoutPrefill содержит данные пользователя для формы оплаты
type CheckoutPrefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CheckoutTheme содержит оформление формы оплаты
type CheckoutTheme struct {
	Color string `json:"color"`
}

// PaymentVerification представляет payload завершённого checkout,
// который возвращает handler Razorpay
type PaymentVerification struct {
	OrderCreationID   string `json:"order_creation_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
