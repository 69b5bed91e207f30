package payment

import "testing"

func TestVerifySignature(t *testing.T) {
	orderID := "order_Nq6TitQFW8Dlde"
	paymentID := "pay_Nq6YKQo5pSYrTp"
	secret := "test_secret"
	signature := "47b336797bb3e3b4ce5e8f4a41614a013ef164c9236ca2c3167c35a3ed9cd8d7"

	if !verifySignature(orderID, paymentID, signature, secret) {
		t.Fatal("expected signature to be valid")
	}

	t.Run("tampered signature", func(t *testing.T) {
		tampered := "57b336797bb3e3b4ce5e8f4a41614a013ef164c9236ca2c3167c35a3ed9cd8d7"
		if verifySignature(orderID, paymentID, tampered, secret) {
			t.Fatal("unexpected valid signature")
		}
	})

	t.Run("non-hex signature", func(t *testing.T) {
		if verifySignature(orderID, paymentID, "not-a-signature", secret) {
			t.Fatal("unexpected valid signature")
		}
	})

	t.Run("wrong order id", func(t *testing.T) {
		if verifySignature("order_other", paymentID, signature, secret) {
			t.Fatal("unexpected valid signature")
		}
	})
}

func TestToSmallestUnit(t *testing.T) {
	if got := ToSmallestUnit(20); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
	if got := ToSmallestUnit(99.99); got != 9999 {
		t.Fatalf("expected 9999, got %d", got)
	}
	if got := ToSmallestUnit(0.1); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}
