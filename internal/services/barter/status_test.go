package barter

import "testing"

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusPending, StatusAccepted) {
		t.Fatal("expected pending -> accepted to be allowed")
	}
	if !CanTransition(StatusAccepted, StatusAwaitingPayment) {
		t.Fatal("expected accepted -> awaiting_payment to be allowed")
	}
	if !CanTransition(StatusAccepted, StatusCompleted) {
		t.Fatal("expected accepted -> completed to be allowed")
	}
	if !CanTransition(StatusAwaitingPayment, StatusCompleted) {
		t.Fatal("expected awaiting_payment -> completed to be allowed")
	}
	if CanTransition(StatusPending, StatusCompleted) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransition(StatusPending, StatusAwaitingPayment) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransition(StatusCompleted, StatusPending) {
		t.Fatal("unexpected transition out of terminal status")
	}
	if CanTransition(StatusAwaitingPayment, StatusAccepted) {
		t.Fatal("unexpected transition back to accepted")
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(StatusCompleted) {
		t.Fatal("expected completed to be terminal")
	}
	if IsTerminal(StatusPending) || IsTerminal(StatusAccepted) || IsTerminal(StatusAwaitingPayment) {
		t.Fatal("unexpected terminal status")
	}
}
