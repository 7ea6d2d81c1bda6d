package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Entity: "Order", ID: 7}
	if got := err.Error(); got != "Order with id 7 not found" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorMessagesCarryValues(t *testing.T) {
	is := &InsufficientStockError{Available: 6, Requested: 10}
	if got := is.Error(); got != "insufficient stock: available 6, requested 10" {
		t.Fatalf("got %q", got)
	}
	pm := &PriceMismatchError{Expected: 9.99, Received: 12.50}
	if got := pm.Error(); got != "price mismatch: expected 9.99, received 12.50" {
		t.Fatalf("got %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := &StorageError{Retryable: true, Err: errors.New("deadlock")}
	if !IsRetryable(retryable) {
		t.Fatalf("expected retryable")
	}
	if IsRetryable(&StorageError{Err: errors.New("connection lost")}) {
		t.Fatalf("non-retryable reported as retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Fatalf("plain error reported as retryable")
	}
	// 包装之后仍然可以识别
	wrapped := fmt.Errorf("tx failed: %w", retryable)
	if !IsRetryable(wrapped) {
		t.Fatalf("wrapped retryable not detected")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&NotFoundError{Entity: "Product", ID: 3}) {
		t.Fatalf("expected not found")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatalf("unexpected not found")
	}
}
