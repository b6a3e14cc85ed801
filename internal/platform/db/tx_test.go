package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
)

// fakeTx satisfies pgx.Tx by embedding the interface; only identity matters here.
type fakeTx struct {
	pgx.Tx
}

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil tx, got %v", tx)
	}
}

func TestContextWithTx_RoundTrip(t *testing.T) {
	tx := &fakeTx{}
	ctx := ContextWithTx(context.Background(), tx)
	if got := TxFromContext(ctx); got != tx {
		t.Errorf("expected stored tx, got %v", got)
	}
}

func TestConn_PrefersTx(t *testing.T) {
	tx := &fakeTx{}
	ctx := ContextWithTx(context.Background(), tx)
	if got := Conn(ctx, nil); got != tx {
		t.Errorf("expected tx from context, got %v", got)
	}
	if got := Conn(context.Background(), tx); got != tx {
		t.Errorf("expected fallback, got %v", got)
	}
}

func TestWithTx_NestedReusesOuter(t *testing.T) {
	tx := &fakeTx{}
	ctx := ContextWithTx(context.Background(), tx)

	// A nil pool would panic on Begin, so reaching fn proves the outer tx was reused.
	r := NewTxRunner(nil)
	called := false
	err := r.WithTx(ctx, func(inner context.Context) error {
		called = true
		if TxFromContext(inner) != tx {
			t.Error("expected inner context to carry outer tx")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected fn to be called")
	}
}
