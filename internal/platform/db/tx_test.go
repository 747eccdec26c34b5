package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeTx struct{ pgx.Tx }

func TestValidateSchema(t *testing.T) {
	valid := []string{"public", "risk_engine", "_staging", "risk2"}
	for _, s := range valid {
		if err := ValidateSchema(s); err != nil {
			t.Errorf("expected %q to be valid, got %v", s, err)
		}
	}

	invalid := []string{"", "2risk", "risk-engine", "public; DROP TABLE x", "a b"}
	for _, s := range invalid {
		if err := ValidateSchema(s); err == nil {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestTxFromContext_Nil(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx from empty context")
	}
}

func TestTxFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), txKey, "not-a-tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Error("expected nil tx for wrong value type")
	}
}

func TestInTx_JoinsExistingTransaction(t *testing.T) {
	// A nil pool would panic on Begin, so reaching fn proves the outer
	// transaction was reused.
	var outer fakeTx
	ctx := WithTx(context.Background(), &outer)

	called := false
	err := InTx(ctx, nil, func(ctx context.Context) error {
		called = true
		if TxFromContext(ctx) != &outer {
			t.Error("expected fn to receive the outer transaction")
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
