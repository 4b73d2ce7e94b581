package settings

import (
	"context"

	"github.com/horockey/rxprefs"
)

const TransactionNamespace = "transaction_preferences"

var DefaultTransactionTypeKey = rxprefs.StringKey("default_transaction_type", "expense")

type TransactionPreferences struct {
	ns *rxprefs.Namespace
}

func NewTransactionPreferences(ns *rxprefs.Namespace) *TransactionPreferences {
	return &TransactionPreferences{ns: ns}
}

func (tp *TransactionPreferences) Namespace() *rxprefs.Namespace {
	return tp.ns
}

func (tp *TransactionPreferences) DefaultTransactionType(ctx context.Context) <-chan string {
	return rxprefs.Observe(ctx, tp.ns, DefaultTransactionTypeKey)
}

func (tp *TransactionPreferences) SetDefaultTransactionType(ctx context.Context, txType string) error {
	return rxprefs.Set(ctx, tp.ns, DefaultTransactionTypeKey, txType)
}
