package handlers_test

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

// setChiURLParam injects a chi URL parameter so handlers can be tested
// without mounting a router.
func setChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func manualAccount(name, institution, last4, accountType string) *accounts.Account {
	return accounts.NewManualAccount(name, institution, last4, accountType, decimal.Zero)
}

func linkedAccount(name, institution, last4, accountType string) *accounts.Account {
	return accounts.NewLinkedAccount(name, institution, last4, accountType, decimal.Zero)
}

func seededRepo(accts ...*accounts.Account) *storage.MockRepository {
	repo := storage.NewMockRepository()
	for _, a := range accts {
		repo.AddAccount(a)
	}
	return repo
}
