package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/internal/infrastructure/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeysAreScopedByActor(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewIdempotencyRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:          "pay-1",
		ActorID:      alice,
		Endpoint:     "POST /api/v1/receipts/:id/payments",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	got, err := repo.GetByKey(ctx, "pay-1", alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	missing, err := repo.GetByKey(ctx, "pay-1", bob)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &entity.IdempotencyKey{Key: "pay-1", ActorID: alice, Endpoint: "x", ExpiresAt: time.Now()})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "old", ActorID: bob, Endpoint: "x", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, repo.DeleteExpired(ctx))
	gone, err := repo.GetByKey(ctx, "old", bob)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPriceListUpsertReplacesPrice(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPriceListRepository(db)
	ctx := context.Background()

	list := &entity.PriceList{Name: "Default", IsDefault: true}
	require.NoError(t, repo.Create(ctx, list))
	productID := uuid.New()

	require.NoError(t, repo.UpsertItem(ctx, &entity.PriceListItem{
		PriceListID: list.ID, ProductID: productID, ProductName: "Tea", SellingPrice: decimal.RequireFromString("3.00"),
	}))
	require.NoError(t, repo.UpsertItem(ctx, &entity.PriceListItem{
		PriceListID: list.ID, ProductID: productID, ProductName: "Tea", SellingPrice: decimal.RequireFromString("3.50"),
	}))

	item, err := repo.GetItem(ctx, list.ID, productID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.True(t, item.SellingPrice.Equal(decimal.RequireFromString("3.50")))

	var count int64
	require.NoError(t, db.Model(&entity.PriceListItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	def, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, list.ID, def.ID)
}

func TestMovementFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	products := repository.NewProductRepository(db)
	movements := repository.NewStockMovementRepository(db)

	product := &entity.Product{Name: "Salt", Unit: "kg"}
	require.NoError(t, products.Create(ctx, product))

	group := "RECON-1"
	for _, m := range []*entity.StockMovement{
		{ProductID: product.ID, Quantity: decimal.NewFromInt(5), MovementType: enum.MovementTypeIn, Reason: enum.MovementReasonPurchase, PerformedBy: uuid.New()},
		{ProductID: product.ID, Quantity: decimal.NewFromInt(2), MovementType: enum.MovementTypeOut, Reason: enum.MovementReasonAdjustment, PerformedBy: uuid.New(), GroupID: &group},
	} {
		require.NoError(t, movements.Create(ctx, m))
	}

	all, err := movements.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	grouped, total, err := movements.List(ctx, &domainRepo.MovementFilterParams{GroupID: group})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, grouped, 1)
	assert.True(t, grouped[0].Signed().Equal(decimal.NewFromInt(-2)))
}
