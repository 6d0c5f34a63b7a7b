package inventory

import (
	"context"
	"testing"

	"github.com/bizops/backend/internal/domain/identity"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cycleCountFixture struct {
	*requestServiceFixture
	counts *CycleCountService
}

func newCycleCountFixture() *cycleCountFixture {
	return newCycleCountFixtureWithPolicy(inventory.NewDefaultApprovalPolicy())
}

func newCycleCountFixtureWithPolicy(policy *inventory.ApprovalPolicy) *cycleCountFixture {
	base := newRequestServiceFixtureWithPolicy(policy)
	return &cycleCountFixture{
		requestServiceFixture: base,
		counts:                NewCycleCountService(base.service, zap.NewNop()),
	}
}

func TestCycleCountService_ReconcileCount(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()

	t.Run("manager count records a request and applies drifted lines", func(t *testing.T) {
		f := newCycleCountFixture()
		manager := testUser(t, tenantID, identity.RoleWarehouseManager)
		drifted := uuid.New()
		matching := uuid.New()

		f.expectActor(tenantID, manager)
		f.whRepo.On("ExistsForTenant", mock.Anything, tenantID, warehouseID).Return(true, nil)
		f.productRepo.On("ExistsForTenant", mock.Anything, tenantID, drifted).Return(true, nil)
		f.productRepo.On("ExistsForTenant", mock.Anything, tenantID, matching).Return(true, nil)
		f.requestRepo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovementRequest")).Return(nil)
		f.requestRepo.On("SaveWithTransition", mock.Anything, mock.Anything, inventory.RequestStatusPending).Return(nil)

		driftedItem := stockedItem(t, tenantID, warehouseID, drifted, 50)
		matchingItem := stockedItem(t, tenantID, warehouseID, matching, 20)
		f.itemRepo.On("GetOrCreate", mock.Anything, tenantID, warehouseID, drifted).Return(driftedItem, nil)
		f.itemRepo.On("GetOrCreate", mock.Anything, tenantID, warehouseID, matching).Return(matchingItem, nil)
		f.itemRepo.On("SaveWithLock", mock.Anything, driftedItem).Return(nil)

		var created []*inventory.StockMovement
		f.moveRepo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(*inventory.StockMovement))
			}).Return(nil)

		resp, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  manager.ID,
			WarehouseID: warehouseID,
			Reference:   "CC-2026-08",
			Lines: []CountLine{
				{ProductID: drifted, CountedQuantity: decimal.NewFromInt(42), Remark: "two broken"},
				{ProductID: matching, CountedQuantity: decimal.NewFromInt(20)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, inventory.RequestStatusApproved, resp.Status)
		assert.Equal(t, inventory.RequestTypeAdjustment, resp.RequestType)
		f.requestRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovementRequest"))

		require.Len(t, created, 1)
		row := created[0]
		assert.Equal(t, inventory.MovementTypeAdjustment, row.MovementType)
		assert.Equal(t, inventory.SourceTypeCycleCount, row.SourceType)
		assert.Equal(t, decimal.NewFromInt(-8), row.SignedQuantity)
		assert.Equal(t, decimal.NewFromInt(50), row.BalanceBefore)
		assert.Equal(t, decimal.NewFromInt(42), row.BalanceAfter)
		assert.Equal(t, "two broken", row.Reason)
		require.NotNil(t, row.RequestID)
		assert.Equal(t, resp.ID, *row.RequestID)

		assert.Len(t, f.publisher.GetEventsByType("inventory.request.approved"), 1)
		assert.Len(t, f.publisher.GetEventsByType("inventory.stock.changed"), 1)
		f.itemRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, matchingItem)
	})

	t.Run("submit-only role leaves the count pending", func(t *testing.T) {
		policy := inventory.NewApprovalPolicy([]inventory.CapabilityRule{
			{Role: "auditor", RequestType: inventory.RequestTypeAdjustment, Capability: inventory.Capability{CanSubmit: true}},
		})
		f := newCycleCountFixtureWithPolicy(policy)
		auditor := testUser(t, tenantID, "auditor")
		productID := uuid.New()

		f.expectActor(tenantID, auditor)
		f.whRepo.On("ExistsForTenant", mock.Anything, tenantID, warehouseID).Return(true, nil)
		f.productRepo.On("ExistsForTenant", mock.Anything, tenantID, productID).Return(true, nil)
		f.requestRepo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovementRequest")).Return(nil)

		resp, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  auditor.ID,
			WarehouseID: warehouseID,
			Lines:       []CountLine{{ProductID: productID, CountedQuantity: decimal.NewFromInt(7)}},
		})

		require.NoError(t, err)
		assert.Equal(t, inventory.RequestStatusPending, resp.Status)
		f.requestRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*inventory.StockMovementRequest"))
		f.requestRepo.AssertNotCalled(t, "SaveWithTransition")
		f.itemRepo.AssertNotCalled(t, "GetOrCreate")
		assert.Len(t, f.publisher.GetEventsByType("inventory.request.submitted"), 1)
	})

	t.Run("clerk cannot submit counts", func(t *testing.T) {
		f := newCycleCountFixture()
		clerk := testUser(t, tenantID, identity.RoleWarehouseClerk)
		f.expectActor(tenantID, clerk)

		_, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  clerk.ID,
			WarehouseID: warehouseID,
			Lines:       []CountLine{{ProductID: uuid.New(), CountedQuantity: decimal.NewFromInt(1)}},
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.requestRepo.AssertNotCalled(t, "Create")
	})

	t.Run("scoped manager cannot count another warehouse", func(t *testing.T) {
		f := newCycleCountFixture()
		manager := testUser(t, tenantID, identity.RoleWarehouseManager)
		require.NoError(t, manager.AssignWarehouse(uuid.New()))
		f.expectActor(tenantID, manager)

		_, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  manager.ID,
			WarehouseID: warehouseID,
			Lines:       []CountLine{{ProductID: uuid.New(), CountedQuantity: decimal.NewFromInt(1)}},
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.requestRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects negative counted quantity", func(t *testing.T) {
		f := newCycleCountFixture()
		manager := testUser(t, tenantID, identity.RoleWarehouseManager)
		f.expectActor(tenantID, manager)

		_, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  manager.ID,
			WarehouseID: warehouseID,
			Lines:       []CountLine{{ProductID: uuid.New(), CountedQuantity: decimal.NewFromInt(-1)}},
		})

		require.Error(t, err)
		f.requestRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects duplicate products", func(t *testing.T) {
		f := newCycleCountFixture()
		manager := testUser(t, tenantID, identity.RoleWarehouseManager)
		productID := uuid.New()
		f.expectActor(tenantID, manager)

		_, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  manager.ID,
			WarehouseID: warehouseID,
			Lines: []CountLine{
				{ProductID: productID, CountedQuantity: decimal.NewFromInt(1)},
				{ProductID: productID, CountedQuantity: decimal.NewFromInt(2)},
			},
		})

		require.Error(t, err)
		f.requestRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects an empty count", func(t *testing.T) {
		f := newCycleCountFixture()

		_, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  uuid.New(),
			WarehouseID: warehouseID,
		})

		require.Error(t, err)
	})

	t.Run("unknown warehouse fails", func(t *testing.T) {
		f := newCycleCountFixture()
		admin := testUser(t, tenantID, identity.RoleAdmin)
		f.expectActor(tenantID, admin)
		f.whRepo.On("ExistsForTenant", mock.Anything, tenantID, warehouseID).Return(false, nil)

		_, err := f.counts.ReconcileCount(ctx, CycleCountCommand{
			TenantID:    tenantID,
			OperatorID:  admin.ID,
			WarehouseID: warehouseID,
			Lines:       []CountLine{{ProductID: uuid.New(), CountedQuantity: decimal.NewFromInt(1)}},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}
