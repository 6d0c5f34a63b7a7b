package receiving

import (
	"context"
	"testing"

	"github.com/bizops/backend/internal/domain/identity"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/receiving"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type shipmentServiceFixture struct {
	service      *ShipmentService
	shipmentRepo *MockShipmentRepository
	orderRepo    *MockPurchaseOrderRepository
	userRepo     *MockUserRepository
	itemRepo     *MockInventoryItemRepository
	moveRepo     *MockStockMovementRepository
}

func newShipmentServiceFixture() *shipmentServiceFixture {
	f := &shipmentServiceFixture{
		shipmentRepo: new(MockShipmentRepository),
		orderRepo:    new(MockPurchaseOrderRepository),
		userRepo:     new(MockUserRepository),
		itemRepo:     new(MockInventoryItemRepository),
		moveRepo:     new(MockStockMovementRepository),
	}
	scope := NewNoOpTransactionScope(f.shipmentRepo, f.orderRepo, f.itemRepo, f.moveRepo)
	f.service = NewShipmentService(
		scope, f.shipmentRepo, f.orderRepo, f.userRepo,
		inventory.NewDefaultApprovalPolicy(), zap.NewNop(),
	)
	return f
}

func activeUser(t *testing.T, tenantID uuid.UUID, role string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(tenantID, "u-"+uuid.NewString()[:8], role)
	require.NoError(t, err)
	return user
}

func confirmedOrder(t *testing.T, tenantID, warehouseID, productID uuid.UUID) *trade.PurchaseOrder {
	t.Helper()
	order, err := trade.NewPurchaseOrder(tenantID, uuid.New(), warehouseID, "PO-1001")
	require.NoError(t, err)
	require.NoError(t, order.AddItem(productID, decimal.NewFromInt(100)))
	return order
}

func TestShipmentService_CreateShipment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	t.Run("registers an announced delivery", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		order := confirmedOrder(t, tenantID, warehouseID, productID)

		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)
		f.shipmentRepo.On("Save", mock.Anything, mock.AnythingOfType("*receiving.IncomingShipment")).Return(nil)

		resp, err := f.service.CreateShipment(ctx, CreateShipmentCommand{
			TenantID:        tenantID,
			ActorID:         clerk.ID,
			PurchaseOrderID: order.ID,
			ShipmentNumber:  "SH-1001",
			CarrierRef:      "TRK-42",
			Lines:           []ExpectedLine{{ProductID: productID, Quantity: decimal.NewFromInt(40)}},
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.ShipmentStatusAssigned, resp.Status)
		assert.Equal(t, warehouseID, resp.WarehouseID)
		assert.Equal(t, "TRK-42", resp.CarrierRef)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, decimal.NewFromInt(40), resp.Lines[0].ExpectedQuantity)
	})

	t.Run("rejects products missing from the order", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		order := confirmedOrder(t, tenantID, warehouseID, productID)

		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)

		_, err := f.service.CreateShipment(ctx, CreateShipmentCommand{
			TenantID:        tenantID,
			ActorID:         clerk.ID,
			PurchaseOrderID: order.ID,
			ShipmentNumber:  "SH-1002",
			Lines:           []ExpectedLine{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(5)}},
		})

		require.Error(t, err)
		f.shipmentRepo.AssertNotCalled(t, "Save")
	})

	t.Run("closed order does not accept shipments", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		order := confirmedOrder(t, tenantID, warehouseID, productID)
		require.NoError(t, order.Close())

		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)

		_, err := f.service.CreateShipment(ctx, CreateShipmentCommand{
			TenantID:        tenantID,
			ActorID:         clerk.ID,
			PurchaseOrderID: order.ID,
			ShipmentNumber:  "SH-1003",
			Lines:           []ExpectedLine{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		})

		require.Error(t, err)
	})

	t.Run("viewer cannot create shipments", func(t *testing.T) {
		f := newShipmentServiceFixture()
		viewer := activeUser(t, tenantID, identity.RoleViewer)
		order := confirmedOrder(t, tenantID, warehouseID, productID)

		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, viewer.ID).Return(viewer, nil)

		_, err := f.service.CreateShipment(ctx, CreateShipmentCommand{
			TenantID:        tenantID,
			ActorID:         viewer.ID,
			PurchaseOrderID: order.ID,
			ShipmentNumber:  "SH-1004",
			Lines:           []ExpectedLine{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("scoped actor cannot announce into another warehouse", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		require.NoError(t, clerk.AssignWarehouse(uuid.New()))
		order := confirmedOrder(t, tenantID, warehouseID, productID)

		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)

		_, err := f.service.CreateShipment(ctx, CreateShipmentCommand{
			TenantID:        tenantID,
			ActorID:         clerk.ID,
			PurchaseOrderID: order.ID,
			ShipmentNumber:  "SH-1005",
			Lines:           []ExpectedLine{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestShipmentService_RecordReceipt(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	assignedShipment := func(t *testing.T) *receiving.IncomingShipment {
		t.Helper()
		s, err := receiving.NewIncomingShipment(tenantID, uuid.New(), warehouseID, "SH-2001")
		require.NoError(t, err)
		require.NoError(t, s.AddLine(productID, decimal.NewFromInt(10)))
		return s
	}

	t.Run("records counts and marks received", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		shipment := assignedShipment(t)

		f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)
		f.shipmentRepo.On("SaveWithLock", mock.Anything, shipment).Return(nil)

		resp, err := f.service.RecordReceipt(ctx, RecordReceiptCommand{
			TenantID:   tenantID,
			ActorID:    clerk.ID,
			ShipmentID: shipment.ID,
			Lines: []ReceiptLine{{
				ProductID: productID,
				Received:  decimal.NewFromInt(10),
				Accepted:  decimal.NewFromInt(8),
				Rejected:  decimal.NewFromInt(2),
				Remark:    "2 crushed boxes",
			}},
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.ShipmentStatusReceived, resp.Status)
		require.NotNil(t, resp.ReceivedBy)
		assert.Equal(t, clerk.ID, *resp.ReceivedBy)
		assert.Equal(t, decimal.NewFromInt(8), resp.Lines[0].AcceptedQuantity)
	})

	t.Run("inconsistent split stores nothing", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		shipment := assignedShipment(t)

		f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)

		_, err := f.service.RecordReceipt(ctx, RecordReceiptCommand{
			TenantID:   tenantID,
			ActorID:    clerk.ID,
			ShipmentID: shipment.ID,
			Lines: []ReceiptLine{{
				ProductID: productID,
				Received:  decimal.NewFromInt(10),
				Accepted:  decimal.NewFromInt(8),
				Rejected:  decimal.NewFromInt(1),
			}},
		})

		assert.ErrorIs(t, err, shared.ErrInvariantViolation)
		f.shipmentRepo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestShipmentService_ProcessShipment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	receivedShipment := func(t *testing.T, orderID uuid.UUID) *receiving.IncomingShipment {
		t.Helper()
		s, err := receiving.NewIncomingShipment(tenantID, orderID, warehouseID, "SH-3001")
		require.NoError(t, err)
		require.NoError(t, s.AddLine(productID, decimal.NewFromInt(10)))
		require.NoError(t, s.RecordLineCounts(productID, decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.NewFromInt(2), "damaged"))
		require.NoError(t, s.MarkReceived(uuid.New()))
		return s
	}

	newItem := func(t *testing.T, onHand int64) *inventory.InventoryItem {
		t.Helper()
		item, err := inventory.NewInventoryItem(tenantID, warehouseID, productID)
		require.NoError(t, err)
		item.QuantityOnHand = decimal.NewFromInt(onHand)
		item.AvailableQuantity = decimal.NewFromInt(onHand)
		return item
	}

	t.Run("partial receipt applies stock but keeps the shipment received", func(t *testing.T) {
		f := newShipmentServiceFixture()
		manager := activeUser(t, tenantID, identity.RoleWarehouseManager)
		order := confirmedOrder(t, tenantID, warehouseID, productID)
		shipment := receivedShipment(t, order.ID)

		f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, manager.ID).Return(manager, nil)
		f.moveRepo.On("ExistsForShipment", mock.Anything, tenantID, shipment.ID).Return(false, nil)
		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.itemRepo.On("AddStock", mock.Anything, tenantID, warehouseID, productID, decimal.NewFromInt(8)).
			Return(newItem(t, 8), nil)
		f.moveRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(movements []*inventory.StockMovement) bool {
			return len(movements) == 1 &&
				movements[0].SourceType == inventory.SourceTypeIncomingShipment &&
				movements[0].Quantity.Equal(decimal.NewFromInt(8))
		})).Return(nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)

		resp, err := f.service.ProcessShipment(ctx, ProcessShipmentCommand{
			TenantID: tenantID, ActorID: manager.ID, ShipmentID: shipment.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.ShipmentStatusReceived, resp.Status)
		assert.Equal(t, decimal.NewFromInt(8), order.ItemForProduct(productID).ReceivedQuantity)
		assert.Equal(t, trade.POStatusPartiallyReceived, order.Status)
		f.shipmentRepo.AssertNotCalled(t, "SaveWithLock")
	})

	t.Run("fully received order marks the shipment processed", func(t *testing.T) {
		f := newShipmentServiceFixture()
		manager := activeUser(t, tenantID, identity.RoleWarehouseManager)
		order, err := trade.NewPurchaseOrder(tenantID, uuid.New(), warehouseID, "PO-1002")
		require.NoError(t, err)
		require.NoError(t, order.AddItem(productID, decimal.NewFromInt(8)))
		shipment := receivedShipment(t, order.ID)

		f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, manager.ID).Return(manager, nil)
		f.moveRepo.On("ExistsForShipment", mock.Anything, tenantID, shipment.ID).Return(false, nil)
		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.itemRepo.On("AddStock", mock.Anything, tenantID, warehouseID, productID, decimal.NewFromInt(8)).
			Return(newItem(t, 8), nil)
		f.moveRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.shipmentRepo.On("SaveWithLock", mock.Anything, shipment).Return(nil)

		resp, err := f.service.ProcessShipment(ctx, ProcessShipmentCommand{
			TenantID: tenantID, ActorID: manager.ID, ShipmentID: shipment.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.ShipmentStatusProcessed, resp.Status)
		assert.Equal(t, trade.POStatusReceived, order.Status)
		f.shipmentRepo.AssertCalled(t, "SaveWithLock", mock.Anything, shipment)
	})

	t.Run("second process call is idempotent", func(t *testing.T) {
		f := newShipmentServiceFixture()
		manager := activeUser(t, tenantID, identity.RoleWarehouseManager)
		order := confirmedOrder(t, tenantID, warehouseID, productID)
		shipment := receivedShipment(t, order.ID)

		f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, manager.ID).Return(manager, nil)
		f.moveRepo.On("ExistsForShipment", mock.Anything, tenantID, shipment.ID).Return(true, nil)

		_, err := f.service.ProcessShipment(ctx, ProcessShipmentCommand{
			TenantID: tenantID, ActorID: manager.ID, ShipmentID: shipment.ID,
		})

		assert.ErrorIs(t, err, shared.ErrAlreadyProcessed)
		f.itemRepo.AssertNotCalled(t, "AddStock")
		f.orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("assigned shipment cannot be processed", func(t *testing.T) {
		f := newShipmentServiceFixture()
		manager := activeUser(t, tenantID, identity.RoleWarehouseManager)
		order := confirmedOrder(t, tenantID, warehouseID, productID)
		shipment, err := receiving.NewIncomingShipment(tenantID, order.ID, warehouseID, "SH-3002")
		require.NoError(t, err)

		f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, manager.ID).Return(manager, nil)

		_, err = f.service.ProcessShipment(ctx, ProcessShipmentCommand{
			TenantID: tenantID, ActorID: manager.ID, ShipmentID: shipment.ID,
		})

		require.Error(t, err)
		f.moveRepo.AssertNotCalled(t, "ExistsForShipment")
	})

	t.Run("fully rejected shipment moves no stock", func(t *testing.T) {
		f := newShipmentServiceFixture()
		manager := activeUser(t, tenantID, identity.RoleWarehouseManager)
		order := confirmedOrder(t, tenantID, warehouseID, productID)
		shipment, err := receiving.NewIncomingShipment(tenantID, order.ID, warehouseID, "SH-3003")
		require.NoError(t, err)
		require.NoError(t, shipment.AddLine(productID, decimal.NewFromInt(10)))
		require.NoError(t, shipment.RecordLineCounts(productID, decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10), "all damaged"))
		require.NoError(t, shipment.MarkReceived(uuid.New()))

		f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, manager.ID).Return(manager, nil)
		f.moveRepo.On("ExistsForShipment", mock.Anything, tenantID, shipment.ID).Return(false, nil)
		f.orderRepo.On("FindByIDForTenant", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.shipmentRepo.On("SaveWithLock", mock.Anything, shipment).Return(nil)

		resp, err := f.service.ProcessShipment(ctx, ProcessShipmentCommand{
			TenantID: tenantID, ActorID: manager.ID, ShipmentID: shipment.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.ShipmentStatusProcessed, resp.Status)
		f.itemRepo.AssertNotCalled(t, "AddStock")
		f.moveRepo.AssertNotCalled(t, "CreateBatch")
		f.orderRepo.AssertNotCalled(t, "Save")
	})
}

func TestShipmentService_RejectShipment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()

	f := newShipmentServiceFixture()
	manager := activeUser(t, tenantID, identity.RoleWarehouseManager)
	shipment, err := receiving.NewIncomingShipment(tenantID, uuid.New(), warehouseID, "SH-4001")
	require.NoError(t, err)

	f.shipmentRepo.On("FindByIDForTenant", mock.Anything, tenantID, shipment.ID).Return(shipment, nil)
	f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, manager.ID).Return(manager, nil)
	f.shipmentRepo.On("SaveWithLock", mock.Anything, shipment).Return(nil)

	resp, err := f.service.RejectShipment(ctx, RejectShipmentCommand{
		TenantID: tenantID, ActorID: manager.ID, ShipmentID: shipment.ID, Reason: "wrong delivery",
	})

	require.NoError(t, err)
	assert.Equal(t, receiving.ShipmentStatusRejected, resp.Status)
	assert.Equal(t, "wrong delivery", resp.RejectReason)
}

func TestShipmentService_ListShipments(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()

	t.Run("scoped actor is pinned to the assigned warehouse", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		require.NoError(t, clerk.AssignWarehouse(warehouseID))

		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)
		f.shipmentRepo.On("FindForTenant", mock.Anything, tenantID, mock.MatchedBy(func(filter receiving.ShipmentFilter) bool {
			return filter.WarehouseID != nil && *filter.WarehouseID == warehouseID
		})).Return([]receiving.IncomingShipment{}, nil)
		f.shipmentRepo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(0), nil)

		page, err := f.service.ListShipments(ctx, ListShipmentsQuery{TenantID: tenantID, ActorID: clerk.ID})

		require.NoError(t, err)
		assert.Empty(t, page.Items)
		f.shipmentRepo.AssertExpectations(t)
	})

	t.Run("explicit warehouse outside the scope is forbidden", func(t *testing.T) {
		f := newShipmentServiceFixture()
		clerk := activeUser(t, tenantID, identity.RoleWarehouseClerk)
		require.NoError(t, clerk.AssignWarehouse(uuid.New()))
		other := warehouseID

		f.userRepo.On("FindByIDForTenant", mock.Anything, tenantID, clerk.ID).Return(clerk, nil)

		_, err := f.service.ListShipments(ctx, ListShipmentsQuery{
			TenantID: tenantID, ActorID: clerk.ID, WarehouseID: &other,
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
