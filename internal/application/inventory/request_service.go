package inventory

import (
	"context"

	"github.com/bizops/backend/internal/domain/catalog"
	"github.com/bizops/backend/internal/domain/identity"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService handles the intake and decision side of the approval
// workflow. Capability checks come from the policy table, warehouse scoping
// from the actor's assignment, and the exactly-once pending decision from the
// repository's conditional transition.
type RequestService struct {
	requestRepo    inventory.StockMovementRequestRepository
	userRepo       identity.UserRepository
	warehouseRepo  partner.WarehouseRepository
	locationRepo   partner.StorageLocationRepository
	productRepo    catalog.ProductRepository
	policy         *inventory.ApprovalPolicy
	ledger         *LedgerService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo inventory.StockMovementRequestRepository,
	userRepo identity.UserRepository,
	warehouseRepo partner.WarehouseRepository,
	locationRepo partner.StorageLocationRepository,
	productRepo catalog.ProductRepository,
	policy *inventory.ApprovalPolicy,
	ledger *LedgerService,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		warehouseRepo: warehouseRepo,
		locationRepo:  locationRepo,
		productRepo:   productRepo,
		policy:        policy,
		ledger:        ledger,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit validates and stores a request. Payload shape, capability, scope and
// referenced entities are all checked here, once, so approval never re-parses
// client input. Roles with self-approval skip the pending queue: the request
// is approved and applied in the same call.
func (s *RequestService) Submit(ctx context.Context, cmd SubmitRequestCommand) (*MovementRequestResponse, error) {
	actor, err := s.loadActor(ctx, cmd.TenantID, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	capability := s.policy.CapabilityFor(actor.Role, cmd.RequestType)
	if !capability.CanSubmit {
		return nil, shared.ErrForbidden
	}

	request, err := inventory.NewStockMovementRequest(cmd.TenantID, cmd.RequestType, cmd.Payload, actor.ID)
	if err != nil {
		return nil, err
	}

	if actor.AssignedWarehouseID != nil && request.WarehouseID != *actor.AssignedWarehouseID {
		return nil, shared.ErrForbidden
	}

	if err := s.validateReferences(ctx, cmd.TenantID, &request.Payload); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	if capability.SelfApprove {
		return s.approveAndApply(ctx, request, actor)
	}

	s.publish(ctx, inventory.NewMovementRequestSubmittedEvent(request.ID, request.TenantID, actor.ID, request.RequestType))
	return NewMovementRequestResponse(request), nil
}

// Approve decides a pending request and applies it to the ledger. The status
// transition is guarded in the store, so of two racing approvers exactly one
// wins and the other gets ErrAlreadyProcessed. If the ledger application
// fails after a won transition, the request is marked failed and the apply
// error is returned.
func (s *RequestService) Approve(ctx context.Context, cmd DecideRequestCommand) (*MovementRequestResponse, error) {
	actor, err := s.loadActor(ctx, cmd.TenantID, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeDecision(actor, request); err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, shared.ErrAlreadyProcessed
	}

	// Referenced entities may have vanished between submission and decision.
	if err := s.validateReferences(ctx, cmd.TenantID, &request.Payload); err != nil {
		return nil, err
	}

	return s.approveAndApply(ctx, request, actor)
}

// Reject decides a pending request negatively. The same conditional
// transition guards it, so a reject racing an approve loses cleanly.
func (s *RequestService) Reject(ctx context.Context, cmd DecideRequestCommand) (*MovementRequestResponse, error) {
	actor, err := s.loadActor(ctx, cmd.TenantID, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeDecision(actor, request); err != nil {
		return nil, err
	}

	if err := request.Reject(actor.ID, cmd.Reason); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithTransition(ctx, request, inventory.RequestStatusPending); err != nil {
		return nil, err
	}

	s.publish(ctx, inventory.NewMovementRequestRejectedEvent(request.ID, request.TenantID, actor.ID, cmd.Reason))
	return NewMovementRequestResponse(request), nil
}

// Get returns one request visible to the actor
func (s *RequestService) Get(ctx context.Context, tenantID, actorID, requestID uuid.UUID) (*MovementRequestResponse, error) {
	actor, err := s.loadActor(ctx, tenantID, actorID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	if actor.AssignedWarehouseID != nil && !request.TouchesWarehouse(*actor.AssignedWarehouseID) {
		return nil, shared.ErrForbidden
	}

	return NewMovementRequestResponse(request), nil
}

// List returns the requests visible to the actor, newest first. Actors bound
// to a warehouse only see requests whose primary warehouse matches; an
// assignment pointing at a vanished warehouse yields an empty page, not an
// error.
func (s *RequestService) List(ctx context.Context, query ListRequestsQuery) (*shared.Paginated[MovementRequestResponse], error) {
	actor, err := s.loadActor(ctx, query.TenantID, query.ActorID)
	if err != nil {
		return nil, err
	}

	scope, err := s.warehouseScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := inventory.RequestFilter{
		Filter:       shared.DefaultFilter(),
		Status:       query.Status,
		RequestType:  query.RequestType,
		WarehouseIDs: scope,
	}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	if scope != nil && len(scope) == 0 {
		empty := shared.NewPaginated([]MovementRequestResponse{}, 0, filter.Page, filter.PageSize)
		return &empty, nil
	}

	requests, err := s.requestRepo.FindForTenant(ctx, query.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.requestRepo.CountForTenant(ctx, query.TenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *NewMovementRequestResponse(&requests[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *RequestService) approveAndApply(ctx context.Context, request *inventory.StockMovementRequest, actor *identity.User) (*MovementRequestResponse, error) {
	if err := request.Approve(actor.ID); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithTransition(ctx, request, inventory.RequestStatusPending); err != nil {
		return nil, err
	}
	s.publish(ctx, inventory.NewMovementRequestApprovedEvent(request.ID, request.TenantID, actor.ID, request.RequestType))

	if _, err := s.ledger.ApplyRequest(ctx, request); err != nil {
		s.logger.Warn("approved request failed to apply",
			zap.String("request_id", request.ID.String()),
			zap.Error(err))

		reason := err.Error()
		if markErr := request.MarkFailed(reason); markErr == nil {
			if saveErr := s.requestRepo.Save(ctx, request); saveErr != nil {
				s.logger.Error("failed to persist failed request state",
					zap.String("request_id", request.ID.String()),
					zap.Error(saveErr))
			}
		}
		return nil, err
	}

	return NewMovementRequestResponse(request), nil
}

func (s *RequestService) authorizeDecision(actor *identity.User, request *inventory.StockMovementRequest) error {
	if !s.policy.CanDecide(actor.Role, request.RequestType) {
		return shared.ErrForbidden
	}
	if actor.AssignedWarehouseID != nil && !request.TouchesWarehouse(*actor.AssignedWarehouseID) {
		return shared.ErrForbidden
	}
	return nil
}

func (s *RequestService) loadActor(ctx context.Context, tenantID, actorID uuid.UUID) (*identity.User, error) {
	actor, err := s.userRepo.FindByIDForTenant(ctx, tenantID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Active {
		return nil, shared.ErrForbidden
	}
	return actor, nil
}

// warehouseScope translates an actor's warehouse assignment into a listing
// scope: nil means unrestricted, a single-element slice restricts to the
// assigned warehouse, and an empty non-nil slice means the assignment points
// at a warehouse that no longer exists so nothing is visible.
func (s *RequestService) warehouseScope(ctx context.Context, actor *identity.User) ([]uuid.UUID, error) {
	if actor.AssignedWarehouseID == nil {
		return nil, nil
	}
	exists, err := s.warehouseRepo.ExistsForTenant(ctx, actor.TenantID, *actor.AssignedWarehouseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []uuid.UUID{}, nil
	}
	return []uuid.UUID{*actor.AssignedWarehouseID}, nil
}

func (s *RequestService) validateReferences(ctx context.Context, tenantID uuid.UUID, payload *inventory.RequestPayload) error {
	for _, warehouseID := range payload.WarehouseIDs() {
		exists, err := s.warehouseRepo.ExistsForTenant(ctx, tenantID, warehouseID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewDomainError("NOT_FOUND", "Warehouse not found")
		}
	}

	for _, productID := range payload.ProductIDs() {
		exists, err := s.productRepo.ExistsForTenant(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewDomainError("NOT_FOUND", "Product not found")
		}
	}

	if payload.Movement != nil && payload.Movement.LocationID != nil {
		exists, err := s.locationRepo.ExistsInWarehouse(ctx, tenantID, payload.Movement.WarehouseID, *payload.Movement.LocationID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewDomainError("NOT_FOUND", "Storage location not found in warehouse")
		}
	}

	return nil
}

func (s *RequestService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish request event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}
