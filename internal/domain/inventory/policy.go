package inventory

import (
	"github.com/bizops/backend/internal/domain/identity"
)

// Capability describes what a role may do with one request type.
// SelfApprove means the submitter's own request is applied immediately
// instead of entering the pending queue.
type Capability struct {
	CanSubmit   bool
	SelfApprove bool
	CanDecide   bool
}

// ApprovalPolicy is the role-to-capability table consulted at intake and at
// decision time. The table is data, not scattered role checks, so adding a
// role or request type means adding rows here.
type ApprovalPolicy struct {
	table map[string]map[RequestType]Capability
}

// CapabilityRule grants one role one capability for one request type.
// A slice of rules is the configuration form of the policy table.
type CapabilityRule struct {
	Role        string
	RequestType RequestType
	Capability  Capability
}

// NewApprovalPolicy builds a policy from explicit rules. Later rules for the
// same role and request type overwrite earlier ones.
func NewApprovalPolicy(rules []CapabilityRule) *ApprovalPolicy {
	table := make(map[string]map[RequestType]Capability)
	for _, rule := range rules {
		byType, ok := table[rule.Role]
		if !ok {
			byType = make(map[RequestType]Capability)
			table[rule.Role] = byType
		}
		byType[rule.RequestType] = rule.Capability
	}
	return &ApprovalPolicy{table: table}
}

// NewDefaultApprovalPolicy builds the standard policy:
//   - admin submits everything and self-approves everything
//   - warehouse managers submit everything, self-approve adjustments only,
//     and decide other users' pending requests
//   - warehouse clerks submit movements and transfers, always pending
//   - viewers hold no write capability at all
func NewDefaultApprovalPolicy() *ApprovalPolicy {
	return &ApprovalPolicy{
		table: map[string]map[RequestType]Capability{
			identity.RoleAdmin: {
				RequestTypeMovement:   {CanSubmit: true, SelfApprove: true, CanDecide: true},
				RequestTypeTransfer:   {CanSubmit: true, SelfApprove: true, CanDecide: true},
				RequestTypeAdjustment: {CanSubmit: true, SelfApprove: true, CanDecide: true},
			},
			identity.RoleWarehouseManager: {
				RequestTypeMovement:   {CanSubmit: true, CanDecide: true},
				RequestTypeTransfer:   {CanSubmit: true, CanDecide: true},
				RequestTypeAdjustment: {CanSubmit: true, SelfApprove: true, CanDecide: true},
			},
			identity.RoleWarehouseClerk: {
				RequestTypeMovement: {CanSubmit: true},
				RequestTypeTransfer: {CanSubmit: true},
			},
		},
	}
}

// CapabilityFor returns the capability of a role for a request type.
// Unknown roles and unlisted request types get the zero capability.
func (p *ApprovalPolicy) CapabilityFor(role string, requestType RequestType) Capability {
	if byType, ok := p.table[role]; ok {
		return byType[requestType]
	}
	return Capability{}
}

// CanSubmit reports whether the role may submit the request type
func (p *ApprovalPolicy) CanSubmit(role string, requestType RequestType) bool {
	return p.CapabilityFor(role, requestType).CanSubmit
}

// SelfApproves reports whether the role's own submissions of this type skip
// the pending queue
func (p *ApprovalPolicy) SelfApproves(role string, requestType RequestType) bool {
	return p.CapabilityFor(role, requestType).SelfApprove
}

// CanDecide reports whether the role may approve or reject pending requests
// of this type
func (p *ApprovalPolicy) CanDecide(role string, requestType RequestType) bool {
	return p.CapabilityFor(role, requestType).CanDecide
}
