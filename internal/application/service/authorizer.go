package service

import (
	"context"

	"github.com/google/uuid"
)

// Capabilities checked inside ledger operations. Route-level permissions are
// enforced by the HTTP layer; these guard decisions taken mid-operation.
const (
	CapabilityOverridePrice = "pos.override_price"
	CapabilityCreateCredit  = "pos.create_credit"
	CapabilitySettleCredit  = "pos.settle_credit"
	CapabilityRefundOrder   = "pos.refund_order"
	CapabilityOverPayment   = "pos.over_payment"
)

// Authorizer answers whether an actor holds a capability
type Authorizer interface {
	HasCapability(ctx context.Context, actorID uuid.UUID, capability string) bool
}

// Principal is the authenticated caller of a request
type Principal struct {
	ActorID     uuid.UUID
	Permissions []string
}

type principalKey struct{}

// WithPrincipal adds the authenticated caller to context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the authenticated caller from context
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// PermissionAuthorizer grants a capability when the request's principal is
// the actor and carries a permission of the same name.
type PermissionAuthorizer struct{}

// NewPermissionAuthorizer creates an authorizer backed by token permissions
func NewPermissionAuthorizer() *PermissionAuthorizer {
	return &PermissionAuthorizer{}
}

func (PermissionAuthorizer) HasCapability(ctx context.Context, actorID uuid.UUID, capability string) bool {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.ActorID != actorID {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == capability {
			return true
		}
	}
	return false
}
