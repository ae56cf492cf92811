package auth

import (
	"context"

	"github.com/provgso/requisition-api/internal/application/requisition"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

// rolePermissions maps directory roles to supply capabilities. Anything not
// listed here is denied.
var rolePermissions = map[string][]string{
	entity.RoleStaff: {
		requisition.PermissionRequest,
	},
	entity.RoleSupplyOfficer: {
		requisition.PermissionRequest,
		requisition.PermissionInventory,
	},
	entity.RoleAdministrator: {
		requisition.PermissionRequest,
		requisition.PermissionInventory,
		requisition.PermissionApprove,
	},
}

// RoleAuthorizer implements requisition.Authorizer against the actor directory.
// Unknown actors, lookup failures and unknown roles all deny (fail closed).
type RoleAuthorizer struct {
	actors repository.ActorRepository
}

// NewRoleAuthorizer builds the authorizer.
func NewRoleAuthorizer(actors repository.ActorRepository) *RoleAuthorizer {
	return &RoleAuthorizer{actors: actors}
}

var _ requisition.Authorizer = (*RoleAuthorizer)(nil)

// Check reports whether the actor holds the permission.
func (a *RoleAuthorizer) Check(ctx context.Context, actorID, permission string) bool {
	actor, err := a.actors.Get(ctx, actorID)
	if err != nil || actor == nil {
		return false
	}
	for _, p := range rolePermissions[actor.Role] {
		if p == permission {
			return true
		}
	}
	return false
}
