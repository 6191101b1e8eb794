package referral

import (
	"github.com/ariebrainware/sisreg/model"
	"github.com/samber/lo"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID uint
	Role   string
}

// Role sets gating each operation.
var (
	createRoles          = []string{model.RoleNameRecepcao, model.RoleNameAdmin}
	approverRoles        = []string{model.RoleNameAdmin, model.RoleNameRegulacao}
	suspendRoles         = []string{model.RoleNameRegulacao}
	restoreRoles         = []string{model.RoleNameRecepcao, model.RoleNameRegulacao, model.RoleNameAdmin}
	staffRoles           = []string{model.RoleNameRecepcao, model.RoleNameRegulacao, model.RoleNameAdmin}
	deleteCompletedRoles = []string{model.RoleNameAdmin, model.RoleNameRegulacao}
)

// Is reports whether the actor holds one of roles.
func (a Actor) Is(roles ...string) bool {
	return lo.Contains(roles, a.Role)
}

func (a Actor) require(action string, roles ...string) error {
	if a.UserID == 0 {
		return authorizationError("%s requires an authenticated user", action)
	}
	if !a.Is(roles...) {
		return authorizationError("role %q may not %s", a.Role, action)
	}
	return nil
}
