// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Role names used across the application.
const (
	RoleField      = "field"
	RoleSupervisor = "supervisor"
)

// Identity represents the authenticated employee's identity.
// This interface abstracts identity extraction from the web framework, and it
// is the explicit principal parameter services receive; no service reads
// ambient auth state.
type Identity interface {
	// EmployeeID returns the authenticated employee's ID.
	EmployeeID() int64
	// Roles returns the employee's assigned roles.
	Roles() []string
	// HasRole checks if the employee has a specific role.
	HasRole(role string) bool
	// IsSupervisor reports whether the employee holds the supervisor role.
	IsSupervisor() bool
	// IsAuthenticated returns true if the employee is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	employeeID    int64
	roles         []string
	authenticated bool
}

func (i *identity) EmployeeID() int64 {
	return i.employeeID
}

func (i *identity) Roles() []string {
	return i.roles
}

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *identity) IsSupervisor() bool {
	return i.HasRole(RoleSupervisor)
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// NewIdentity builds an authenticated Identity. Intended for tests and for
// the auth middleware; handlers should only ever read identities.
func NewIdentity(employeeID int64, roles []string) Identity {
	return &identity{employeeID: employeeID, roles: roles, authenticated: true}
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if employee info is not present.
func GetIdentity(c *gin.Context) Identity {
	employeeID, idOK := c.Get(ContextEmployeeIDKey)
	roles, rolesOK := c.Get(ContextRolesKey)

	if !idOK {
		return &identity{authenticated: false}
	}

	id, ok := employeeID.(int64)
	if !ok {
		return &identity{authenticated: false}
	}

	var roleList []string
	if rolesOK {
		roleList, _ = roles.([]string)
	}

	return &identity{
		employeeID:    id,
		roles:         roleList,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the employee is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return nil
	}
	return id
}
