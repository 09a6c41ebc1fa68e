// Package actor models the resolved identity that issues a search.
package actor

import (
	"fmt"

	"github.com/kailas-cloud/kinsearch/internal/domain"
)

// Role is the effective role of the requester.
type Role string

// Supported roles.
const (
	Public        Role = "public"
	MortuaryStaff Role = "mortuary_staff"
	Police        Role = "police"
	Admin         Role = "admin"
)

// IsValid checks if the role is one of the supported values.
func (r Role) IsValid() bool {
	return r == Public || r == MortuaryStaff || r == Police || r == Admin
}

// Professional reports whether the role may see non-public records.
func (r Role) Professional() bool {
	return r == MortuaryStaff || r == Police || r == Admin
}

// ParseRole validates a role name. Empty string resolves to Public.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return Public, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, s)
	}
	return r, nil
}

// Approval is the externally tracked approval state of an account.
type Approval string

// Approval states.
const (
	Pending  Approval = "pending"
	Approved Approval = "approved"
	Rejected Approval = "rejected"
)

// IsValid reports whether a is a known approval state.
func (a Approval) IsValid() bool {
	return a == Pending || a == Approved || a == Rejected
}

// Actor is the requesting identity with an already resolved effective role.
type Actor struct {
	role Role
	id   string
}

// New creates an actor. An invalid role yields an error.
func New(role Role, id string) (Actor, error) {
	if !role.IsValid() {
		return Actor{}, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	return Actor{role: role, id: id}, nil
}

// Resolve downgrades an account that is not approved to the public role.
func Resolve(role Role, id string, approval Approval) (Actor, error) {
	if approval != Approved {
		role = Public
	}
	return New(role, id)
}

// PublicActor returns the anonymous actor.
func PublicActor() Actor {
	return Actor{role: Public}
}

// Role returns the effective role. The zero Actor is public.
func (a Actor) Role() Role {
	if a.role == "" {
		return Public
	}
	return a.role
}

// ID returns the optional actor identifier.
func (a Actor) ID() string { return a.id }
