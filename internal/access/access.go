// Package access decides whether an identity may perform an action on a
// resource instance, combining role membership and ownership.
package access

import "fmt"

type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Identity is the authenticated caller, resolved once per request and
// immutable for its duration.
type Identity struct {
	ID   string
	Role Role
}

func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

type Reason string

const (
	ReasonRoleNotPermitted Reason = "RoleNotPermitted"
	ReasonNotOwner         Reason = "NotOwner"
	ReasonQuotaExceeded    Reason = "QuotaExceeded"
)

// Decision is the outcome of an access evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into an error for the central translator, or nil
// when the decision allows.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}

// DeniedError carries a denial reason through the error chain so the HTTP
// layer can map it to a status code without inspecting message text.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

func Denied(reason Reason) error {
	return &DeniedError{Reason: reason}
}

// Ownable is any resource instance carrying an owner identifier.
type Ownable interface {
	OwnerID() string
}

// RequireRole gates an identity against a route's role allow-list.
func RequireRole(id Identity, allowed ...Role) Decision {
	for _, r := range allowed {
		if id.Role == r {
			return Allow()
		}
	}
	return Deny(ReasonRoleNotPermitted)
}

// RequireOwner gates update/delete on an existing instance. Admins always
// bypass ownership; everyone else must own the resource. Identifiers are
// compared directly, never through intermediate conversions.
func RequireOwner(id Identity, resource Ownable) Decision {
	if id.IsAdmin() {
		return Allow()
	}
	if resource != nil && id.ID == resource.OwnerID() {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}

// Can evaluates an action against an optional target resource. Reads are
// always allowed at this layer (route role gates run separately); mutations
// of an existing instance require ownership.
func Can(id Identity, action Action, resource Ownable) Decision {
	switch action {
	case ActionUpdate, ActionDelete:
		return RequireOwner(id, resource)
	default:
		return Allow()
	}
}
