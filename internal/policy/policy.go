// Package policy holds the closed set of access policies applied per
// collection and the predicate that evaluates them.
package policy

import (
	"net/http"

	"go-gin-airport/internal/model"
)

type Policy int

const (
	// PublicReadStaffWrite lets anyone read; writes need staff.
	PublicReadStaffWrite Policy = iota
	// StaffOnly requires staff for every verb, reads included.
	StaffOnly
	// AuthenticatedOwner restricts access to the owning user; staff see all.
	AuthenticatedOwner
)

func (p Policy) String() string {
	switch p {
	case PublicReadStaffWrite:
		return "public_read_staff_write"
	case StaffOnly:
		return "staff_only"
	case AuthenticatedOwner:
		return "authenticated_owner"
	}
	return "unknown"
}

type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

// NoOwner is passed as owner when the request targets a collection rather
// than a single object.
const NoOwner = 0

// IsSafeMethod reports whether the verb only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Evaluate decides whether caller may perform method on a target owned by
// owner (NoOwner for collection-level requests).
func Evaluate(p Policy, caller model.Caller, method string, owner int) Decision {
	switch p {
	case PublicReadStaffWrite:
		if IsSafeMethod(method) {
			return Allow
		}
		return requireStaff(caller)

	case StaffOnly:
		return requireStaff(caller)

	case AuthenticatedOwner:
		if !caller.IsAuthenticated() {
			return Unauthenticated
		}
		if caller.IsStaff || owner == NoOwner || owner == caller.UserID {
			return Allow
		}
		return Forbidden
	}
	return Forbidden
}

// CanRead reports whether caller may see an object owned by owner.
func CanRead(p Policy, caller model.Caller, owner int) bool {
	return Evaluate(p, caller, http.MethodGet, owner) == Allow
}

func requireStaff(caller model.Caller) Decision {
	if !caller.IsAuthenticated() {
		return Unauthenticated
	}
	if !caller.IsStaff {
		return Forbidden
	}
	return Allow
}

// Collections maps each REST collection to its policy.
var Collections = map[string]Policy{
	"airports":       PublicReadStaffWrite,
	"routes":         PublicReadStaffWrite,
	"airplane-types": PublicReadStaffWrite,
	"airplanes":      PublicReadStaffWrite,
	"crew":           PublicReadStaffWrite,
	"flights":        PublicReadStaffWrite,
	"orders":         AuthenticatedOwner,
	"tickets":        StaffOnly,
}
