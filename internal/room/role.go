// Package room implements the room-management policy layer kuzh's survey
// layer treats as an external collaborator (spec.md §6 "Policy hooks"):
// identities, roles, the questions queue, and message rights. It is
// ported from original_source's kuzh-common room/state.rs, has_role.rs
// and domain/room.rs, which the distilled spec only names through its
// read/write hooks.
package room

import "github.com/rawblock/kuzh/internal/ids"

// RoleKind discriminates the three tiers of the role lattice (spec.md
// §3: "Banned < Regular{...} < Duty{...}").
type RoleKind int

const (
	RoleBanned RoleKind = iota
	RoleRegular
	RoleDuty
)

// RegularLevel refines RoleRegular.
type RegularLevel int

const (
	Observer RegularLevel = iota
	Messager
	Asker
)

// DutyLevel refines RoleDuty.
type DutyLevel int

const (
	Moderator DutyLevel = iota
	Admin
	Owner
)

// Role is one node of the lattice `Banned < Regular{Observer, Messager,
// Asker} < Duty{Moderator, Admin, Owner}`. A Duty role additionally
// carries MayGrant, whether its holder may hand the same role to someone
// else.
type Role struct {
	Kind     RoleKind
	Regular  RegularLevel
	Duty     DutyLevel
	MayGrant bool
}

// BannedRole is the bottom of the lattice.
func BannedRole() Role { return Role{Kind: RoleBanned} }

// RegularRole builds a Regular role at the given level.
func RegularRole(level RegularLevel) Role { return Role{Kind: RoleRegular, Regular: level} }

// DutyRole builds a Duty role at the given level.
func DutyRole(level DutyLevel, mayGrant bool) Role {
	return Role{Kind: RoleDuty, Duty: level, MayGrant: mayGrant}
}

// IsBanned reports whether r is the Banned role.
func (r Role) IsBanned() bool { return r.Kind == RoleBanned }

// CanModerate reports whether r carries moderation powers (spec.md
// glossary: "Duty role").
func (r Role) CanModerate() bool { return r.Kind == RoleDuty }

// IsAdminOrOwner reports whether r is the top duty tier — the only tier
// allowed to grant another Duty role (room/state.rs: "from_role != Admin"
// guards granting Admin/Moderator).
func (r Role) IsAdminOrOwner() bool {
	return r.Kind == RoleDuty && r.Duty != Moderator
}

// Ordinal returns r's position in the role lattice's total order, used
// for simple role-floor checks (common.rs's original `Role: Ord`):
// Owner=0, Admin=1, Moderator=2, Regular=3 (any sub-level), Banned=4 —
// lower is more privileged.
func (r Role) Ordinal() int {
	switch r.Kind {
	case RoleDuty:
		switch r.Duty {
		case Owner:
			return 0
		case Admin:
			return 1
		default:
			return 2
		}
	case RoleRegular:
		return 3
	default:
		return 4
	}
}

// AtLeast reports whether r is at least as privileged as floor under the
// total order (a lower or equal Ordinal).
func (r Role) AtLeast(floor Role) bool {
	return r.Ordinal() <= floor.Ordinal()
}

// rank returns the coarse authority tier used by Compare: 0 is the top
// (Admin/Owner), 1 is Moderator, 2 is Regular, 3 is Banned.
func (r Role) rank() int {
	switch r.Kind {
	case RoleDuty:
		if r.Duty == Moderator {
			return 1
		}
		return 0
	case RoleRegular:
		return 2
	default:
		return 3
	}
}

// Ordering is the result of comparing two (role, user) pairs.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
)

// Compare decides the authority ordering between (role1, user1) and
// (role2, user2), ported from room/state.rs::RoleUser::partial_cmp: the
// top duty tier outranks everything and ties break by UserID; Moderator
// and Regular pairs at equal tier are incomparable (ok=false), which is
// what makes two moderators, or two regular members, unable to grant
// roles to one another. Owner and Admin deliberately share the top tier
// rather than Owner strictly outranking Admin: the ported comparison
// predates Owner as a distinct level and orders the whole tier by
// UserID, and this implementation keeps that rule rather than invent an
// ordering the source never had. Owner's extra standing shows up in
// MayGrant and in being the room's founding identity, not in Compare.
func Compare(role1 Role, user1 ids.UserID, role2 Role, user2 ids.UserID) (Ordering, bool) {
	if role1 == role2 && user1 == user2 {
		return Equal, true
	}

	r1, r2 := role1.rank(), role2.rank()
	switch {
	case r1 == 0 && r2 == 0:
		switch {
		case user1 < user2:
			return Less, true
		case user1 > user2:
			return Greater, true
		default:
			return Equal, true
		}
	case r1 == 0:
		return Less, true
	case r2 == 0:
		return Greater, true
	case r1 == 1 && r2 == 1:
		return 0, false
	case r1 == 1:
		return Less, true
	case r2 == 1:
		return Greater, true
	default:
		return 0, false
	}
}

// CanGrantTo reports whether the identity holding granterRole may change
// targetRole's holder's role — i.e. whether (granter role, granter)
// compares Less or Equal to (target role, target) under Compare, where
// Less means higher authority (room/state.rs:
// `RoleUser(from_role, from_user).le(&RoleUser(user_role, user))`).
// Incomparable pairs (two moderators, two regulars) cannot grant.
func CanGrantTo(granterRole Role, granter ids.UserID, targetRole Role, target ids.UserID) bool {
	ord, ok := Compare(granterRole, granter, targetRole, target)
	if !ok {
		return false
	}
	return ord == Less || ord == Equal
}
