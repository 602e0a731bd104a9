package room

import "github.com/rawblock/kuzh/internal/ids"

// Policy is the abstract read/write surface the survey state machine
// consumes from the room (spec.md §6 "Policy hooks the survey consumes
// from the room"). *State implements it directly; the survey package
// only ever sees this narrower interface, never the full room State.
type Policy interface {
	RoleOf(identity ids.IdentityID) (Role, error)
	IsBanned(user ids.UserID) bool
	IsMember(user ids.UserID) bool
	OnCheaterDetected(user ids.UserID, proof CheatProof)
}

// CheatProof is the evidence passed to OnCheaterDetected: two ring
// signatures over distinct messages that linked to the same ring slot
// (spec.md §4.4 "CheaterTwoAnswers").
type CheatProof struct {
	Context []byte
	Answer1 []byte
	Answer2 []byte
}

// IsBanned implements Policy.
func (s *State) IsBanned(user ids.UserID) bool {
	role, err := s.RoleOf(ids.UserIdentity(user))
	return err == nil && role.IsBanned()
}

// IsMember implements Policy.
func (s *State) IsMember(user ids.UserID) bool {
	return s.IsValidUserID(user)
}

// OnCheaterDetected implements Policy by applying a ChangeRole(Banned)
// event from the room identity, mirroring room/state.rs's
// CheaterTwoAnswers handling ("the offending member's UserID is then
// banned by the room", spec.md §4.4).
func (s *State) OnCheaterDetected(user ids.UserID, _ CheatProof) {
	_, _, _ = s.ApplyEvent(ids.RoomIdentity(), Event{
		Kind: EventChangeRole,
		User: user,
		Role: BannedRole(),
	})
}
