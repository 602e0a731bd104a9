package room

import (
	"sort"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// State is the room chain's in-memory state (room/state.rs::RoomState).
// It owns identities, the question queue, and message rights; the
// survey layer consumes it only through the Policy interface in
// policy.go (spec.md §6 "Policy hooks the survey consumes").
type State struct {
	Room IdentityInfo

	Users          []IdentityInfo
	NextUserID     ids.UserID
	UsersExhausted bool

	Masks          []IdentityInfo
	NextMaskID     ids.MaskID
	MasksExhausted bool

	PublicKeyIndex map[[32]byte]PublicKeyOwner

	Accessibility     Accessibility
	MaxConnectedUsers uint16
	Connected         map[ids.UserID]bool

	Questions          map[ids.QuestionID]QuestionInfo
	NextQuestionID     ids.QuestionID
	QuestionsExhausted bool
	MaxQuestions       uint8
	QuestionRights     PublicationRights

	MessageRights PublicationRights

	Answering *ids.QuestionID
}

// NewState returns an empty room owned by the given first-admin identity
// material (room.rs::RoomEvent::RoomCreation).
func NewState(roomIdentity IdentityInfo) *State {
	return &State{
		Room:           roomIdentity,
		PublicKeyIndex: make(map[[32]byte]PublicKeyOwner),
		Connected:      make(map[ids.UserID]bool),
		Questions:      make(map[ids.QuestionID]QuestionInfo),
		QuestionRights: PublicationRights{Role: RegularRole(Asker), Explicit: make(map[ids.IdentityID]bool)},
		MessageRights:  PublicationRights{Role: RegularRole(Observer), Explicit: make(map[ids.IdentityID]bool)},
		MaxQuestions:   32,
	}
}

// RoleOf resolves identity's current role (has_role.rs::HasRole::role).
func (s *State) RoleOf(identity ids.IdentityID) (Role, error) {
	switch identity.Kind {
	case ids.IdentityRoom:
		return DutyRole(Owner, true), nil
	case ids.IdentityUser:
		if int(identity.User) >= len(s.Users) {
			return Role{}, ErrNoSuchUser
		}
		return s.Users[identity.User].Role, nil
	case ids.IdentityMask:
		if int(identity.Mask) >= len(s.Masks) {
			return Role{}, ErrNoSuchMask
		}
		return RegularRole(Asker), nil
	default:
		return Role{}, ErrNoSuchIdentity
	}
}

func (s *State) ensureAdminOrModerator(identity ids.IdentityID) (Role, error) {
	role, err := s.RoleOf(identity)
	if err != nil {
		return Role{}, err
	}
	if !role.CanModerate() {
		return Role{}, ErrUnauthorized
	}
	return role, nil
}

// IsValidUserID reports whether id has already been minted.
func (s *State) IsValidUserID(id ids.UserID) bool { return int(id) < len(s.Users) }

// IsValidMaskID reports whether id has already been minted.
func (s *State) IsValidMaskID(id ids.MaskID) bool { return int(id) < len(s.Masks) }

// IsValidIdentityID reports whether identity refers to a real, already
// minted room-chain identity (RoomID always qualifies).
func (s *State) IsValidIdentityID(identity ids.IdentityID) bool {
	switch identity.Kind {
	case ids.IdentityRoom:
		return true
	case ids.IdentityUser:
		return s.IsValidUserID(identity.User)
	case ids.IdentityMask:
		return s.IsValidMaskID(identity.Mask)
	default:
		return false
	}
}

func keyBytes(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

// ApplyEvent validates and applies a single event, returning an undo
// closure on success that exactly reverses the mutation (spec.md §4.5,
// §9 "Undo via compensating records" — here expressed as a plain Go
// closure rather than a typed record enum, since a closure already
// captures exactly what changed).
func (s *State) ApplyEvent(from ids.IdentityID, event Event) (*Output, func(), error) {
	switch event.Kind {

	case EventNewUser:
		if from.Kind != ids.IdentityRoom {
			return nil, nil, ErrUnauthorized
		}
		signKey := keyBytes(event.NewIdentity.SignKey.Encode())
		encKey := keyBytes(event.NewIdentity.EncryptKey.Value.Encode())
		if _, used := s.PublicKeyIndex[signKey]; used {
			return nil, nil, ErrPublicKeyAlreadyUsed
		}
		if _, used := s.PublicKeyIndex[encKey]; used {
			return nil, nil, ErrPublicKeyAlreadyUsed
		}
		if s.UsersExhausted {
			return nil, nil, ErrMaxUserIDReached
		}
		newID := s.NextUserID
		s.PublicKeyIndex[signKey] = PublicKeyOwner{Kind: PublicKeySign, Identity: ids.UserIdentity(newID)}
		s.PublicKeyIndex[encKey] = PublicKeyOwner{Kind: PublicKeyEncrypt, Identity: ids.UserIdentity(newID)}
		s.Users = append(s.Users, IdentityInfo{CryptoID: event.NewIdentity, Role: RegularRole(Asker)})
		next, ok := s.NextUserID.Next()
		s.NextUserID = next
		s.UsersExhausted = !ok
		undo := func() {
			s.Users = s.Users[:len(s.Users)-1]
			delete(s.PublicKeyIndex, signKey)
			delete(s.PublicKeyIndex, encKey)
			s.NextUserID = newID
			s.UsersExhausted = false
		}
		return nil, undo, nil

	case EventNewMask:
		if from.Kind != ids.IdentityRoom {
			return nil, nil, ErrUnauthorized
		}
		signKey := keyBytes(event.NewIdentity.SignKey.Encode())
		encKey := keyBytes(event.NewIdentity.EncryptKey.Value.Encode())
		if _, used := s.PublicKeyIndex[signKey]; used {
			return nil, nil, ErrPublicKeyAlreadyUsed
		}
		if _, used := s.PublicKeyIndex[encKey]; used {
			return nil, nil, ErrPublicKeyAlreadyUsed
		}
		if s.MasksExhausted {
			return nil, nil, ErrMaxMaskIDReached
		}
		newID := s.NextMaskID
		s.PublicKeyIndex[signKey] = PublicKeyOwner{Kind: PublicKeySign, Identity: ids.MaskIdentity(newID)}
		s.PublicKeyIndex[encKey] = PublicKeyOwner{Kind: PublicKeyEncrypt, Identity: ids.MaskIdentity(newID)}
		s.Masks = append(s.Masks, IdentityInfo{CryptoID: event.NewIdentity, Role: RegularRole(Asker)})
		next, ok := s.NextMaskID.Next()
		s.NextMaskID = next
		s.MasksExhausted = !ok
		undo := func() {
			s.Masks = s.Masks[:len(s.Masks)-1]
			delete(s.PublicKeyIndex, signKey)
			delete(s.PublicKeyIndex, encKey)
			s.NextMaskID = newID
			s.MasksExhausted = false
		}
		return nil, undo, nil

	case EventConnected:
		if from.Kind != ids.IdentityRoom {
			return nil, nil, ErrUnauthorized
		}
		if !s.IsValidUserID(event.User) {
			return nil, nil, ErrNoSuchUser
		}
		was := s.Connected[event.User]
		s.Connected[event.User] = true
		undo := func() {
			if was {
				s.Connected[event.User] = true
			} else {
				delete(s.Connected, event.User)
			}
		}
		return nil, undo, nil

	case EventDisconnected:
		if from.Kind != ids.IdentityRoom {
			return nil, nil, ErrUnauthorized
		}
		if !s.IsValidUserID(event.User) {
			return nil, nil, ErrNoSuchUser
		}
		was := s.Connected[event.User]
		delete(s.Connected, event.User)
		undo := func() {
			if was {
				s.Connected[event.User] = true
			}
		}
		return nil, undo, nil

	case EventChangeRole:
		userRole, err := s.RoleOf(ids.UserIdentity(event.User))
		if err != nil {
			return nil, nil, err
		}
		if from.Kind == ids.IdentityUser {
			fromRole, err := s.RoleOf(from)
			if err != nil {
				return nil, nil, err
			}
			if !CanGrantTo(fromRole, from.User, userRole, event.User) {
				return nil, nil, ErrUnauthorized
			}
			if (event.Role.Kind == RoleDuty) && !fromRole.IsAdminOrOwner() {
				return nil, nil, ErrUnauthorized
			}
		} else if from.Kind == ids.IdentityMask {
			return nil, nil, ErrUnauthorized
		}
		if !s.IsValidUserID(event.User) {
			return nil, nil, ErrNoSuchUser
		}
		old := s.Users[event.User].Role
		s.Users[event.User].Role = event.Role
		undo := func() { s.Users[event.User].Role = old }
		var out *Output
		if event.Role.IsBanned() {
			u := event.User
			out = &Output{Ban: &u}
		}
		return out, undo, nil

	case EventChangeIdentityInfo:
		if !s.IsValidIdentityID(event.Identity) {
			return nil, nil, ErrNoSuchIdentity
		}
		if event.Identity.Kind == ids.IdentityRoom {
			if from.Kind != ids.IdentityRoom {
				fromRole, err := s.RoleOf(from)
				if err != nil {
					return nil, nil, err
				}
				if !fromRole.IsAdminOrOwner() {
					return nil, nil, ErrUnauthorized
				}
			}
		} else if !event.Identity.Equal(from) {
			return nil, nil, ErrUnauthorized
		} else {
			fromRole, err := s.RoleOf(from)
			if err != nil {
				return nil, nil, err
			}
			if fromRole.IsBanned() {
				return nil, nil, ErrUnauthorized
			}
		}
		info, err := s.identityInfo(event.Identity)
		if err != nil {
			return nil, nil, err
		}
		oldName, oldDesc := info.Name, info.Description
		if event.Name != nil {
			info.Name = event.Name
		}
		if event.Description != nil {
			info.Description = event.Description
		}
		undo := func() {
			info.Name = oldName
			info.Description = oldDesc
		}
		return nil, undo, nil

	case EventSetAccessibility:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		old := s.Accessibility
		s.Accessibility = event.Accessibility
		undo := func() { s.Accessibility = old }
		return nil, undo, nil

	case EventSetMaxConnectedUsers:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		old := s.MaxConnectedUsers
		s.MaxConnectedUsers = event.MaxConnectedUsers
		undo := func() { s.MaxConnectedUsers = old }
		return nil, undo, nil

	case EventNewQuestion:
		role, err := s.RoleOf(from)
		if err != nil {
			return nil, nil, err
		}
		if !s.QuestionRights.Allows(from, role) {
			return nil, nil, ErrUnauthorized
		}
		if len(s.Questions) >= int(s.MaxQuestions) {
			return nil, nil, ErrMaxQuestionsReached
		}
		if s.QuestionsExhausted {
			return nil, nil, ErrMaxQuestionIDReached
		}
		newID := s.NextQuestionID
		s.Questions[newID] = QuestionInfo{
			Question: Question{
				ID:          newID,
				From:        from,
				Kind:        event.QuestionKind,
				PollOptions: event.PollOptions,
				Text:        event.QuestionText,
			},
			Likes:    make(map[ids.UserID]Like),
			Priority: PriorityStandard,
		}
		next, ok := s.NextQuestionID.Next()
		s.NextQuestionID = next
		s.QuestionsExhausted = !ok
		undo := func() {
			delete(s.Questions, newID)
			s.NextQuestionID = newID
			s.QuestionsExhausted = false
		}
		return nil, undo, nil

	case EventClarifyQuestion:
		role, err := s.RoleOf(from)
		if err != nil {
			return nil, nil, err
		}
		q, ok := s.Questions[event.Question]
		if !ok {
			return nil, nil, ErrNoSuchQuestion
		}
		if role.IsBanned() || !(q.Question.From.Equal(from) || role.CanModerate()) {
			return nil, nil, ErrUnauthorized
		}
		s.Questions[event.Question] = withClarification(q, event.Clarification)
		undo := func() { s.Questions[event.Question] = q }
		return nil, undo, nil

	case EventLikeQuestion:
		if from.Kind != ids.IdentityUser {
			return nil, nil, ErrUnauthorized
		}
		role, err := s.RoleOf(from)
		if err != nil {
			return nil, nil, err
		}
		if role.IsBanned() {
			return nil, nil, ErrUnauthorized
		}
		q, ok := s.Questions[event.Question]
		if !ok {
			return nil, nil, ErrNoSuchQuestion
		}
		old, had := q.Likes[event.User]
		if event.Like != nil {
			q.Likes[event.User] = *event.Like
		} else {
			delete(q.Likes, event.User)
		}
		undo := func() {
			if had {
				q.Likes[event.User] = old
			} else {
				delete(q.Likes, event.User)
			}
		}
		return nil, undo, nil

	case EventChangeQuestionPriority:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		q, ok := s.Questions[event.Question]
		if !ok {
			return nil, nil, ErrNoSuchQuestion
		}
		old := q.Priority
		q.Priority = event.Priority
		s.Questions[event.Question] = q
		undo := func() {
			q.Priority = old
			s.Questions[event.Question] = q
		}
		return nil, undo, nil

	case EventDeleteQuestions:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		toDelete, err := s.resolveDeleteSpec(event.DeleteSpec)
		if err != nil {
			return nil, nil, err
		}
		removed := make(map[ids.QuestionID]QuestionInfo, len(toDelete))
		for _, id := range toDelete {
			removed[id] = s.Questions[id]
			delete(s.Questions, id)
		}
		undo := func() {
			for id, q := range removed {
				s.Questions[id] = q
			}
		}
		return nil, undo, nil

	case EventSetMaxQuestions:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		old := s.MaxQuestions
		s.MaxQuestions = event.MaxQuestions
		undo := func() { s.MaxQuestions = old }
		return nil, undo, nil

	case EventSetQuestionRights:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		if event.Role.IsBanned() {
			return nil, nil, ErrInvalidRole
		}
		old := s.QuestionRights.Role
		s.QuestionRights.Role = event.Role
		undo := func() { s.QuestionRights.Role = old }
		return nil, undo, nil

	case EventSetExplicitQuestionRight:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		if !s.IsValidIdentityID(event.Identity) {
			return nil, nil, ErrNoSuchIdentity
		}
		old, had := s.QuestionRights.Explicit[event.Identity]
		delete(s.QuestionRights.Explicit, event.Identity)
		if event.Allow != nil {
			s.QuestionRights.Explicit[event.Identity] = *event.Allow
		}
		undo := func() {
			delete(s.QuestionRights.Explicit, event.Identity)
			if had {
				s.QuestionRights.Explicit[event.Identity] = old
			}
		}
		return nil, undo, nil

	case EventOpenAnswering:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		id, found := s.nextQuestionToAnswer()
		if !found {
			return nil, func() {}, nil
		}
		q := s.Questions[id]
		delete(s.Questions, id)
		oldAnswering := s.Answering
		chosen := id
		s.Answering = &chosen
		undo := func() {
			s.Questions[id] = q
			s.Answering = oldAnswering
		}
		return &Output{NewQuestion: &q.Question}, undo, nil

	case EventCloseAnswering:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		if s.Answering == nil {
			return nil, nil, ErrNoAnswering
		}
		old := s.Answering
		s.Answering = nil
		undo := func() { s.Answering = old }
		return nil, undo, nil

	case EventFinishedAnswering:
		if from.Kind != ids.IdentityRoom {
			return nil, nil, ErrUnauthorized
		}
		if s.Answering == nil {
			return nil, nil, ErrNoAnswering
		}
		old := s.Answering
		s.Answering = nil
		undo := func() { s.Answering = old }
		return nil, undo, nil

	case EventMessage:
		role, err := s.RoleOf(from)
		if err != nil {
			return nil, nil, err
		}
		if !s.MessageRights.Allows(from, role) {
			return nil, nil, ErrUnauthorized
		}
		return nil, func() {}, nil

	case EventSetMessageRights:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		if event.Role.IsBanned() {
			return nil, nil, ErrInvalidRole
		}
		old := s.MessageRights.Role
		s.MessageRights.Role = event.Role
		undo := func() { s.MessageRights.Role = old }
		return nil, undo, nil

	case EventSetExplicitMessageRight:
		if _, err := s.ensureAdminOrModerator(from); err != nil {
			return nil, nil, err
		}
		if !s.IsValidIdentityID(event.Identity) {
			return nil, nil, ErrNoSuchIdentity
		}
		old, had := s.MessageRights.Explicit[event.Identity]
		delete(s.MessageRights.Explicit, event.Identity)
		if event.Allow != nil {
			s.MessageRights.Explicit[event.Identity] = *event.Allow
		}
		undo := func() {
			delete(s.MessageRights.Explicit, event.Identity)
			if had {
				s.MessageRights.Explicit[event.Identity] = old
			}
		}
		return nil, undo, nil

	default:
		return nil, nil, ErrUnauthorized
	}
}

// SignKeyOf returns the signing public key registered for identity, so a
// transaction's attached signature can be checked against its claimed
// sender before the transaction is applied (spec.md §6).
func (s *State) SignKeyOf(identity ids.IdentityID) (xcrypto.PublicKey, error) {
	info, err := s.identityInfo(identity)
	if err != nil {
		return xcrypto.PublicKey{}, err
	}
	return info.CryptoID.SignKey, nil
}

func (s *State) identityInfo(identity ids.IdentityID) (*IdentityInfo, error) {
	switch identity.Kind {
	case ids.IdentityRoom:
		return &s.Room, nil
	case ids.IdentityUser:
		if !s.IsValidUserID(identity.User) {
			return nil, ErrNoSuchUser
		}
		return &s.Users[identity.User], nil
	case ids.IdentityMask:
		if !s.IsValidMaskID(identity.Mask) {
			return nil, ErrNoSuchMask
		}
		return &s.Masks[identity.Mask], nil
	default:
		return nil, ErrNoSuchIdentity
	}
}

func withClarification(q QuestionInfo, clarification string) QuestionInfo {
	q.Question.Clarifications = append(append([]string{}, q.Question.Clarifications...), clarification)
	return q
}

func (s *State) resolveDeleteSpec(spec QuestionDeleteSpec) ([]ids.QuestionID, error) {
	switch spec.Kind {
	case DeleteAll:
		out := make([]ids.QuestionID, 0, len(s.Questions))
		for id := range s.Questions {
			out = append(out, id)
		}
		return out, nil
	case DeleteSpecific:
		for _, id := range spec.IDs {
			if _, ok := s.Questions[id]; !ok {
				return nil, ErrNoSuchQuestion
			}
		}
		return spec.IDs, nil
	case DeleteBeforePriority:
		out := make([]ids.QuestionID, 0)
		for id, q := range s.Questions {
			if q.Priority < spec.Priority {
				out = append(out, id)
			}
		}
		return out, nil
	default:
		return nil, ErrNoSuchQuestion
	}
}

// nextQuestionToAnswer picks the least QuestionInfo by the (Priority,
// LikeScore, QuestionID) order (room/state.rs::OpenAnswering's min scan).
func (s *State) nextQuestionToAnswer() (ids.QuestionID, bool) {
	if len(s.Questions) == 0 {
		return 0, false
	}
	ordered := make([]QuestionInfo, 0, len(s.Questions))
	for _, q := range s.Questions {
		ordered = append(ordered, q)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })
	return ordered[0].Question.ID, true
}
