package room

import "github.com/rawblock/kuzh/internal/ids"

// EventKind discriminates the cases of Event (room.rs::RoomEvent, trimmed
// to what the room chain itself needs to apply — answering-phase events
// live in package survey).
type EventKind int

const (
	EventNewUser EventKind = iota
	EventNewMask
	EventConnected
	EventDisconnected
	EventChangeRole
	EventChangeIdentityInfo
	EventSetAccessibility
	EventSetMaxConnectedUsers
	EventNewQuestion
	EventClarifyQuestion
	EventLikeQuestion
	EventChangeQuestionPriority
	EventDeleteQuestions
	EventSetMaxQuestions
	EventSetQuestionRights
	EventSetExplicitQuestionRight
	EventOpenAnswering
	EventCloseAnswering
	EventFinishedAnswering
	EventMessage
	EventSetMessageRights
	EventSetExplicitMessageRight
)

// Accessibility mirrors room.rs::RoomAccessibility.
type Accessibility int

const (
	AccessOpenToAnyone Accessibility = iota
	AccessMembersOnly
	AccessPublicKeyProtected
	AccessSecretKeyProtected
)

// QuestionDeleteKind discriminates QuestionDeleteSpec's cases.
type QuestionDeleteKind int

const (
	DeleteAll QuestionDeleteKind = iota
	DeleteBeforePriority
	DeleteSpecific
)

// QuestionDeleteSpec selects which questions DeleteQuestions removes.
type QuestionDeleteSpec struct {
	Kind     QuestionDeleteKind
	Priority QuestionPriority
	IDs      []ids.QuestionID
}

// Event is a single room-chain event (room.rs::RoomEvent). Only the
// fields relevant to Kind are populated; this mirrors the discriminated
// payload style used for ClearAnswer and the wire message tags.
type Event struct {
	Kind EventKind

	NewIdentity CryptoID // NewUser, NewMask

	User ids.UserID // Connected, Disconnected, ChangeRole, LikeQuestion
	Role Role        // ChangeRole, SetQuestionRights, SetMessageRights

	Identity    ids.IdentityID // ChangeIdentityInfo, SetExplicitQuestionRight, SetExplicitMessageRight
	Name        *string        // ChangeIdentityInfo
	Description *string        // ChangeIdentityInfo
	Allow       *bool          // SetExplicitQuestionRight, SetExplicitMessageRight

	Accessibility     Accessibility // SetAccessibility
	MaxConnectedUsers uint16        // SetMaxConnectedUsers

	QuestionKind QuestionKind // NewQuestion
	QuestionText string       // NewQuestion
	PollOptions  []string     // NewQuestion

	Question      ids.QuestionID // ClarifyQuestion, LikeQuestion, ChangeQuestionPriority
	Clarification string         // ClarifyQuestion
	Like          *Like          // LikeQuestion (nil clears the member's vote)
	Priority      QuestionPriority

	DeleteSpec QuestionDeleteSpec // DeleteQuestions
	MaxQuestions uint8             // SetMaxQuestions (reuses MaxConnectedUsers-style swap semantics)

	Message string // Message
}

// Output is what applying an event can additionally report back to the
// chain host, beyond success/failure (room/state.rs::RoomOutput).
type Output struct {
	NewQuestion *Question
	Ban         *ids.UserID
}
