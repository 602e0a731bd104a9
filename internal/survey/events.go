package survey

import (
	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/room"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// EventKind discriminates the cases of Event (spec.md §4.4 "Events
// (partitioned by concern)").
type EventKind int

const (
	EventCreateSurvey EventKind = iota
	EventJoin
	EventLeave
	EventConnected
	EventDisconnected
	EventKick
	EventUnkick
	EventSetJoinability
	EventSetCollectability
	EventGo
	EventReady
	EventPublicPartialKey
	EventNewAnswer
	EventPrivatePartialKey
	EventMessage
	EventSetMessageLevel
)

// Event is a single survey-chain event. Only the fields relevant to Kind
// are populated, matching the discriminated-payload style used for
// room.Event and xcrypto.ClearAnswer.
type Event struct {
	Kind EventKind

	Question ids.QuestionID // every kind: names the survey chain the event targets

	User ids.UserID // Connected, Disconnected, Kick, Unkick

	Joinable    bool // SetJoinability
	Collectable bool // SetCollectability

	PublicShare xcrypto.PublicKey         // PublicPartialKey
	Possession  xcrypto.ProofOfPossession // PublicPartialKey

	Answer Answer // NewAnswer

	SecretShare xcrypto.SecretKey // PrivatePartialKey

	Message      string         // Message
	MessageLevel room.Role      // SetMessageLevel
	Identity     ids.IdentityID // SetMessageLevel explicit override target
	Allow        *bool          // SetMessageLevel explicit override value
}

// Output reports what applying an event additionally produced, beyond
// success/failure (mirrors room.Output).
type Output struct {
	// ClearAnswers is populated once Decrypt finishes normalizing into
	// Debate: every member's answer, opened under the joint key once the
	// reconstructed joint secret has been checked against it, in the order
	// the answers were submitted.
	ClearAnswers []xcrypto.ClearAnswer

	// Cheater is set when NewAnswer's ring-link check finds that two
	// answers in this iteration resolve to the same ring slot.
	Cheater *ids.UserID
}
