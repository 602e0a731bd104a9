package room

import "errors"

// Protocol errors the room layer can return (spec.md §7 "Protocol
// errors"), a subset of the closed taxonomy scoped to room-chain events.
var (
	ErrRoomAlreadyCreated   = errors.New("room: already created")
	ErrPublicKeyAlreadyUsed = errors.New("room: public key already used")
	ErrMaxUserIDReached     = errors.New("room: max user id reached")
	ErrMaxMaskIDReached     = errors.New("room: max mask id reached")
	ErrUnauthorized         = errors.New("room: unauthorized")
	ErrNoSuchUser           = errors.New("room: no such user")
	ErrNoSuchMask           = errors.New("room: no such mask")
	ErrNoSuchIdentity       = errors.New("room: no such identity")
	ErrMaxQuestionsReached  = errors.New("room: max questions reached")
	ErrMaxQuestionIDReached = errors.New("room: max question id reached")
	ErrNoSuchQuestion       = errors.New("room: no such question")
	ErrNoAnswering          = errors.New("room: no open question is being answered")
	ErrAnsweringCreated     = errors.New("room: a question is already being answered")
	ErrInvalidRole          = errors.New("room: invalid role")
)
