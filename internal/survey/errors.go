// Package survey implements the anonymous survey state machine (spec.md
// §4.4, component C4): Open → Encrypt → Answers → Decrypt → Debate, with
// explicit iteration bumps on member loss. It is ported in shape from
// original_source's kuzh-common/src/answering/state.rs (the
// AnsweringPhase enum and its normalize/apply_event structure), which is
// itself unfinished there — most event arms are todo!() — built out here
// against spec.md's fully specified transition table.
package survey

import "errors"

var (
	ErrUnauthorized       = errors.New("survey: unauthorized")
	ErrSurveyUnjoinable   = errors.New("survey: not joinable in the current phase")
	ErrAlreadyJoined      = errors.New("survey: already joined")
	ErrNotJoined          = errors.New("survey: not a member of this survey")
	ErrInvalidPhase       = errors.New("survey: event not valid in the current phase")
	ErrSurveyUnready      = errors.New("survey: members are still not ready")
	ErrStaleIteration     = errors.New("survey: answer belongs to a stale iteration")
	ErrNoSuchMember       = errors.New("survey: no such member")
	ErrShareAlreadySet    = errors.New("survey: encryption share already committed")
	ErrBadSharePossession = errors.New("survey: share possession proof failed")
	ErrBadAnswerSignature = errors.New("survey: answer signature invalid")
	ErrJointKeyMismatch   = errors.New("survey: revealed secrets do not reconstruct the joint key")
)
