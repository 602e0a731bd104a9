package room

import "github.com/rawblock/kuzh/internal/ids"

// QuestionKind discriminates the three question shapes a survey can
// answer (spec.md §6 "Answer payload").
type QuestionKind int

const (
	QuestionOpen QuestionKind = iota
	QuestionClosed
	QuestionPoll
)

// Question is one item in the room's question queue.
type Question struct {
	ID             ids.QuestionID
	From           ids.IdentityID
	Kind           QuestionKind
	PollOptions    []string
	Text           string
	Clarifications []string
}

// Like is a member's vote on a question, used to order the queue.
type Like int

const (
	LikeUp Like = iota
	LikeDown
)

// QuestionPriority orders questions ahead of their like score
// (room/state.rs::QuestionPriority).
type QuestionPriority int

const (
	PriorityLow QuestionPriority = iota
	PriorityStandard
	PriorityHigh
)

// QuestionInfo is one entry of the room's question queue, together with
// its likes and priority (room/state.rs::QuestionInfo).
type QuestionInfo struct {
	Question Question
	Likes    map[ids.UserID]Like
	Priority QuestionPriority
}

// LikeScore sums Likes: +1 per LikeUp, -1 per LikeDown.
func (q QuestionInfo) LikeScore() int {
	score := 0
	for _, l := range q.Likes {
		if l == LikeUp {
			score++
		} else {
			score--
		}
	}
	return score
}

// Less orders two QuestionInfo values ascending by (Priority, LikeScore,
// QuestionID), matching room/state.rs::QuestionInfo::cmp; OpenAnswering
// picks the minimum under this order as the next question to open.
func (q QuestionInfo) Less(other QuestionInfo) bool {
	if q.Priority != other.Priority {
		return q.Priority < other.Priority
	}
	if qs, os := q.LikeScore(), other.LikeScore(); qs != os {
		return qs < os
	}
	return q.Question.ID < other.Question.ID
}

// PublicationRights is a role floor plus per-identity overrides, used
// both for the question queue and for room/survey message rights
// (common.rs::PublicationRights).
type PublicationRights struct {
	Role     Role
	Explicit map[ids.IdentityID]bool
}

// Allows reports whether identity, holding role, may publish under r:
// an explicit grant/deny takes precedence; absent that, the role must be
// at least as privileged as the floor.
func (r PublicationRights) Allows(identity ids.IdentityID, role Role) bool {
	if allow, ok := r.Explicit[identity]; ok {
		return allow
	}
	return role.AtLeast(r.Role)
}
