package survey

import (
	"sort"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/room"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// PhaseKind discriminates the five survey phases (spec.md §3 "Survey
// state").
type PhaseKind int

const (
	PhaseOpen PhaseKind = iota
	PhaseEncrypt
	PhaseAnswers
	PhaseDecrypt
	PhaseDebate
)

// MemberStatus is an Open-phase member's connectivity state.
type MemberStatus int

const (
	Present MemberStatus = iota
	Absent
	Kicked
)

// OpenMember is one entry of the Open phase's member map.
type OpenMember struct {
	Status MemberStatus
	Ready  bool
	Share  *xcrypto.PublicKey
}

// OpenPhase is the survey's initial phase: members assemble and flip
// ready while the survey is joinable (spec.md §3.1).
type OpenPhase struct {
	Joinable       bool
	Collectable    bool
	Members        map[ids.UserID]*OpenMember
	PendingUnready uint16
}

// EncryptPhase collects each member's encryption share (spec.md §3.2).
type EncryptPhase struct {
	Iteration uint64
	Ready     map[ids.UserID]xcrypto.PublicKey
	Unready   map[ids.UserID]bool
}

// AnswersPhase collects one ciphertext per member under the joint key
// assembled in Encrypt (spec.md §3.3).
type AnswersPhase struct {
	Iteration uint64
	Members   map[ids.UserID]xcrypto.PublicKey
	JointKey  xcrypto.PublicKey
	Answers   []Answer
	Remaining uint16
}

// DecryptMember is one entry of the Decrypt phase's member map.
type DecryptMember struct {
	Share       xcrypto.PublicKey
	SecretShare *xcrypto.SecretKey
}

// DecryptPhase collects each member's secret share so the joint secret
// can be reconstructed and every answer opened (spec.md §3.4).
type DecryptPhase struct {
	Iteration uint64
	Members   map[ids.UserID]*DecryptMember
	JointKey  xcrypto.PublicKey
	Answers   []Answer
	Remaining uint16
}

// DebatePhase is the survey's terminal phase: answers are open and the
// surviving members may discuss them (spec.md §3.5).
type DebatePhase struct {
	Members      map[ids.UserID]bool
	ClearAnswers []xcrypto.ClearAnswer
}

// State is one survey's in-memory state machine. Exactly one of Open,
// Encrypt, Answers, Decrypt, Debate is non-nil, selected by Phase.
type State struct {
	Question ids.QuestionID
	Phase    PhaseKind

	Open    *OpenPhase
	Encrypt *EncryptPhase
	Answers *AnswersPhase
	Decrypt *DecryptPhase
	Debate  *DebatePhase

	// Rights governs who may post Message events on this survey's chain,
	// a role floor plus explicit per-identity overrides scoped to this
	// one survey (the room has its own, separate MessageRights).
	Rights room.PublicationRights

	Policy room.Policy
}

// CreateSurvey starts a new survey bound to question, as a Duty-signed
// event from the parent room (spec.md §3 "Lifecycle": "A survey is
// created by a Duty-signed CreateSurvey"). Unlike every other event this
// is not a method on an existing *State — a survey chain comes into
// existence with this call.
func CreateSurvey(policy room.Policy, from ids.IdentityID, question ids.QuestionID) (*State, error) {
	role, err := policy.RoleOf(from)
	if err != nil {
		return nil, err
	}
	if !role.CanModerate() {
		return nil, ErrUnauthorized
	}
	return &State{
		Question: question,
		Phase:    PhaseOpen,
		Open: &OpenPhase{
			Members: make(map[ids.UserID]*OpenMember),
		},
		Rights: room.PublicationRights{
			Role:     room.RegularRole(room.Messager),
			Explicit: make(map[ids.IdentityID]bool),
		},
		Policy: policy,
	}, nil
}

// ApplyEvent validates and applies one event against the survey's
// current phase, returning an undo closure on success (§4.5) or a typed
// error. EventCreateSurvey is rejected here: a survey chain is created by
// the package-level CreateSurvey constructor, never by a method call on
// an already-existing State ("illegal once created", spec.md §4.4).
func (s *State) ApplyEvent(from ids.IdentityID, event Event) (*Output, func(), error) {
	switch event.Kind {
	case EventCreateSurvey:
		return nil, nil, ErrInvalidPhase
	case EventJoin:
		return s.applyJoin(from)
	case EventLeave:
		return s.applyLeave(from)
	case EventConnected:
		return s.applyConnected(from, event.User, true)
	case EventDisconnected:
		return s.applyConnected(from, event.User, false)
	case EventKick:
		return s.applyKick(from, event.User, true)
	case EventUnkick:
		return s.applyKick(from, event.User, false)
	case EventSetJoinability:
		return s.applySetJoinability(from, event.Joinable)
	case EventSetCollectability:
		return s.applySetCollectability(from, event.Collectable)
	case EventGo:
		return s.applyGo(from)
	case EventReady:
		return s.applyReady(from)
	case EventPublicPartialKey:
		return s.applyPublicPartialKey(from, event.PublicShare, event.Possession)
	case EventNewAnswer:
		return s.applyNewAnswer(from, event.Answer)
	case EventPrivatePartialKey:
		return s.applyPrivatePartialKey(from, event.SecretShare)
	case EventMessage:
		return s.applyMessage(from)
	case EventSetMessageLevel:
		return s.applySetMessageLevel(from, event.MessageLevel, event.Identity, event.Allow)
	default:
		return nil, nil, ErrInvalidPhase
	}
}

func (s *State) userOf(from ids.IdentityID) (ids.UserID, bool) {
	if from.Kind != ids.IdentityUser {
		return 0, false
	}
	return from.User, true
}

func (s *State) dutyFrom(from ids.IdentityID) error {
	role, err := s.Policy.RoleOf(from)
	if err != nil {
		return err
	}
	if !role.CanModerate() {
		return ErrUnauthorized
	}
	return nil
}

func (s *State) applyJoin(from ids.IdentityID) (*Output, func(), error) {
	u, ok := s.userOf(from)
	if !ok {
		return nil, nil, ErrUnauthorized
	}
	if s.Phase != PhaseOpen {
		return nil, nil, ErrInvalidPhase
	}
	if !s.Open.Joinable {
		return nil, nil, ErrSurveyUnjoinable
	}
	if !s.Policy.IsMember(u) || s.Policy.IsBanned(u) {
		return nil, nil, ErrUnauthorized
	}
	if _, exists := s.Open.Members[u]; exists {
		return nil, nil, ErrAlreadyJoined
	}
	s.Open.Members[u] = &OpenMember{Status: Present, Ready: false}
	s.Open.PendingUnready++
	undo := func() {
		delete(s.Open.Members, u)
		s.Open.PendingUnready--
	}
	return nil, undo, nil
}

func (s *State) applyLeave(from ids.IdentityID) (*Output, func(), error) {
	u, ok := s.userOf(from)
	if !ok {
		return nil, nil, ErrUnauthorized
	}
	switch s.Phase {
	case PhaseOpen:
		m, exists := s.Open.Members[u]
		if !exists || m.Status != Present {
			return nil, nil, ErrNotJoined
		}
		wasReady := m.Ready
		open := s.Open
		snapshot := s.snapshot()
		m.Status = Absent
		if !wasReady {
			open.PendingUnready--
		}
		s.normalize()
		undo := func() {
			s.restore(snapshot)
			m.Status = Present
			if !wasReady {
				open.PendingUnready++
			}
		}
		return nil, undo, nil
	case PhaseEncrypt, PhaseAnswers, PhaseDecrypt:
		return s.departMember(u)
	case PhaseDebate:
		if !s.Debate.Members[u] {
			return nil, nil, ErrNotJoined
		}
		delete(s.Debate.Members, u)
		undo := func() { s.Debate.Members[u] = true }
		return nil, undo, nil
	default:
		return nil, nil, ErrInvalidPhase
	}
}

func (s *State) applyConnected(from ids.IdentityID, u ids.UserID, connected bool) (*Output, func(), error) {
	if from.Kind != ids.IdentityRoom {
		return nil, nil, ErrUnauthorized
	}
	if s.Phase != PhaseOpen {
		return nil, nil, ErrInvalidPhase
	}
	m, exists := s.Open.Members[u]
	if !exists {
		return nil, nil, ErrNoSuchMember
	}
	prev := m.Status
	if connected {
		if prev == Kicked {
			return nil, nil, ErrInvalidPhase
		}
		m.Status = Present
	} else if prev == Present {
		m.Status = Absent
	}
	undo := func() { m.Status = prev }
	return nil, undo, nil
}

func (s *State) applyKick(from ids.IdentityID, u ids.UserID, kick bool) (*Output, func(), error) {
	if err := s.dutyFrom(from); err != nil {
		return nil, nil, err
	}
	switch s.Phase {
	case PhaseOpen:
		m, exists := s.Open.Members[u]
		if !exists {
			return nil, nil, ErrNoSuchMember
		}
		prevStatus, prevReady := m.Status, m.Ready
		open := s.Open
		snapshot := s.snapshot()
		if kick {
			if m.Status == Kicked {
				return nil, nil, ErrInvalidPhase
			}
			m.Status = Kicked
			if !prevReady {
				open.PendingUnready--
			}
			s.normalize()
		} else {
			if m.Status != Kicked {
				return nil, nil, ErrInvalidPhase
			}
			m.Status = Present
			m.Ready = false
			open.PendingUnready++
		}
		undo := func() {
			s.restore(snapshot)
			m.Status = prevStatus
			m.Ready = prevReady
			if kick && !prevReady {
				open.PendingUnready++
			} else if !kick {
				open.PendingUnready--
			}
		}
		return nil, undo, nil
	case PhaseEncrypt, PhaseAnswers, PhaseDecrypt:
		if !kick {
			return nil, nil, ErrInvalidPhase
		}
		return s.departMember(u)
	default:
		return nil, nil, ErrInvalidPhase
	}
}

// departMember removes u from whichever of Encrypt/Answers/Decrypt it
// currently occupies and executes next_iteration (spec.md §4.4
// "Iteration on loss").
func (s *State) departMember(u ids.UserID) (*Output, func(), error) {
	snapshot := s.snapshot()
	// The deletion below mutates a map the snapshot still references, so
	// the undo must re-insert the departed entry after restoring the
	// phase pointers — restore alone would leave the member missing.
	var reinsert func()
	switch s.Phase {
	case PhaseEncrypt:
		enc := s.Encrypt
		if pk, ok := enc.Ready[u]; ok {
			delete(enc.Ready, u)
			reinsert = func() { enc.Ready[u] = pk }
		} else if enc.Unready[u] {
			delete(enc.Unready, u)
			reinsert = func() { enc.Unready[u] = true }
		} else {
			return nil, nil, ErrNoSuchMember
		}
	case PhaseAnswers:
		ans := s.Answers
		pk, ok := ans.Members[u]
		if !ok {
			return nil, nil, ErrNoSuchMember
		}
		delete(ans.Members, u)
		reinsert = func() { ans.Members[u] = pk }
	case PhaseDecrypt:
		dec := s.Decrypt
		m, ok := dec.Members[u]
		if !ok {
			return nil, nil, ErrNoSuchMember
		}
		delete(dec.Members, u)
		reinsert = func() { dec.Members[u] = m }
	default:
		return nil, nil, ErrInvalidPhase
	}
	s.nextIteration()
	undo := func() {
		s.restore(snapshot)
		reinsert()
	}
	return nil, undo, nil
}

func (s *State) applySetJoinability(from ids.IdentityID, joinable bool) (*Output, func(), error) {
	if err := s.dutyFrom(from); err != nil {
		return nil, nil, err
	}
	if s.Phase != PhaseOpen {
		return nil, nil, ErrInvalidPhase
	}
	prev := s.Open.Joinable
	s.Open.Joinable = joinable
	undo := func() { s.Open.Joinable = prev }
	return nil, undo, nil
}

func (s *State) applySetCollectability(from ids.IdentityID, collectable bool) (*Output, func(), error) {
	if err := s.dutyFrom(from); err != nil {
		return nil, nil, err
	}
	if s.Phase != PhaseOpen {
		return nil, nil, ErrInvalidPhase
	}
	open := s.Open
	prev := open.Collectable
	snapshot := s.snapshot()
	open.Collectable = collectable
	s.normalize()
	undo := func() {
		s.restore(snapshot)
		open.Collectable = prev
	}
	return nil, undo, nil
}

func (s *State) applyGo(from ids.IdentityID) (*Output, func(), error) {
	if err := s.dutyFrom(from); err != nil {
		return nil, nil, err
	}
	if s.Phase != PhaseOpen {
		return nil, nil, ErrInvalidPhase
	}
	if s.Open.PendingUnready > 0 {
		return nil, nil, ErrSurveyUnready
	}
	snapshot := s.snapshot()
	s.openToEncrypt()
	s.normalize()
	undo := func() { s.restore(snapshot) }
	return nil, undo, nil
}

func (s *State) applyReady(from ids.IdentityID) (*Output, func(), error) {
	u, ok := s.userOf(from)
	if !ok {
		return nil, nil, ErrUnauthorized
	}
	if s.Phase != PhaseOpen {
		return nil, nil, ErrInvalidPhase
	}
	m, exists := s.Open.Members[u]
	if !exists || m.Status != Present {
		return nil, nil, ErrNotJoined
	}
	if m.Ready {
		return nil, nil, ErrInvalidPhase
	}
	m.Ready = true
	s.Open.PendingUnready--
	snapshot := s.snapshot()
	s.normalize()
	undo := func() { s.restore(snapshot); m.Ready = false; s.Open.PendingUnready++ }
	return nil, undo, nil
}

func (s *State) applyPublicPartialKey(from ids.IdentityID, pk xcrypto.PublicKey, proof xcrypto.ProofOfPossession) (*Output, func(), error) {
	u, ok := s.userOf(from)
	if !ok {
		return nil, nil, ErrUnauthorized
	}
	if !xcrypto.VerifySharePossession(pk, proof) {
		return nil, nil, ErrBadSharePossession
	}
	switch s.Phase {
	case PhaseOpen:
		m, exists := s.Open.Members[u]
		if !exists || m.Status != Present {
			return nil, nil, ErrNotJoined
		}
		if m.Share != nil {
			return nil, nil, ErrShareAlreadySet
		}
		m.Share = &pk
		undo := func() { m.Share = nil }
		return nil, undo, nil
	case PhaseEncrypt:
		if !s.Encrypt.Unready[u] {
			if _, alreadyReady := s.Encrypt.Ready[u]; alreadyReady {
				return nil, nil, ErrShareAlreadySet
			}
			return nil, nil, ErrNoSuchMember
		}
		delete(s.Encrypt.Unready, u)
		s.Encrypt.Ready[u] = pk
		snapshot := s.snapshot()
		s.normalize()
		undo := func() {
			s.restore(snapshot)
			delete(s.Encrypt.Ready, u)
			s.Encrypt.Unready[u] = true
		}
		return nil, undo, nil
	default:
		return nil, nil, ErrInvalidPhase
	}
}

func (s *State) applyNewAnswer(from ids.IdentityID, answer Answer) (*Output, func(), error) {
	if from.Kind != ids.IdentityAnswer {
		return nil, nil, ErrUnauthorized
	}
	if s.Phase != PhaseAnswers {
		return nil, nil, ErrInvalidPhase
	}
	if answer.Iteration != s.Answers.Iteration {
		return nil, nil, ErrStaleIteration
	}
	if !answer.VerifyOuter() {
		return nil, nil, ErrBadAnswerSignature
	}
	users, ring := s.answersRing()
	ok, err := answer.VerifyRing(s.Question, ring)
	if err != nil || !ok {
		return nil, nil, ErrBadAnswerSignature
	}

	for _, prior := range s.Answers.Answers {
		priorMsg := ringMessage(prior.Iteration, ring, prior.Ciphertext[:])
		newMsg := ringMessage(answer.Iteration, ring, answer.Ciphertext[:])
		link, err := xcrypto.RingLink(ringTag(s.Question), ring, priorMsg, prior.RingSig, newMsg, answer.RingSig)
		if err != nil {
			return nil, nil, err
		}
		if link.Kind == xcrypto.LinkSamePublicKey {
			cheater := users[link.Index]
			s.Policy.OnCheaterDetected(cheater, room.CheatProof{
				Context: ringTag(s.Question),
				Answer1: priorMsg,
				Answer2: newMsg,
			})
			return &Output{Cheater: &cheater}, func() {}, nil
		}
	}

	s.Answers.Answers = append(s.Answers.Answers, answer)
	s.Answers.Remaining--
	snapshot := s.snapshot()
	s.normalize()
	undo := func() {
		s.restore(snapshot)
		s.Answers.Answers = s.Answers.Answers[:len(s.Answers.Answers)-1]
		s.Answers.Remaining++
	}
	return nil, undo, nil
}

func (s *State) applyPrivatePartialKey(from ids.IdentityID, sk xcrypto.SecretKey) (*Output, func(), error) {
	u, ok := s.userOf(from)
	if !ok {
		return nil, nil, ErrUnauthorized
	}
	if s.Phase != PhaseDecrypt {
		return nil, nil, ErrInvalidPhase
	}
	m, exists := s.Decrypt.Members[u]
	if !exists {
		return nil, nil, ErrNoSuchMember
	}
	if m.SecretShare != nil {
		return nil, nil, ErrShareAlreadySet
	}
	if !sk.Public().Equal(m.Share) {
		return nil, nil, ErrJointKeyMismatch
	}
	m.SecretShare = &sk
	s.Decrypt.Remaining--
	snapshot := s.snapshot()
	output, err := s.normalizeDecrypt()
	if err != nil {
		s.restore(snapshot)
		m.SecretShare = nil
		s.Decrypt.Remaining++
		return nil, nil, err
	}
	undo := func() {
		s.restore(snapshot)
		m.SecretShare = nil
		s.Decrypt.Remaining++
	}
	return output, undo, nil
}

// applyMessage checks whether from may post on this survey's chain. The
// message body itself is not survey state — peers read it straight from
// the sealed block — so success leaves the state untouched.
func (s *State) applyMessage(from ids.IdentityID) (*Output, func(), error) {
	role, err := s.Policy.RoleOf(from)
	if err != nil {
		return nil, nil, err
	}
	if !s.Rights.Allows(from, role) {
		return nil, nil, ErrUnauthorized
	}
	return nil, func() {}, nil
}

func (s *State) applySetMessageLevel(from ids.IdentityID, level room.Role, identity ids.IdentityID, allow *bool) (*Output, func(), error) {
	if err := s.dutyFrom(from); err != nil {
		return nil, nil, err
	}
	if level.IsBanned() {
		return nil, nil, ErrUnauthorized
	}
	oldRole := s.Rights.Role
	oldExplicit, hadExplicit := s.Rights.Explicit[identity]
	s.Rights.Role = level
	delete(s.Rights.Explicit, identity)
	if allow != nil {
		s.Rights.Explicit[identity] = *allow
	}
	undo := func() {
		s.Rights.Role = oldRole
		delete(s.Rights.Explicit, identity)
		if hadExplicit {
			s.Rights.Explicit[identity] = oldExplicit
		}
	}
	return nil, undo, nil
}

// answersRing returns the deterministic (UserID, PublicKey) ordering used
// as the ring for the Answers phase's linkable ring signatures — members
// sorted ascending by UserID (spec.md §3 "members-ordered-keyset").
func (s *State) answersRing() ([]ids.UserID, []xcrypto.PublicKey) {
	users := make([]ids.UserID, 0, len(s.Answers.Members))
	for u := range s.Answers.Members {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	ring := make([]xcrypto.PublicKey, len(users))
	for i, u := range users {
		ring[i] = s.Answers.Members[u]
	}
	return users, ring
}

// normalize repeatedly applies the phase machine's boundary transitions
// until none applies (spec.md §4.4 "Transition logic").
func (s *State) normalize() {
	for {
		switch s.Phase {
		case PhaseOpen:
			if s.Open.Collectable && s.Open.PendingUnready == 0 {
				s.openToEncrypt()
				continue
			}
		case PhaseEncrypt:
			if len(s.Encrypt.Unready) == 0 {
				s.encryptToAnswers()
				continue
			}
		case PhaseAnswers:
			if s.Answers.Remaining == 0 {
				s.answersToDecrypt()
				continue
			}
		}
		return
	}
}

// normalizeDecrypt is normalize's Decrypt→Debate edge, split out because
// it can fail (a revealed secret share might not reconstruct the joint
// key) where every other transition is infallible.
func (s *State) normalizeDecrypt() (*Output, error) {
	if s.Phase != PhaseDecrypt || s.Decrypt.Remaining != 0 {
		return nil, nil
	}
	shares := make([]xcrypto.SecretKey, 0, len(s.Decrypt.Members))
	members := make(map[ids.UserID]bool, len(s.Decrypt.Members))
	for u, m := range s.Decrypt.Members {
		shares = append(shares, *m.SecretShare)
		members[u] = true
	}
	secret := xcrypto.JointSecret(shares)
	if !secret.Public().Equal(s.Decrypt.JointKey) {
		return nil, ErrJointKeyMismatch
	}
	clear := make([]xcrypto.ClearAnswer, 0, len(s.Decrypt.Answers))
	for _, a := range s.Decrypt.Answers {
		c, err := a.Decrypt(s.Decrypt.JointKey)
		if err != nil {
			return nil, err
		}
		clear = append(clear, c)
	}
	s.Debate = &DebatePhase{Members: members, ClearAnswers: clear}
	s.Phase = PhaseDebate
	s.Answers = nil
	s.Decrypt = nil
	return &Output{ClearAnswers: clear}, nil
}

func (s *State) openToEncrypt() {
	ready := make(map[ids.UserID]xcrypto.PublicKey)
	unready := make(map[ids.UserID]bool)
	for u, m := range s.Open.Members {
		if m.Status != Present || !m.Ready {
			continue
		}
		if m.Share != nil {
			ready[u] = *m.Share
		} else {
			unready[u] = true
		}
	}
	s.Encrypt = &EncryptPhase{Iteration: 0, Ready: ready, Unready: unready}
	s.Phase = PhaseEncrypt
	s.Open = nil
}

func (s *State) encryptToAnswers() {
	shares := make([]xcrypto.PublicKey, 0, len(s.Encrypt.Ready))
	for _, pk := range s.Encrypt.Ready {
		shares = append(shares, pk)
	}
	s.Answers = &AnswersPhase{
		Iteration: s.Encrypt.Iteration,
		Members:   s.Encrypt.Ready,
		JointKey:  xcrypto.JointKey(shares),
		Remaining: uint16(len(s.Encrypt.Ready)),
	}
	s.Phase = PhaseAnswers
	s.Encrypt = nil
}

func (s *State) answersToDecrypt() {
	members := make(map[ids.UserID]*DecryptMember, len(s.Answers.Members))
	for u, pk := range s.Answers.Members {
		members[u] = &DecryptMember{Share: pk}
	}
	s.Decrypt = &DecryptPhase{
		Iteration: s.Answers.Iteration,
		Members:   members,
		JointKey:  s.Answers.JointKey,
		Answers:   s.Answers.Answers,
		Remaining: uint16(len(members)),
	}
	s.Phase = PhaseDecrypt
	s.Answers = nil
}

// nextIteration resets the machine back to a fresh Encrypt phase after a
// member is lost mid-protocol, discarding any pending ciphertexts (spec.md
// §4.4 "Iteration on loss").
func (s *State) nextIteration() {
	var members []ids.UserID
	var iteration uint64
	switch s.Phase {
	case PhaseEncrypt:
		iteration = s.Encrypt.Iteration
		for u := range s.Encrypt.Ready {
			members = append(members, u)
		}
		for u := range s.Encrypt.Unready {
			members = append(members, u)
		}
	case PhaseAnswers:
		iteration = s.Answers.Iteration
		for u := range s.Answers.Members {
			members = append(members, u)
		}
	case PhaseDecrypt:
		iteration = s.Decrypt.Iteration
		for u := range s.Decrypt.Members {
			members = append(members, u)
		}
	default:
		return
	}
	unready := make(map[ids.UserID]bool, len(members))
	for _, u := range members {
		unready[u] = true
	}
	s.Encrypt = &EncryptPhase{Iteration: iteration + 1, Ready: make(map[ids.UserID]xcrypto.PublicKey), Unready: unready}
	s.Phase = PhaseEncrypt
	s.Answers = nil
	s.Decrypt = nil
}

// stateSnapshot is a shallow copy of State used to undo a normalize
// sequence that may have crossed several phase boundaries in one event.
type stateSnapshot struct {
	phase   PhaseKind
	open    *OpenPhase
	encrypt *EncryptPhase
	answers *AnswersPhase
	decrypt *DecryptPhase
	debate  *DebatePhase
}

func (s *State) snapshot() stateSnapshot {
	return stateSnapshot{phase: s.Phase, open: s.Open, encrypt: s.Encrypt, answers: s.Answers, decrypt: s.Decrypt, debate: s.Debate}
}

func (s *State) restore(snap stateSnapshot) {
	s.Phase = snap.phase
	s.Open = snap.open
	s.Encrypt = snap.encrypt
	s.Answers = snap.answers
	s.Decrypt = snap.decrypt
	s.Debate = snap.debate
}
