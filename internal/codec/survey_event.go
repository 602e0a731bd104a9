package codec

import (
	"errors"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/survey"
)

// ErrUnknownSurveyEventKind is returned when a decoded discriminant byte
// does not match any known survey.EventKind.
var ErrUnknownSurveyEventKind = errors.New("codec: unknown survey event kind")

func putAnswer(dst []byte, a survey.Answer) []byte {
	dst = putPublicKey(dst, a.SignKey)
	dst = putPublicKey(dst, a.EncryptKey)
	dst = putUint64(dst, a.Iteration)
	dst = append(dst, a.Ciphertext[:]...)
	dst = putRingSig(dst, a.RingSig)
	return putSig(dst, a.Sig)
}

func getAnswer(buf []byte) (survey.Answer, []byte, error) {
	signKey, rest, err := getPublicKey(buf)
	if err != nil {
		return survey.Answer{}, nil, err
	}
	encryptKey, rest, err := getPublicKey(rest)
	if err != nil {
		return survey.Answer{}, nil, err
	}
	iteration, rest, err := getUint64(rest)
	if err != nil {
		return survey.Answer{}, nil, err
	}
	if len(rest) < len(survey.Answer{}.Ciphertext) {
		return survey.Answer{}, nil, ErrTruncated
	}
	var a survey.Answer
	a.SignKey = signKey
	a.EncryptKey = encryptKey
	a.Iteration = iteration
	copy(a.Ciphertext[:], rest[:len(a.Ciphertext)])
	rest = rest[len(a.Ciphertext):]
	a.RingSig, rest, err = getRingSig(rest)
	if err != nil {
		return survey.Answer{}, nil, err
	}
	a.Sig, rest, err = getSig(rest)
	if err != nil {
		return survey.Answer{}, nil, err
	}
	return a, rest, nil
}

// EncodeSurveyEvent marshals a single survey.Event. Question is always
// carried, not only on EventCreateSurvey: it is how a transaction
// self-identifies which of the room's concurrently open survey chains it
// targets, before the receiving server has even decoded far enough to
// inspect the rest of the event (spec.md §6 "each chain is identified by
// (chain_id, height)").
func EncodeSurveyEvent(e survey.Event) []byte {
	dst := putUint8(nil, uint8(e.Kind))
	dst = putUint16(dst, uint16(e.Question))
	switch e.Kind {
	case survey.EventCreateSurvey:
		// Question already written above; CreateSurvey carries no
		// further payload.
	case survey.EventJoin, survey.EventLeave, survey.EventGo, survey.EventReady:
		// no payload
	case survey.EventConnected, survey.EventDisconnected, survey.EventKick, survey.EventUnkick:
		dst = putUint16(dst, uint16(e.User))
	case survey.EventSetJoinability:
		dst = putBool(dst, e.Joinable)
	case survey.EventSetCollectability:
		dst = putBool(dst, e.Collectable)
	case survey.EventPublicPartialKey:
		dst = putPublicKey(dst, e.PublicShare)
		dst = putSig(dst, e.Possession)
	case survey.EventNewAnswer:
		dst = putAnswer(dst, e.Answer)
	case survey.EventPrivatePartialKey:
		dst = putSecretKey(dst, e.SecretShare)
	case survey.EventMessage:
		dst = putString(dst, e.Message)
	case survey.EventSetMessageLevel:
		dst = putRole(dst, e.MessageLevel)
		dst = putIdentityID(dst, e.Identity)
		dst = putOptBool(dst, e.Allow)
	}
	return dst
}

// DecodeSurveyEvent decodes one survey.Event produced by
// EncodeSurveyEvent, returning the remaining buffer. Question is always
// present; only CreateSurvey's use of it changes a chain's membership
// (every other event's Question just names the chain it was submitted
// against).
func DecodeSurveyEvent(buf []byte) (survey.Event, []byte, error) {
	kindByte, rest, err := getUint8(buf)
	if err != nil {
		return survey.Event{}, nil, err
	}
	kind := survey.EventKind(kindByte)
	e := survey.Event{Kind: kind}
	var q uint16
	q, rest, err = getUint16(rest)
	if err != nil {
		return survey.Event{}, nil, err
	}
	e.Question = ids.QuestionID(q)
	switch kind {
	case survey.EventCreateSurvey:
		// Question already decoded above.
	case survey.EventJoin, survey.EventLeave, survey.EventGo, survey.EventReady:
		// no payload
	case survey.EventConnected, survey.EventDisconnected, survey.EventKick, survey.EventUnkick:
		var u uint16
		u, rest, err = getUint16(rest)
		e.User = ids.UserID(u)
	case survey.EventSetJoinability:
		e.Joinable, rest, err = getBool(rest)
	case survey.EventSetCollectability:
		e.Collectable, rest, err = getBool(rest)
	case survey.EventPublicPartialKey:
		e.PublicShare, rest, err = getPublicKey(rest)
		if err != nil {
			break
		}
		e.Possession, rest, err = getSig(rest)
	case survey.EventNewAnswer:
		e.Answer, rest, err = getAnswer(rest)
	case survey.EventPrivatePartialKey:
		e.SecretShare, rest, err = getSecretKey(rest)
	case survey.EventMessage:
		e.Message, rest, err = getString(rest)
	case survey.EventSetMessageLevel:
		e.MessageLevel, rest, err = getRole(rest)
		if err != nil {
			break
		}
		e.Identity, rest, err = getIdentityID(rest)
		if err != nil {
			break
		}
		e.Allow, rest, err = getOptBool(rest)
	default:
		return survey.Event{}, nil, ErrUnknownSurveyEventKind
	}
	if err != nil {
		return survey.Event{}, nil, err
	}
	return e, rest, nil
}
