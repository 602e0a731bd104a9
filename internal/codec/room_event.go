package codec

import (
	"errors"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/room"
)

// ErrUnknownEventKind is returned when a decoded discriminant byte does
// not match any known EventKind.
var ErrUnknownEventKind = errors.New("codec: unknown event kind")

func putLike(dst []byte, l *room.Like) []byte {
	if l == nil {
		return putBool(dst, false)
	}
	dst = putBool(dst, true)
	return putUint8(dst, uint8(*l))
}

func getLike(buf []byte) (*room.Like, []byte, error) {
	present, rest, err := getBool(buf)
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, rest, nil
	}
	v, rest, err := getUint8(rest)
	if err != nil {
		return nil, nil, err
	}
	l := room.Like(v)
	return &l, rest, nil
}

func putOptBool(dst []byte, b *bool) []byte {
	if b == nil {
		return putBool(dst, false)
	}
	dst = putBool(dst, true)
	return putBool(dst, *b)
}

func getOptBool(buf []byte) (*bool, []byte, error) {
	present, rest, err := getBool(buf)
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, rest, nil
	}
	v, rest, err := getBool(rest)
	if err != nil {
		return nil, nil, err
	}
	return &v, rest, nil
}

func putDeleteSpec(dst []byte, d room.QuestionDeleteSpec) []byte {
	dst = putUint8(dst, uint8(d.Kind))
	dst = putUint8(dst, uint8(d.Priority))
	dst = putUint32(dst, uint32(len(d.IDs)))
	for _, id := range d.IDs {
		dst = putUint16(dst, uint16(id))
	}
	return dst
}

func getDeleteSpec(buf []byte) (room.QuestionDeleteSpec, []byte, error) {
	kind, rest, err := getUint8(buf)
	if err != nil {
		return room.QuestionDeleteSpec{}, nil, err
	}
	priority, rest, err := getUint8(rest)
	if err != nil {
		return room.QuestionDeleteSpec{}, nil, err
	}
	n, rest, err := getUint32(rest)
	if err != nil {
		return room.QuestionDeleteSpec{}, nil, err
	}
	idList := make([]ids.QuestionID, 0, n)
	for i := uint32(0); i < n; i++ {
		var v uint16
		v, rest, err = getUint16(rest)
		if err != nil {
			return room.QuestionDeleteSpec{}, nil, err
		}
		idList = append(idList, ids.QuestionID(v))
	}
	return room.QuestionDeleteSpec{
		Kind:     room.QuestionDeleteKind(kind),
		Priority: room.QuestionPriority(priority),
		IDs:      idList,
	}, rest, nil
}

// EncodeRoomEvent marshals a single room.Event in the field layout its
// Kind requires (spec.md §6).
func EncodeRoomEvent(e room.Event) []byte {
	dst := putUint8(nil, uint8(e.Kind))
	switch e.Kind {
	case room.EventNewUser, room.EventNewMask:
		dst = putCryptoID(dst, e.NewIdentity)
	case room.EventConnected, room.EventDisconnected:
		dst = putUint16(dst, uint16(e.User))
	case room.EventChangeRole:
		dst = putUint16(dst, uint16(e.User))
		dst = putRole(dst, e.Role)
	case room.EventChangeIdentityInfo:
		dst = putIdentityID(dst, e.Identity)
		dst = putOptString(dst, e.Name)
		dst = putOptString(dst, e.Description)
	case room.EventSetAccessibility:
		dst = putUint8(dst, uint8(e.Accessibility))
	case room.EventSetMaxConnectedUsers:
		dst = putUint16(dst, e.MaxConnectedUsers)
	case room.EventNewQuestion:
		dst = putUint8(dst, uint8(e.QuestionKind))
		dst = putString(dst, e.QuestionText)
		dst = putStringSlice(dst, e.PollOptions)
	case room.EventClarifyQuestion:
		dst = putUint16(dst, uint16(e.Question))
		dst = putString(dst, e.Clarification)
	case room.EventLikeQuestion:
		dst = putUint16(dst, uint16(e.User))
		dst = putUint16(dst, uint16(e.Question))
		dst = putLike(dst, e.Like)
	case room.EventChangeQuestionPriority:
		dst = putUint16(dst, uint16(e.Question))
		dst = putUint8(dst, uint8(e.Priority))
	case room.EventDeleteQuestions:
		dst = putDeleteSpec(dst, e.DeleteSpec)
	case room.EventSetMaxQuestions:
		dst = putUint8(dst, e.MaxQuestions)
	case room.EventSetQuestionRights, room.EventSetMessageRights:
		dst = putRole(dst, e.Role)
	case room.EventSetExplicitQuestionRight, room.EventSetExplicitMessageRight:
		dst = putIdentityID(dst, e.Identity)
		dst = putOptBool(dst, e.Allow)
	case room.EventOpenAnswering:
		dst = putUint16(dst, uint16(e.Question))
	case room.EventCloseAnswering, room.EventFinishedAnswering:
		// no payload
	case room.EventMessage:
		dst = putString(dst, e.Message)
	}
	return dst
}

// DecodeRoomEvent decodes one room.Event produced by EncodeRoomEvent,
// returning the remaining buffer.
func DecodeRoomEvent(buf []byte) (room.Event, []byte, error) {
	kindByte, rest, err := getUint8(buf)
	if err != nil {
		return room.Event{}, nil, err
	}
	kind := room.EventKind(kindByte)
	e := room.Event{Kind: kind}
	switch kind {
	case room.EventNewUser, room.EventNewMask:
		e.NewIdentity, rest, err = getCryptoID(rest)
	case room.EventConnected, room.EventDisconnected:
		var u uint16
		u, rest, err = getUint16(rest)
		e.User = ids.UserID(u)
	case room.EventChangeRole:
		var u uint16
		u, rest, err = getUint16(rest)
		if err != nil {
			break
		}
		e.User = ids.UserID(u)
		e.Role, rest, err = getRole(rest)
	case room.EventChangeIdentityInfo:
		e.Identity, rest, err = getIdentityID(rest)
		if err != nil {
			break
		}
		e.Name, rest, err = getOptString(rest)
		if err != nil {
			break
		}
		e.Description, rest, err = getOptString(rest)
	case room.EventSetAccessibility:
		var v uint8
		v, rest, err = getUint8(rest)
		e.Accessibility = room.Accessibility(v)
	case room.EventSetMaxConnectedUsers:
		e.MaxConnectedUsers, rest, err = getUint16(rest)
	case room.EventNewQuestion:
		var k uint8
		k, rest, err = getUint8(rest)
		if err != nil {
			break
		}
		e.QuestionKind = room.QuestionKind(k)
		e.QuestionText, rest, err = getString(rest)
		if err != nil {
			break
		}
		e.PollOptions, rest, err = getStringSlice(rest)
	case room.EventClarifyQuestion:
		var q uint16
		q, rest, err = getUint16(rest)
		if err != nil {
			break
		}
		e.Question = ids.QuestionID(q)
		e.Clarification, rest, err = getString(rest)
	case room.EventLikeQuestion:
		var u, q uint16
		u, rest, err = getUint16(rest)
		if err != nil {
			break
		}
		e.User = ids.UserID(u)
		q, rest, err = getUint16(rest)
		if err != nil {
			break
		}
		e.Question = ids.QuestionID(q)
		e.Like, rest, err = getLike(rest)
	case room.EventChangeQuestionPriority:
		var q uint16
		q, rest, err = getUint16(rest)
		if err != nil {
			break
		}
		e.Question = ids.QuestionID(q)
		var p uint8
		p, rest, err = getUint8(rest)
		e.Priority = room.QuestionPriority(p)
	case room.EventDeleteQuestions:
		e.DeleteSpec, rest, err = getDeleteSpec(rest)
	case room.EventSetMaxQuestions:
		e.MaxQuestions, rest, err = getUint8(rest)
	case room.EventSetQuestionRights, room.EventSetMessageRights:
		e.Role, rest, err = getRole(rest)
	case room.EventSetExplicitQuestionRight, room.EventSetExplicitMessageRight:
		e.Identity, rest, err = getIdentityID(rest)
		if err != nil {
			break
		}
		e.Allow, rest, err = getOptBool(rest)
	case room.EventOpenAnswering:
		var q uint16
		q, rest, err = getUint16(rest)
		e.Question = ids.QuestionID(q)
	case room.EventCloseAnswering, room.EventFinishedAnswering:
		// no payload
	case room.EventMessage:
		e.Message, rest, err = getString(rest)
	default:
		return room.Event{}, nil, ErrUnknownEventKind
	}
	if err != nil {
		return room.Event{}, nil, err
	}
	return e, rest, nil
}
