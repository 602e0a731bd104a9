package codec

import (
	"github.com/rawblock/kuzh/internal/chain"
	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/room"
	"github.com/rawblock/kuzh/internal/survey"
)

func putNonce(dst []byte, n ids.Nonce) []byte { return putUint64(dst, uint64(n)) }

func getNonce(buf []byte) (ids.Nonce, []byte, error) {
	v, rest, err := getUint64(buf)
	return ids.Nonce(v), rest, err
}

// EncodeRoomTransaction marshals a room chain transaction (spec.md §6).
func EncodeRoomTransaction(tx chain.Transaction[room.Event]) []byte {
	dst := putUint8(nil, uint8(tx.Chain))
	dst = putIdentityID(dst, tx.From)
	dst = putUint32(dst, uint32(len(tx.Events)))
	for _, e := range tx.Events {
		dst = append(dst, EncodeRoomEvent(e)...)
	}
	return putNonce(dst, tx.Nonce)
}

// DecodeRoomTransaction decodes a room chain transaction produced by
// EncodeRoomTransaction.
func DecodeRoomTransaction(buf []byte) (chain.Transaction[room.Event], error) {
	chainKind, rest, err := getUint8(buf)
	if err != nil {
		return chain.Transaction[room.Event]{}, err
	}
	from, rest, err := getIdentityID(rest)
	if err != nil {
		return chain.Transaction[room.Event]{}, err
	}
	n, rest, err := getUint32(rest)
	if err != nil {
		return chain.Transaction[room.Event]{}, err
	}
	events := make([]room.Event, 0, n)
	for i := uint32(0); i < n; i++ {
		var e room.Event
		e, rest, err = DecodeRoomEvent(rest)
		if err != nil {
			return chain.Transaction[room.Event]{}, err
		}
		events = append(events, e)
	}
	nonce, _, err := getNonce(rest)
	if err != nil {
		return chain.Transaction[room.Event]{}, err
	}
	return chain.Transaction[room.Event]{
		Chain:  ids.ChainKind(chainKind),
		From:   from,
		Events: events,
		Nonce:  nonce,
	}, nil
}

// EncodeSurveyTransaction marshals a survey chain transaction.
func EncodeSurveyTransaction(tx chain.Transaction[survey.Event]) []byte {
	dst := putUint8(nil, uint8(tx.Chain))
	dst = putIdentityID(dst, tx.From)
	dst = putUint32(dst, uint32(len(tx.Events)))
	for _, e := range tx.Events {
		dst = append(dst, EncodeSurveyEvent(e)...)
	}
	return putNonce(dst, tx.Nonce)
}

// DecodeSurveyTransaction decodes a survey chain transaction produced by
// EncodeSurveyTransaction.
func DecodeSurveyTransaction(buf []byte) (chain.Transaction[survey.Event], error) {
	chainKind, rest, err := getUint8(buf)
	if err != nil {
		return chain.Transaction[survey.Event]{}, err
	}
	from, rest, err := getIdentityID(rest)
	if err != nil {
		return chain.Transaction[survey.Event]{}, err
	}
	n, rest, err := getUint32(rest)
	if err != nil {
		return chain.Transaction[survey.Event]{}, err
	}
	events := make([]survey.Event, 0, n)
	for i := uint32(0); i < n; i++ {
		var e survey.Event
		e, rest, err = DecodeSurveyEvent(rest)
		if err != nil {
			return chain.Transaction[survey.Event]{}, err
		}
		events = append(events, e)
	}
	nonce, _, err := getNonce(rest)
	if err != nil {
		return chain.Transaction[survey.Event]{}, err
	}
	return chain.Transaction[survey.Event]{
		Chain:  ids.ChainKind(chainKind),
		From:   from,
		Events: events,
		Nonce:  nonce,
	}, nil
}

// EncodeSignedRoomTransaction marshals a client-signed room transaction,
// the payload carried by wire tag 0x01 (spec.md §6).
func EncodeSignedRoomTransaction(stx chain.SignedTransaction[room.Event]) []byte {
	return putSignedRoomTransaction(nil, stx)
}

// DecodeSignedRoomTransaction decodes a client-signed room transaction
// produced by EncodeSignedRoomTransaction. The caller is responsible for
// verifying Signature against the sender's registered public key before
// applying Value; this function only parses the wire encoding.
func DecodeSignedRoomTransaction(buf []byte) (chain.SignedTransaction[room.Event], error) {
	stx, _, err := getSignedRoomTransaction(buf)
	return stx, err
}

func putSignedRoomTransaction(dst []byte, stx chain.SignedTransaction[room.Event]) []byte {
	dst = putVarBytesRaw(dst, EncodeRoomTransaction(stx.Value))
	return putSig(dst, stx.Signature)
}

func getSignedRoomTransaction(buf []byte) (chain.SignedTransaction[room.Event], []byte, error) {
	txBytes, rest, err := getWire32Prefixed(buf)
	if err != nil {
		return chain.SignedTransaction[room.Event]{}, nil, err
	}
	tx, err := DecodeRoomTransaction(txBytes)
	if err != nil {
		return chain.SignedTransaction[room.Event]{}, nil, err
	}
	sig, rest, err := getSig(rest)
	if err != nil {
		return chain.SignedTransaction[room.Event]{}, nil, err
	}
	return chain.SignedTransaction[room.Event]{Value: tx, Signature: sig}, rest, nil
}

// EncodeSignedSurveyTransaction marshals a client-signed survey
// transaction, the payload carried by wire tag 0x02 (spec.md §6).
func EncodeSignedSurveyTransaction(stx chain.SignedTransaction[survey.Event]) []byte {
	return putSignedSurveyTransaction(nil, stx)
}

// DecodeSignedSurveyTransaction decodes a client-signed survey
// transaction produced by EncodeSignedSurveyTransaction. The caller must
// verify Signature against the sender's registered public key before
// applying Value.
func DecodeSignedSurveyTransaction(buf []byte) (chain.SignedTransaction[survey.Event], error) {
	stx, _, err := getSignedSurveyTransaction(buf)
	return stx, err
}

func putSignedSurveyTransaction(dst []byte, stx chain.SignedTransaction[survey.Event]) []byte {
	dst = putVarBytesRaw(dst, EncodeSurveyTransaction(stx.Value))
	return putSig(dst, stx.Signature)
}

func getSignedSurveyTransaction(buf []byte) (chain.SignedTransaction[survey.Event], []byte, error) {
	txBytes, rest, err := getWire32Prefixed(buf)
	if err != nil {
		return chain.SignedTransaction[survey.Event]{}, nil, err
	}
	tx, err := DecodeSurveyTransaction(txBytes)
	if err != nil {
		return chain.SignedTransaction[survey.Event]{}, nil, err
	}
	sig, rest, err := getSig(rest)
	if err != nil {
		return chain.SignedTransaction[survey.Event]{}, nil, err
	}
	return chain.SignedTransaction[survey.Event]{Value: tx, Signature: sig}, rest, nil
}

func putVarBytesRaw(dst []byte, payload []byte) []byte {
	dst = putUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

func getWire32Prefixed(buf []byte) ([]byte, []byte, error) {
	n, rest, err := getUint32(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(rest)) < n {
		return nil, nil, ErrTruncated
	}
	return rest[:n], rest[n:], nil
}

// EncodeRoomBlock marshals a sealed room chain block.
func EncodeRoomBlock(b chain.Block[room.Event]) []byte {
	dst := putUint8(nil, uint8(b.Chain))
	dst = putUint64(dst, b.Height)
	dst = append(dst, b.ParentHash[:]...)
	dst = putUint32(dst, uint32(len(b.Transactions)))
	for _, tx := range b.Transactions {
		dst = putSignedRoomTransaction(dst, tx)
	}
	return dst
}

// DecodeRoomBlock decodes a sealed room chain block produced by
// EncodeRoomBlock.
func DecodeRoomBlock(buf []byte) (chain.Block[room.Event], error) {
	chainKind, rest, err := getUint8(buf)
	if err != nil {
		return chain.Block[room.Event]{}, err
	}
	height, rest, err := getUint64(rest)
	if err != nil {
		return chain.Block[room.Event]{}, err
	}
	if len(rest) < 32 {
		return chain.Block[room.Event]{}, ErrTruncated
	}
	var parent chain.Hash
	copy(parent[:], rest[:32])
	rest = rest[32:]
	n, rest, err := getUint32(rest)
	if err != nil {
		return chain.Block[room.Event]{}, err
	}
	txs := make([]chain.SignedTransaction[room.Event], 0, n)
	for i := uint32(0); i < n; i++ {
		var tx chain.SignedTransaction[room.Event]
		tx, rest, err = getSignedRoomTransaction(rest)
		if err != nil {
			return chain.Block[room.Event]{}, err
		}
		txs = append(txs, tx)
	}
	return chain.Block[room.Event]{
		Chain:        ids.ChainKind(chainKind),
		Height:       height,
		ParentHash:   parent,
		Transactions: txs,
	}, nil
}

// EncodeSurveyBlock marshals a sealed survey chain block.
func EncodeSurveyBlock(b chain.Block[survey.Event]) []byte {
	dst := putUint8(nil, uint8(b.Chain))
	dst = putUint64(dst, b.Height)
	dst = append(dst, b.ParentHash[:]...)
	dst = putUint32(dst, uint32(len(b.Transactions)))
	for _, tx := range b.Transactions {
		dst = putSignedSurveyTransaction(dst, tx)
	}
	return dst
}

// DecodeSurveyBlock decodes a sealed survey chain block produced by
// EncodeSurveyBlock.
func DecodeSurveyBlock(buf []byte) (chain.Block[survey.Event], error) {
	chainKind, rest, err := getUint8(buf)
	if err != nil {
		return chain.Block[survey.Event]{}, err
	}
	height, rest, err := getUint64(rest)
	if err != nil {
		return chain.Block[survey.Event]{}, err
	}
	if len(rest) < 32 {
		return chain.Block[survey.Event]{}, ErrTruncated
	}
	var parent chain.Hash
	copy(parent[:], rest[:32])
	rest = rest[32:]
	n, rest, err := getUint32(rest)
	if err != nil {
		return chain.Block[survey.Event]{}, err
	}
	txs := make([]chain.SignedTransaction[survey.Event], 0, n)
	for i := uint32(0); i < n; i++ {
		var tx chain.SignedTransaction[survey.Event]
		tx, rest, err = getSignedSurveyTransaction(rest)
		if err != nil {
			return chain.Block[survey.Event]{}, err
		}
		txs = append(txs, tx)
	}
	return chain.Block[survey.Event]{
		Chain:        ids.ChainKind(chainKind),
		Height:       height,
		ParentHash:   parent,
		Transactions: txs,
	}, nil
}
