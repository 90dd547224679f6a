package bamboo

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

// Decode errors name the field being parsed when it fails, so callers
// can tell a truncated author from a non-canonical payload_size
// without string-matching the message. Each wraps the lower-level
// cause (usually ErrVarintTruncated, ErrVarintNonCanonical, or a hash
// error) via %w.
var (
	ErrDecodeEmptyInput      = errors.New("bamboo: decode: empty input")
	ErrDecodeIsEndOfFeed     = errors.New("bamboo: decode: is_end_of_feed")
	ErrDecodeAuthor          = errors.New("bamboo: decode: author")
	ErrDecodeLogID           = errors.New("bamboo: decode: log_id")
	ErrDecodeSeqNum          = errors.New("bamboo: decode: seq_num")
	ErrDecodeBacklink        = errors.New("bamboo: decode: backlink")
	ErrDecodeLipmaaLink      = errors.New("bamboo: decode: lipmaa_link")
	ErrDecodePayloadSize     = errors.New("bamboo: decode: payload_size")
	ErrDecodePayloadHash     = errors.New("bamboo: decode: payload_hash")
	ErrDecodeSignature       = errors.New("bamboo: decode: signature")
	ErrDecodeIsEndOfFeedByte = errors.New("bamboo: decode: is_end_of_feed must be 0x00 or 0x01")
)

// Decode parses a single entry from b. The returned Entry's
// digest/signature/author fields borrow from b; the caller must not
// mutate b while the Entry is in use, and must call ToOwned to keep
// the entry past b's lifetime.
//
// Decode does not check the entry's signature or its links against
// neighboring entries; that is Verify's job. It does check the
// structural invariants from Entry.Validate before returning.
func Decode(b []byte) (Entry, error) {
	if len(b) == 0 {
		return Entry{}, ErrDecodeEmptyInput
	}

	var e Entry

	switch b[0] {
	case 0x00:
		e.IsEndOfFeed = false
	case 0x01:
		e.IsEndOfFeed = true
	default:
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodeIsEndOfFeed, ErrDecodeIsEndOfFeedByte)
	}
	b = b[1:]

	if len(b) < ed25519.PublicKeySize {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodeAuthor, ErrVarintTruncated)
	}
	e.Author = ed25519.PublicKey(b[:ed25519.PublicKeySize])
	b = b[ed25519.PublicKeySize:]

	logID, b2, err := DecodeVarint(b)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodeLogID, err)
	}
	e.LogID, b = logID, b2

	seqNum, b3, err := DecodeVarint(b)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodeSeqNum, err)
	}
	if seqNum == 0 {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodeSeqNum, ErrSeqNumZero)
	}
	e.SeqNum, b = seqNum, b3

	if e.SeqNum > 1 {
		var backlink Digest
		backlink, b, err = decodeDigest(b)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %w", ErrDecodeBacklink, err)
		}
		e.Backlink = &backlink

		if IsLipmaaRequired(e.SeqNum) {
			var lipmaa Digest
			lipmaa, b, err = decodeDigest(b)
			if err != nil {
				return Entry{}, fmt.Errorf("%w: %w", ErrDecodeLipmaaLink, err)
			}
			e.LipmaaLink = &lipmaa
		}
	}

	payloadSize, b4, err := DecodeVarint(b)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodePayloadSize, err)
	}
	e.PayloadSize, b = payloadSize, b4

	payloadHash, b5, err := decodeDigest(b)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodePayloadHash, err)
	}
	e.PayloadHash, b = payloadHash, b5

	sig, err := decodeSignature(b)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodeSignature, err)
	}
	e.Sig = sig

	if err := e.Validate(); err != nil {
		return Entry{}, err
	}

	return e, nil
}
