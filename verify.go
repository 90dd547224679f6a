package bamboo

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature is returned when an entry's signature does not
	// verify against its author and encoded content.
	ErrInvalidSignature = errors.New("bamboo: verify: invalid signature")
	// ErrVerifyMissingSignature is returned when Verify is given an
	// entry with no signature at all.
	ErrVerifyMissingSignature = errors.New("bamboo: verify: entry has no signature")
	// ErrPayloadHashMismatch is returned when a supplied payload's
	// digest does not match the entry's payload_hash.
	ErrPayloadHashMismatch = errors.New("bamboo: verify: payload hash does not match")
	// ErrVerifyMissingBacklinkEntry is returned by VerifyChain's
	// backlink-only check when no backlink entry bytes are given. Verify
	// itself accepts absent backlink bytes and does not return it.
	ErrVerifyMissingBacklinkEntry = errors.New("bamboo: verify: backlink entry not supplied")
	// ErrVerifyMissingLipmaaEntry is returned when an entry requiring a
	// lipmaa-link is verified without that entry's bytes.
	ErrVerifyMissingLipmaaEntry = errors.New("bamboo: verify: lipmaa-link entry not supplied")
	// ErrVerifyPublishedAfterEndOfFeed is returned when the backlink
	// entry already set is_end_of_feed, so no entry should follow it.
	ErrVerifyPublishedAfterEndOfFeed = errors.New("bamboo: verify: backlink entry already ended the feed")
	// ErrBacklinkAuthorMismatch is returned when the backlink entry's
	// author differs from the entry being verified.
	ErrBacklinkAuthorMismatch = errors.New("bamboo: verify: backlink entry has a different author")
	// ErrBacklinkSeqNumMismatch is returned when the backlink entry's
	// sequence number is not exactly one less than the entry's.
	ErrBacklinkSeqNumMismatch = errors.New("bamboo: verify: backlink entry has the wrong sequence number")
	// ErrBacklinkHashMismatch is returned when the backlink entry's
	// bytes do not hash to the entry's backlink digest.
	ErrBacklinkHashMismatch = errors.New("bamboo: verify: backlink entry does not match backlink digest")
	// ErrLipmaaAuthorMismatch is returned when the lipmaa-link entry's
	// author differs from the entry being verified.
	ErrLipmaaAuthorMismatch = errors.New("bamboo: verify: lipmaa-link entry has a different author")
	// ErrLipmaaHashMismatch is returned when the lipmaa-link entry's
	// bytes do not hash to the entry's lipmaa_link digest.
	ErrLipmaaHashMismatch = errors.New("bamboo: verify: lipmaa-link entry does not match lipmaa_link digest")
	// ErrUnknownLinkState is a defensive catch-all for link-presence
	// combinations that Entry.Validate should already have ruled out.
	// Reaching it signals a bug in this package rather than malformed
	// input.
	ErrUnknownLinkState = errors.New("bamboo: verify: entry has an unrecognized combination of link fields")
)

// PayloadLengthMismatchError reports that a payload supplied to Verify
// does not have the length recorded in the entry's payload_size field.
type PayloadLengthMismatchError struct {
	Expected uint64
	Actual   int
}

func (e *PayloadLengthMismatchError) Error() string {
	return fmt.Sprintf("bamboo: verify: payload is %d bytes, entry says %d", e.Actual, e.Expected)
}

// VerifyLogIDMismatchError reports that a context entry supplied to
// Verify belongs to a different log than the entry being verified.
type VerifyLogIDMismatchError struct {
	Link     string // "backlink" or "lipmaa-link"
	Expected uint64
	Actual   uint64
}

func (e *VerifyLogIDMismatchError) Error() string {
	return fmt.Sprintf("bamboo: verify: %s entry has log_id %d, want %d", e.Link, e.Actual, e.Expected)
}

// Verify checks entryBytes' signature and, where the corresponding
// byte slices are supplied, its payload hash and its links against the
// backlink and lipmaa-link entries.
//
// payload and backlinkBytes may be nil, in which case the payload and
// backlink checks are skipped. lipmaaBytes is ignored unless
// IsLipmaaRequired(seq_num) holds for the entry; then it must be
// supplied, or Verify returns ErrVerifyMissingLipmaaEntry.
func Verify(entryBytes, payload, backlinkBytes, lipmaaBytes []byte) error {
	e, err := Decode(entryBytes)
	if err != nil {
		return err
	}

	if err := verifySignature(e, entryBytes); err != nil {
		return err
	}

	if payload != nil {
		got := digestOf(payload)
		if !got.Ref().Equal(e.PayloadHash) {
			return ErrPayloadHashMismatch
		}
		if uint64(len(payload)) != e.PayloadSize {
			return &PayloadLengthMismatchError{Expected: e.PayloadSize, Actual: len(payload)}
		}
	}

	if e.SeqNum == 1 {
		return nil
	}

	return verifyLinks(e, backlinkBytes, lipmaaBytes)
}

func verifySignature(e Entry, entryBytes []byte) error {
	if e.Sig == nil {
		return ErrVerifyMissingSignature
	}
	var buf [MaxEntrySize]byte
	n, err := e.EncodeForSigning(buf[:])
	if err != nil {
		return fmt.Errorf("bamboo: verify: %w", err)
	}
	if !ed25519.Verify(e.Author, buf[:n], e.Sig.Value) {
		return ErrInvalidSignature
	}
	return nil
}

func verifyLinks(e Entry, backlinkBytes, lipmaaBytes []byte) error {
	switch {
	case e.Backlink == nil:
		// Entry.Validate already requires a backlink for seq_num > 1;
		// reaching this means Validate was bypassed somehow.
		return ErrUnknownLinkState
	case IsLipmaaRequired(e.SeqNum) && e.LipmaaLink == nil:
		return ErrUnknownLinkState
	}

	// Absent backlink bytes are permitted: a partial replica may not
	// hold the predecessor entry. Only what's supplied gets checked.
	if backlinkBytes != nil {
		backlinkEntry, err := Decode(backlinkBytes)
		if err != nil {
			return fmt.Errorf("bamboo: verify: decoding backlink entry: %w", err)
		}
		if backlinkEntry.IsEndOfFeed {
			return ErrVerifyPublishedAfterEndOfFeed
		}
		if backlinkEntry.LogID != e.LogID {
			return &VerifyLogIDMismatchError{Link: "backlink", Expected: e.LogID, Actual: backlinkEntry.LogID}
		}
		if !bytes.Equal(backlinkEntry.Author, e.Author) {
			return ErrBacklinkAuthorMismatch
		}
		if backlinkEntry.SeqNum+1 != e.SeqNum {
			return ErrBacklinkSeqNumMismatch
		}
		backlinkDigest := digestOf(backlinkBytes)
		if !backlinkDigest.Ref().Equal(*e.Backlink) {
			return ErrBacklinkHashMismatch
		}
	}

	if !IsLipmaaRequired(e.SeqNum) {
		return nil
	}

	if lipmaaBytes == nil {
		return ErrVerifyMissingLipmaaEntry
	}
	lipmaaEntry, err := Decode(lipmaaBytes)
	if err != nil {
		return fmt.Errorf("bamboo: verify: decoding lipmaa-link entry: %w", err)
	}
	if lipmaaEntry.LogID != e.LogID {
		return &VerifyLogIDMismatchError{Link: "lipmaa-link", Expected: e.LogID, Actual: lipmaaEntry.LogID}
	}
	if !bytes.Equal(lipmaaEntry.Author, e.Author) {
		return ErrLipmaaAuthorMismatch
	}
	lipmaaDigest := digestOf(lipmaaBytes)
	if !lipmaaDigest.Ref().Equal(*e.LipmaaLink) {
		return ErrLipmaaHashMismatch
	}

	return nil
}
