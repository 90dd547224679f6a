package bamboo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hdevalence/ed25519consensus"
)

var (
	// ErrChainEmpty is returned when VerifyChain is given no entries.
	ErrChainEmpty = errors.New("bamboo: batch: empty chain")
	// ErrChainSeqNumGap is returned when two consecutive entries in a
	// chain do not have consecutive sequence numbers.
	ErrChainSeqNumGap = errors.New("bamboo: batch: sequence number gap in chain")
	// ErrChainSignatureInvalid is returned when the batched signature
	// check fails for at least one entry in the chain. Batch
	// verification does not identify which entry failed; callers that
	// need that should fall back to Verify per entry.
	ErrChainSignatureInvalid = errors.New("bamboo: batch: one or more signatures in the chain are invalid")
)

// VerifyChain checks a contiguous, ordered run of one feed's entries:
// sequence numbers advance by exactly one, each entry's backlink (and
// lipmaa-link, when required and within the slice) hashes correctly
// against its target, and every signature verifies. Signatures are
// checked with a single batched scalar multiplication rather than one
// at a time, trading the ability to name which entry failed for
// throughput on long chains.
//
// entries need not start at sequence number 1: VerifyChain accepts a
// window cut from the middle of a feed, the way a partial replica
// would hold one. The first entry's own backlink (and, symmetrically,
// any lipmaa-link target outside the slice) is not an error: VerifyChain
// only checks links it can resolve locally. Callers stitching together
// partial replicas should additionally Verify those entries' links
// against separately fetched target entries.
func VerifyChain(entries [][]byte) error {
	if len(entries) == 0 {
		return ErrChainEmpty
	}

	decoded := make([]Entry, len(entries))
	for i, raw := range entries {
		e, err := Decode(raw)
		if err != nil {
			return fmt.Errorf("bamboo: batch: decoding entry %d: %w", i, err)
		}
		decoded[i] = e
	}

	for i := 1; i < len(decoded); i++ {
		if decoded[i].SeqNum != decoded[i-1].SeqNum+1 {
			return fmt.Errorf("%w: entry %d has seq_num %d, want %d", ErrChainSeqNumGap, i, decoded[i].SeqNum, decoded[i-1].SeqNum+1)
		}
	}

	for i := 1; i < len(decoded); i++ {
		if err := verifyChainLinks(decoded[i], entries[i-1], lipmaaTarget(decoded, entries, i)); err != nil {
			return fmt.Errorf("bamboo: batch: entry %d: %w", i, err)
		}
	}

	bv := ed25519consensus.NewBatchVerifier()
	for i, e := range decoded {
		if e.Sig == nil {
			return fmt.Errorf("bamboo: batch: entry %d: %w", i, ErrVerifyMissingSignature)
		}
		var buf [MaxEntrySize]byte
		n, err := e.EncodeForSigning(buf[:])
		if err != nil {
			return fmt.Errorf("bamboo: batch: entry %d: %w", i, err)
		}
		msg := make([]byte, n)
		copy(msg, buf[:n])
		bv.Add(e.Author, msg, e.Sig.Value)
	}
	if !bv.Verify() {
		return ErrChainSignatureInvalid
	}

	return nil
}

// verifyChainLinks checks entry e's backlink against backlinkBytes
// unconditionally, and its lipmaa-link against lipmaaBytes only when
// the target was resolved within the chain; an unresolved out-of-slice
// lipmaa target is silently skipped rather than reported as missing.
func verifyChainLinks(e Entry, backlinkBytes, lipmaaBytes []byte) error {
	if lipmaaBytes == nil && IsLipmaaRequired(e.SeqNum) {
		// Target is outside the slice; verify the backlink only.
		return verifyBacklinkOnly(e, backlinkBytes)
	}
	return verifyLinks(e, backlinkBytes, lipmaaBytes)
}

func verifyBacklinkOnly(e Entry, backlinkBytes []byte) error {
	if backlinkBytes == nil {
		return ErrVerifyMissingBacklinkEntry
	}
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
	return nil
}

// lipmaaTarget returns the encoded bytes of decoded[i]'s lipmaa-link
// target if it falls within the slice, or nil if it is out of range
// (in which case verifyChainLinks checks the backlink only).
func lipmaaTarget(decoded []Entry, entries [][]byte, i int) []byte {
	if !IsLipmaaRequired(decoded[i].SeqNum) {
		return nil
	}
	want := Lipmaa(decoded[i].SeqNum)
	first := decoded[0].SeqNum
	if want < first {
		return nil
	}
	idx := int(want - first)
	if idx < 0 || idx >= len(entries) {
		return nil
	}
	return entries[idx]
}
