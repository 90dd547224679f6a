package bamboo

import (
	"crypto/ed25519"
	"errors"
)

// MaxEntrySize is the largest number of bytes a single encoded entry
// can occupy: one byte for is_end_of_feed, a 64-byte signature, a
// 32-byte author key, three tagged digests (backlink, lipmaa_link,
// payload_hash) at 34 bytes each, and three varints (log_id, seq_num,
// payload_size) at up to 9 bytes each.
const MaxEntrySize = 1 + SignatureSize + ed25519.PublicKeySize + 3*digestWireLen + 3*MaxVarintLen

// maxEntrySizeFormula restates MaxEntrySize's derivation so a change to
// either constant that breaks the arithmetic fails to compile, via the
// zero-length-array trick below.
const maxEntrySizeFormula = 1 + SignatureSize + ed25519.PublicKeySize + 3*digestWireLen + 3*MaxVarintLen

var (
	_ [MaxEntrySize - maxEntrySizeFormula]struct{}
	_ [maxEntrySizeFormula - MaxEntrySize]struct{}
)

var (
	// ErrAuthorLength is returned when an author field is not exactly
	// ed25519.PublicKeySize bytes.
	ErrAuthorLength = errors.New("bamboo: entry: author has wrong length")
	// ErrSeqNumZero is returned when an entry's sequence number is 0;
	// sequence numbers start at 1.
	ErrSeqNumZero = errors.New("bamboo: entry: sequence number must be at least 1")
	// ErrFirstEntryHasLinks is returned when the first entry of a feed
	// (seq_num 1) carries a backlink or lipmaa_link.
	ErrFirstEntryHasLinks = errors.New("bamboo: entry: first entry must not carry backlink or lipmaa_link")
	// ErrMissingBacklink is returned when an entry past the first of a
	// feed does not carry a backlink.
	ErrMissingBacklink = errors.New("bamboo: entry: entry after the first must carry a backlink")
	// ErrMissingLipmaaLink is returned when IsLipmaaRequired(seq_num) is
	// true but the entry does not carry a lipmaa_link.
	ErrMissingLipmaaLink = errors.New("bamboo: entry: entry requires a lipmaa_link distinct from its backlink")
)

// Entry is a single Bamboo log entry. Its digest and signature fields
// may borrow from a caller-supplied buffer (as produced by Decode);
// call ToOwned to detach an Entry from that buffer.
type Entry struct {
	IsEndOfFeed bool
	Author      ed25519.PublicKey
	LogID       uint64
	SeqNum      uint64
	Backlink    *Digest
	LipmaaLink  *Digest
	PayloadSize uint64
	PayloadHash Digest
	Sig         *Signature
}

// Validate checks the structural invariants that every entry must
// satisfy regardless of where it came from: a well-formed author and
// payload hash, and link fields that are present exactly when the
// entry's position in the feed requires them.
func (e Entry) Validate() error {
	if len(e.Author) != ed25519.PublicKeySize {
		return ErrAuthorLength
	}
	if len(e.PayloadHash.Value) != DigestSize {
		return ErrDigestLength
	}
	if e.SeqNum == 0 {
		return ErrSeqNumZero
	}
	if e.SeqNum == 1 {
		if e.Backlink != nil || e.LipmaaLink != nil {
			return ErrFirstEntryHasLinks
		}
		return nil
	}
	if e.Backlink == nil {
		return ErrMissingBacklink
	}
	if len(e.Backlink.Value) != DigestSize {
		return ErrDigestLength
	}
	if IsLipmaaRequired(e.SeqNum) {
		if e.LipmaaLink == nil {
			return ErrMissingLipmaaLink
		}
		if len(e.LipmaaLink.Value) != DigestSize {
			return ErrDigestLength
		}
	}
	return nil
}
