package bamboo

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
)

var (
	// ErrPublishWithoutSecretKey is returned when kp has no private key
	// material to sign the new entry with.
	ErrPublishWithoutSecretKey = errors.New("bamboo: publish: keypair has no private key")
	// ErrPublishAfterEndOfFeed is returned when the caller tries to
	// publish past an entry that already set is_end_of_feed.
	ErrPublishAfterEndOfFeed = errors.New("bamboo: publish: previous entry ended the feed")
	// ErrPublishKeypairMismatchBacklink is returned when kp's public key
	// does not match the backlink entry's author.
	ErrPublishKeypairMismatchBacklink = errors.New("bamboo: publish: keypair does not match backlink entry's author")
	// ErrPublishKeypairMismatchLipmaa is returned when kp's public key
	// does not match the lipmaa-link entry's author.
	ErrPublishKeypairMismatchLipmaa = errors.New("bamboo: publish: keypair does not match lipmaa-link entry's author")
	// ErrPublishWithoutLipmaaEntry is returned when the new entry's
	// sequence number requires a lipmaa-link entry and none was given.
	ErrPublishWithoutLipmaaEntry = errors.New("bamboo: publish: entry requires a lipmaa-link entry")
)

// PublishLogIDMismatchError reports that a prior entry supplied to
// Publish belongs to a different log than the one being published to.
type PublishLogIDMismatchError struct {
	Link     string // "backlink" or "lipmaa-link"
	Expected uint64
	Actual   uint64
}

func (e *PublishLogIDMismatchError) Error() string {
	return fmt.Sprintf("bamboo: publish: %s entry has log_id %d, want %d", e.Link, e.Actual, e.Expected)
}

// Publish assembles, signs, and encodes the next entry in a feed.
//
// backlinkBytes is the encoded bytes of the previous entry in the
// feed, or nil to publish the first entry (seq_num 1). lipmaaBytes is
// the encoded bytes of the entry IsLipmaaRequired points at; it is
// required exactly when that holds for the new entry's sequence
// number, and ignored otherwise even if supplied.
//
// On success it returns the new entry (owned, detached from the
// caller's buffers) and its encoded wire bytes.
func Publish(kp Keypair, logID uint64, payload []byte, isEndOfFeed bool, backlinkBytes, lipmaaBytes []byte) (OwnedEntry, []byte, error) {
	if len(kp.Private) != ed25519.PrivateKeySize {
		return OwnedEntry{}, nil, ErrPublishWithoutSecretKey
	}

	var e Entry
	e.Author = kp.Public
	e.LogID = logID
	e.IsEndOfFeed = isEndOfFeed
	e.PayloadSize = uint64(len(payload))
	payloadDigest := digestOf(payload)
	e.PayloadHash = payloadDigest.Ref()

	if backlinkBytes == nil {
		e.SeqNum = 1
	} else {
		backlinkEntry, err := Decode(backlinkBytes)
		if err != nil {
			return OwnedEntry{}, nil, fmt.Errorf("bamboo: publish: decoding backlink entry: %w", err)
		}
		if backlinkEntry.IsEndOfFeed {
			return OwnedEntry{}, nil, ErrPublishAfterEndOfFeed
		}
		if backlinkEntry.LogID != logID {
			return OwnedEntry{}, nil, &PublishLogIDMismatchError{Link: "backlink", Expected: logID, Actual: backlinkEntry.LogID}
		}
		if !bytes.Equal(backlinkEntry.Author, kp.Public) {
			return OwnedEntry{}, nil, ErrPublishKeypairMismatchBacklink
		}
		e.SeqNum = backlinkEntry.SeqNum + 1
		backlinkDigest := digestOf(backlinkBytes)
		d := backlinkDigest.Ref()
		e.Backlink = &d
	}

	if IsLipmaaRequired(e.SeqNum) {
		if lipmaaBytes == nil {
			return OwnedEntry{}, nil, ErrPublishWithoutLipmaaEntry
		}
		lipmaaEntry, err := Decode(lipmaaBytes)
		if err != nil {
			return OwnedEntry{}, nil, fmt.Errorf("bamboo: publish: decoding lipmaa-link entry: %w", err)
		}
		if lipmaaEntry.LogID != logID {
			return OwnedEntry{}, nil, &PublishLogIDMismatchError{Link: "lipmaa-link", Expected: logID, Actual: lipmaaEntry.LogID}
		}
		if !bytes.Equal(lipmaaEntry.Author, kp.Public) {
			return OwnedEntry{}, nil, ErrPublishKeypairMismatchLipmaa
		}
		lipmaaDigest := digestOf(lipmaaBytes)
		d := lipmaaDigest.Ref()
		e.LipmaaLink = &d
	}

	if err := e.Validate(); err != nil {
		return OwnedEntry{}, nil, err
	}

	var signBuf [MaxEntrySize]byte
	n, err := e.EncodeForSigning(signBuf[:])
	if err != nil {
		return OwnedEntry{}, nil, fmt.Errorf("bamboo: publish: %w", err)
	}
	sig := ed25519.Sign(kp.Private, signBuf[:n])
	e.Sig = &Signature{Value: sig}

	out := make([]byte, e.EncodedLen())
	if _, err := e.Encode(out); err != nil {
		return OwnedEntry{}, nil, fmt.Errorf("bamboo: publish: %w", err)
	}

	owned, err := e.ToOwned()
	if err != nil {
		return OwnedEntry{}, nil, err
	}
	return owned, out, nil
}
