package bamboo

import "crypto/ed25519"

// OwnedDigest is a tagged digest with its value stored inline rather
// than borrowed from a buffer.
type OwnedDigest struct {
	Algorithm DigestAlgorithm
	Value     [DigestSize]byte
}

// Ref returns a Digest view over d's inline array.
func (d *OwnedDigest) Ref() Digest {
	return Digest{Algorithm: d.Algorithm, Value: d.Value[:]}
}

// OwnedSignature is a signature with its value stored inline rather
// than borrowed from a buffer.
type OwnedSignature struct {
	Value [SignatureSize]byte
}

// Ref returns a Signature view over s's inline array.
func (s *OwnedSignature) Ref() Signature {
	return Signature{Value: s.Value[:]}
}

// OwnedEntry is the self-contained counterpart to Entry: every field
// that Entry may borrow from a caller's buffer is instead copied into
// an inline array, so an OwnedEntry is safe to keep around after the
// buffer it was decoded from is reused or discarded.
type OwnedEntry struct {
	IsEndOfFeed bool
	Author      [ed25519.PublicKeySize]byte
	LogID       uint64
	SeqNum      uint64
	Backlink    *OwnedDigest
	LipmaaLink  *OwnedDigest
	PayloadSize uint64
	PayloadHash OwnedDigest
	Sig         *OwnedSignature
}

// ToOwned copies e into a new OwnedEntry, detaching it from whatever
// buffer e's slice fields currently borrow from.
func (e Entry) ToOwned() (OwnedEntry, error) {
	var o OwnedEntry
	o.IsEndOfFeed = e.IsEndOfFeed
	o.LogID = e.LogID
	o.SeqNum = e.SeqNum
	o.PayloadSize = e.PayloadSize

	if len(e.Author) != ed25519.PublicKeySize {
		return OwnedEntry{}, ErrAuthorLength
	}
	copy(o.Author[:], e.Author)

	if len(e.PayloadHash.Value) != DigestSize {
		return OwnedEntry{}, ErrDigestLength
	}
	o.PayloadHash.Algorithm = e.PayloadHash.Algorithm
	copy(o.PayloadHash.Value[:], e.PayloadHash.Value)

	if e.Backlink != nil {
		var d OwnedDigest
		if len(e.Backlink.Value) != DigestSize {
			return OwnedEntry{}, ErrDigestLength
		}
		d.Algorithm = e.Backlink.Algorithm
		copy(d.Value[:], e.Backlink.Value)
		o.Backlink = &d
	}
	if e.LipmaaLink != nil {
		var d OwnedDigest
		if len(e.LipmaaLink.Value) != DigestSize {
			return OwnedEntry{}, ErrDigestLength
		}
		d.Algorithm = e.LipmaaLink.Algorithm
		copy(d.Value[:], e.LipmaaLink.Value)
		o.LipmaaLink = &d
	}
	if e.Sig != nil {
		var s OwnedSignature
		if len(e.Sig.Value) != SignatureSize {
			return OwnedEntry{}, ErrSignatureLength
		}
		copy(s.Value[:], e.Sig.Value)
		o.Sig = &s
	}

	return o, nil
}

// Ref returns an Entry borrowing from o's inline arrays. The returned
// Entry is valid for as long as o is not mutated or discarded.
func (o *OwnedEntry) Ref() Entry {
	e := Entry{
		IsEndOfFeed: o.IsEndOfFeed,
		Author:      o.Author[:],
		LogID:       o.LogID,
		SeqNum:      o.SeqNum,
		PayloadSize: o.PayloadSize,
		PayloadHash: o.PayloadHash.Ref(),
	}
	if o.Backlink != nil {
		d := o.Backlink.Ref()
		e.Backlink = &d
	}
	if o.LipmaaLink != nil {
		d := o.LipmaaLink.Ref()
		e.LipmaaLink = &d
	}
	if o.Sig != nil {
		s := o.Sig.Ref()
		e.Sig = &s
	}
	return e
}
