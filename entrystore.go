package bamboo

// EntryStore is the minimal collaborator a higher-level log adapter
// needs to drive Publish and Verify over time: something that can
// return a previously stored entry's encoded bytes by sequence number
// and append newly published ones.
//
// The core package neither implements nor calls this interface itself
// — Publish and Verify take explicit byte slices for whatever context
// entries they need. It is declared here so adapters that do persist
// entries (to a file, a database, memory) have a common type to
// satisfy, without this package taking an opinion on storage.
type EntryStore interface {
	// Entry returns the encoded bytes of the entry at seq within
	// logID, or ok == false if no such entry has been stored.
	Entry(logID, seq uint64) (entry []byte, ok bool, err error)
	// LastSeq returns the highest stored sequence number for logID, or
	// 0 if nothing has been stored yet.
	LastSeq(logID uint64) (uint64, error)
	// AppendEntry stores the encoded bytes of a newly published entry.
	AppendEntry(logID uint64, seq uint64, entry []byte) error
}
