package bamboo

import (
	"crypto/rand"
	"fmt"
	"sync"
)

// memEntryStore is a minimal in-memory EntryStore used only to drive
// this package's own tests: it lets a test publish a chain of entries
// and then hand Verify/VerifyChain exactly the bytes they ask for,
// the way a real log adapter built on EntryStore would.
type memEntryStore struct {
	mu      sync.Mutex
	entries map[uint64]map[uint64][]byte // logID -> seq -> encoded entry
}

func newMemEntryStore() *memEntryStore {
	return &memEntryStore{entries: make(map[uint64]map[uint64][]byte)}
}

func (s *memEntryStore) Entry(logID, seq uint64) (entry []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byLog, ok := s.entries[logID]
	if !ok {
		return nil, false, nil
	}
	e, ok := byLog[seq]
	return e, ok, nil
}

func (s *memEntryStore) LastSeq(logID uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var max uint64
	for seq := range s.entries[logID] {
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (s *memEntryStore) AppendEntry(logID, seq uint64, entry []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[logID] == nil {
		s.entries[logID] = make(map[uint64][]byte)
	}
	if _, exists := s.entries[logID][seq]; exists {
		return fmt.Errorf("bamboo: test store: entry %d already exists for log %d", seq, logID)
	}
	s.entries[logID][seq] = entry
	return nil
}

// publishChain publishes n payloads in sequence into store under
// logID with kp, returning the encoded bytes of each published entry
// in order.
func publishChain(kp Keypair, logID uint64, store *memEntryStore, payloads [][]byte) ([][]byte, error) {
	out := make([][]byte, 0, len(payloads))
	for _, payload := range payloads {
		last, err := store.LastSeq(logID)
		if err != nil {
			return nil, err
		}

		var backlinkBytes, lipmaaBytes []byte
		if last > 0 {
			b, ok, err := store.Entry(logID, last)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("bamboo: test store: missing entry %d", last)
			}
			backlinkBytes = b

			next := last + 1
			if IsLipmaaRequired(next) {
				l, ok, err := store.Entry(logID, Lipmaa(next))
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, fmt.Errorf("bamboo: test store: missing lipmaa entry %d", Lipmaa(next))
				}
				lipmaaBytes = l
			}
		}

		_, encoded, err := Publish(kp, logID, payload, false, backlinkBytes, lipmaaBytes)
		if err != nil {
			return nil, err
		}
		e, err := Decode(encoded)
		if err != nil {
			return nil, err
		}
		if err := store.AppendEntry(logID, e.SeqNum, encoded); err != nil {
			return nil, err
		}
		out = append(out, encoded)
	}
	return out, nil
}

func testKeypair() Keypair {
	kp, err := GenerateKeypair(rand.Reader)
	if err != nil {
		panic(err)
	}
	return kp
}
