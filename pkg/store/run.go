package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

func init() {
	initDB["initialize run ledger"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRun))
		return err
	}
}

// Run is one entry of the run ledger.
type Run struct {
	Seq      int       `json:"-"`
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Name     string    `json:"name"`
	Target   string    `json:"target"`
	ChdirRet int       `json:"chdir_ret"`
	Cwd      string    `json:"cwd,omitempty"`
	Err      string    `json:"err,omitempty"`
}

// Passed reports whether the run completed without error.
func (r Run) Passed() bool { return r.Err == "" }

// ErrBadLimit is returned by Runs when the limit is not positive.
var ErrBadLimit = errors.New("limit must be positive")

// NextSeq returns the sequence number the next run will get.
func (s *dbStore) NextSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketRun)).Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddRun appends a run to the ledger. An empty ID is filled with a random
// UUID and a zero Time with the current time. It returns the run as stored,
// including its sequence number.
func (s *dbStore) AddRun(r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRun))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		r.Seq = int(seq)
		return b.Put(marshalSeq(seq), data)
	})
	if err != nil {
		return Run{}, err
	}
	logger.Printf("added run %d (%s)", r.Seq, r.ID)
	return r, nil
}

// Runs returns up to limit runs, newest first.
func (s *dbStore) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, ErrBadLimit
	}
	var runs []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketRun)).Cursor()
		for k, v := c.Last(); k != nil && len(runs) < limit; k, v = c.Prev() {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			r.Seq = int(unmarshalSeq(k))
			runs = append(runs, r)
		}
		return nil
	})
	return runs, err
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
