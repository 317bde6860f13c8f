package commits

import (
	"time"

	"github.com/Sumatoshi-tech/commitplot/pkg/linelog"
)

// Store is the read-only commit set of a session, sorted by datetime.
type Store struct {
	commits []Summary
	records []linelog.LineRecord
}

// NewStore aggregates records and sorts the result chronologically.
func NewStore(records []linelog.LineRecord, urls URLBuilder) *Store {
	summaries := Aggregate(records, urls)
	SortChronological(summaries)

	return &Store{commits: summaries, records: records}
}

// Validate returns ErrEmptyDataset when the store holds no commits.
func (s *Store) Validate() error {
	if s.Len() == 0 {
		return ErrEmptyDataset
	}

	return nil
}

// Len returns the number of commits.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}

	return len(s.commits)
}

// Commits returns the chronologically sorted commits. Callers must not
// modify the returned slice.
func (s *Store) Commits() []Summary {
	if s == nil {
		return nil
	}

	return s.commits
}

// Records returns every ingested line record in input order.
func (s *Store) Records() []linelog.LineRecord {
	if s == nil {
		return nil
	}

	return s.records
}

// Bounds returns the earliest and latest commit datetimes. ok is false for
// an empty store.
func (s *Store) Bounds() (earliest, latest time.Time, ok bool) {
	if s.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}

	earliest, latest = s.commits[0].Datetime, s.commits[0].Datetime

	for _, c := range s.commits[1:] {
		if c.Datetime.Before(earliest) {
			earliest = c.Datetime
		}

		if c.Datetime.After(latest) {
			latest = c.Datetime
		}
	}

	return earliest, latest, true
}
