package directory

import "context"

// StaticStore serves a fixed set of records from memory. It backs local runs
// without a database and the test suite.
type StaticStore struct {
	records []Record
}

func NewStaticStore(records []Record) *StaticStore {
	return &StaticStore{records: records}
}

func (s *StaticStore) List(ctx context.Context) ([]Record, error) {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

var _ Store = (*StaticStore)(nil)

// SeedRecords is the sample directory used when no DSN is configured.
var SeedRecords = []Record{
	{Name: "Emma", Email: "emma@example.com", Phone: "555-0101", Role: "Engineer"},
	{Name: "Liam", Email: "liam@example.com", Phone: "555-0102", Role: "Designer"},
	{Name: "Olivia", Email: "olivia@example.com", Phone: "555-0103", Role: "Manager"},
	{Name: "Noah", Email: "noah@example.com", Phone: "555-0104", Role: "Engineer"},
}
