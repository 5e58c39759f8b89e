package load

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the format version written by WriteSnapshot.
const SnapshotVersion = 1

// snapshot is a compiled set of records, stored as MessagePack.
type snapshot struct {
	Version int       `msgpack:"version"`
	Records []*Record `msgpack:"records"`
}

// WriteSnapshot writes the records to w. A snapshot lets tools load a set of
// records without parsing the schema files again.
func WriteSnapshot(w io.Writer, recs []*Record) error {
	return writeSnapshot(w, SnapshotVersion, recs)
}

func writeSnapshot(w io.Writer, version int, recs []*Record) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&snapshot{Version: version, Records: recs}); err != nil {
		return fmt.Errorf("load: writing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot reads records written by WriteSnapshot. Snapshots of another
// format version are rejected.
func ReadSnapshot(r io.Reader) ([]*Record, error) {
	var s snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("load: reading snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("load: snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return s.Records, nil
}
