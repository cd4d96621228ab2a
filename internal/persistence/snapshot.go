package persistence

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"github.com/talgya/tradewar/internal/state"
)

// ErrSnapshotCorrupt is returned when a stored snapshot fails its hash check.
var ErrSnapshotCorrupt = errors.New("snapshot corrupt")

// encodeSnapshot serializes a state export, returning the lz4 blob, the
// blake3 hash of the raw JSON, and its size.
func encodeSnapshot(st *state.State) ([]byte, string, int, error) {
	raw, err := json.Marshal(st.Export())
	if err != nil {
		return nil, "", 0, fmt.Errorf("marshal snapshot: %w", err)
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, "", 0, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", 0, fmt.Errorf("compress snapshot: %w", err)
	}
	return buf.Bytes(), hashBytes(raw), len(raw), nil
}

// decodeSnapshot reverses encodeSnapshot and verifies the hash.
func decodeSnapshot(blob []byte, hash string) (*state.State, error) {
	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(blob)))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrSnapshotCorrupt, err)
	}
	if got := hashBytes(raw); got != hash {
		return nil, fmt.Errorf("%w: hash %s, want %s", ErrSnapshotCorrupt, got, hash)
	}
	var snap state.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return state.FromSnapshot(snap), nil
}

func hashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LoadSnapshot restores the state stored for a run step.
func (db *DB) LoadSnapshot(runID string, step int) (*state.State, error) {
	var row struct {
		Hash string `db:"hash"`
		Data []byte `db:"data"`
	}
	err := db.conn.Get(&row, "SELECT hash, data FROM snapshots WHERE run_id = ? AND step = ?", runID, step)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeSnapshot(row.Data, row.Hash)
}
