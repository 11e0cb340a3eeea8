package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// snapshotEncoding names the blob format written by this build. The value
// is stored per row so old rows stay readable if the format ever changes.
const snapshotEncoding = "zstd+json"

// encodeBlob marshals v to JSON and compresses it, returning the blob and
// the sha256 of the uncompressed JSON.
func (s *SQLiteStorage) encodeBlob(v interface{}) (blob, sum []byte, err error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode snapshot payload: %w", err)
	}
	digest := sha256.Sum256(raw)
	return s.enc.EncodeAll(raw, nil), digest[:], nil
}

// decodeBlob reverses encodeBlob, verifying the stored hash against the
// decompressed JSON before unmarshalling into v.
func (s *SQLiteStorage) decodeBlob(blob, wantSum []byte, v interface{}) error {
	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	digest := sha256.Sum256(raw)
	if !bytes.Equal(digest[:], wantSum) {
		return fmt.Errorf("%w: integrity hash mismatch", ErrCorrupted)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode snapshot payload: %w", err)
	}
	return nil
}
