package chunkstore

import (
	"fmt"

	"github.com/aalhour/rollcrc/internal/checksum"
	"github.com/aalhour/rollcrc/internal/compression"
	"github.com/aalhour/rollcrc/internal/encoding"
)

// encodeRecord compresses data with t and frames it with its CRC and length.
func encodeRecord(t compression.Type, weak uint32, data []byte) ([]byte, error) {
	payload, err := compression.Compress(t, data)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: compress: %w", err)
	}
	rec := make([]byte, 0, 1+4+encoding.MaxVarint64Length+len(payload))
	rec = append(rec, byte(t))
	rec = encoding.AppendFixed32(rec, weak)
	rec = encoding.AppendVarint64(rec, uint64(len(data)))
	return append(rec, payload...), nil
}

// decodeRecord returns the raw chunk bytes held by rec, checking the length
// and CRC recorded alongside them.
func decodeRecord(rec []byte) ([]byte, error) {
	s := encoding.NewSlice(rec)
	t, ok := s.GetByte()
	if !ok {
		return nil, fmt.Errorf("%w: empty record", ErrCorrupt)
	}
	weak, ok := s.GetFixed32()
	if !ok {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	rawLen, ok := s.GetVarint64()
	if !ok {
		return nil, fmt.Errorf("%w: bad length", ErrCorrupt)
	}

	ct := compression.Type(t)
	if !ct.IsSupported() {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, t)
	}
	data, err := compression.Decompress(ct, s.Data())
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrCorrupt, ct, err)
	}
	if uint64(len(data)) != rawLen {
		return nil, fmt.Errorf("%w: length %d, recorded %d", ErrCorrupt, len(data), rawLen)
	}
	if got := checksum.Value(checksum.IEEETable(), data); got != weak {
		return nil, fmt.Errorf("%w: crc %08x, recorded %08x", ErrCorrupt, got, weak)
	}
	if ct == compression.NoCompression {
		data = append([]byte(nil), data...)
	}
	return data, nil
}

func encodeStats(st Stats) []byte {
	buf := make([]byte, 0, 24)
	buf = encoding.AppendFixed64(buf, st.Chunks)
	buf = encoding.AppendFixed64(buf, st.RawBytes)
	return encoding.AppendFixed64(buf, st.StoredBytes)
}

func decodeStats(b []byte) (Stats, bool) {
	s := encoding.NewSlice(b)
	var st Stats
	var ok1, ok2, ok3 bool
	st.Chunks, ok1 = s.GetFixed64()
	st.RawBytes, ok2 = s.GetFixed64()
	st.StoredBytes, ok3 = s.GetFixed64()
	return st, ok1 && ok2 && ok3 && s.Remaining() == 0
}
