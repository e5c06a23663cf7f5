package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader provides methods for reading bancho packet payloads.
// Uses Little-Endian byte order for all multi-byte values.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new payload reader.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		pos:  0,
	}
}

// ReadU8 reads a single unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadU8: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadI8 reads a single signed byte.
func (r *Reader) ReadI8() (int8, error) {
	b, err := r.ReadU8()
	return int8(b), err
}

// ReadBool reads a single byte as a boolean.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	return b != 0, err
}

// ReadU16 reads a uint16 (2 bytes, LE).
func (r *Reader) ReadU16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadU16: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadI16 reads an int16 (2 bytes, LE).
func (r *Reader) ReadI16() (int16, error) {
	val, err := r.ReadU16()
	return int16(val), err
}

// ReadU32 reads a uint32 (4 bytes, LE).
func (r *Reader) ReadU32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadU32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadI32 reads an int32 (4 bytes, LE).
func (r *Reader) ReadI32() (int32, error) {
	val, err := r.ReadU32()
	return int32(val), err
}

// ReadI64 reads an int64 (8 bytes, LE).
func (r *Reader) ReadI64() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadI64: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int64(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return val, nil
}

// ReadF32 reads a float32 (4 bytes, LE).
func (r *Reader) ReadF32() (float32, error) {
	bits, err := r.ReadU32()
	return math.Float32frombits(bits), err
}

// ReadF64 reads a float64 (8 bytes, LE).
func (r *Reader) ReadF64() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadF64: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	bits := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadULEB128 reads an unsigned LEB128-encoded integer.
func (r *Reader) ReadULEB128() (uint32, error) {
	var val uint32
	var shift uint
	for {
		b, err := r.ReadU8()
		if err != nil {
			return 0, fmt.Errorf("ReadULEB128: %w", err)
		}
		val |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return val, nil
		}
		shift += 7
		if shift > 35 {
			return 0, fmt.Errorf("ReadULEB128: value too large (pos=%d)", r.pos)
		}
	}
}

// ReadString reads a bancho string: an "exists" byte, then a ULEB128
// length prefix and that many bytes of UTF-8. A leading byte of 0x00,
// or any value other than 0x0b, yields an empty string.
func (r *Reader) ReadString() (string, error) {
	lead, err := r.ReadU8()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	if lead != 0x0b {
		return "", nil
	}

	length, err := r.ReadULEB128()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	return string(data), nil
}

// ReadI32List reads a u16 count followed by that many 4-byte ids.
func (r *Reader) ReadI32List() ([]int32, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("ReadI32List: %w", err)
	}
	ids := make([]int32, 0, count)
	for i := 0; i < int(count); i++ {
		id, err := r.ReadI32()
		if err != nil {
			return nil, fmt.Errorf("ReadI32List: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReadBytes reads n bytes (ZERO-COPY — returns subslice of internal data).
// Caller MUST NOT modify returned bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	bytes := r.data[r.pos : r.pos+n]
	r.pos += n
	return bytes, nil
}

// Rest consumes and returns all unread bytes (ZERO-COPY).
func (r *Reader) Rest() []byte {
	bytes := r.data[r.pos:]
	r.pos = len(r.data)
	return bytes
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
