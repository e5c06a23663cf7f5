package protocol

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
)

// HeaderSize is the length of a bancho packet header: u16 id, one
// padding byte, u32 payload length.
const HeaderSize = 7

// Writer provides methods for writing bancho packet payloads.
// Uses Little-Endian byte order for all multi-byte values.
type Writer struct {
	buf *bytes.Buffer
}

// writerPool reduces allocations by reusing Writers.
// Get() returns a Writer with Reset() called, Put() returns it to pool.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf: bytes.NewBuffer(make([]byte, 0, 512)),
		}
	},
}

// Get returns a Writer from the pool (already Reset).
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns a Writer to the pool for reuse.
// IMPORTANT: Do not use the Writer after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new payload writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(b uint8) {
	w.buf.WriteByte(b)
}

// WriteI8 writes a single signed byte.
func (w *Writer) WriteI8(b int8) {
	w.buf.WriteByte(byte(b))
}

// WriteBool writes a boolean as a single byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteU16 writes a uint16 (2 bytes, LE).
func (w *Writer) WriteU16(val uint16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteI16 writes an int16 (2 bytes, LE).
func (w *Writer) WriteI16(val int16) {
	w.WriteU16(uint16(val))
}

// WriteU32 writes a uint32 (4 bytes, LE).
func (w *Writer) WriteU32(val uint32) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteI32 writes an int32 (4 bytes, LE).
func (w *Writer) WriteI32(val int32) {
	w.WriteU32(uint32(val))
}

// WriteI64 writes an int64 (8 bytes, LE).
func (w *Writer) WriteI64(val int64) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
	w.buf.WriteByte(byte(val >> 32))
	w.buf.WriteByte(byte(val >> 40))
	w.buf.WriteByte(byte(val >> 48))
	w.buf.WriteByte(byte(val >> 56))
}

// WriteF32 writes a float32 (4 bytes, LE).
func (w *Writer) WriteF32(val float32) {
	w.WriteU32(math.Float32bits(val))
}

// WriteF64 writes a float64 (8 bytes, LE).
func (w *Writer) WriteF64(val float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(val))
	w.buf.Write(tmp[:])
}

// WriteULEB128 writes an unsigned LEB128-encoded integer.
func (w *Writer) WriteULEB128(val uint32) {
	for {
		b := byte(val & 0x7f)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if val == 0 {
			return
		}
	}
}

// WriteString writes a bancho string: 0x00 for the empty string,
// otherwise 0x0b followed by a ULEB128 length prefix and the UTF-8
// bytes.
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.buf.WriteByte(0x00)
		return
	}
	w.buf.WriteByte(0x0b)
	w.WriteULEB128(uint32(len(s)))
	w.buf.WriteString(s)
}

// WriteI32List writes a u16 count followed by the 4-byte ids.
func (w *Writer) WriteI32List(ids []int32) {
	w.WriteU16(uint16(len(ids)))
	for _, id := range ids {
		w.WriteI32(id)
	}
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Serialise frames the accumulated payload under the given packet id
// and returns the complete packet as a fresh slice. The Writer may be
// reused afterwards.
func (w *Writer) Serialise(id PacketID) []byte {
	payload := w.buf.Bytes()
	out := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint16(out[0:], uint16(id))
	out[2] = 0
	binary.LittleEndian.PutUint32(out[3:], uint32(len(payload)))
	copy(out[HeaderSize:], payload)
	return out
}

// Bytes returns the accumulated payload data without framing.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the payload.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// ParseHeader decodes a packet header. The caller guarantees at least
// HeaderSize bytes.
func ParseHeader(data []byte) (PacketID, int) {
	id := PacketID(binary.LittleEndian.Uint16(data[0:]))
	length := int(binary.LittleEndian.Uint32(data[3:]))
	return id, length
}
