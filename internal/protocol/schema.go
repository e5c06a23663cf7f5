package protocol

import "fmt"

// FieldType enumerates the wire types a packet schema can bind.
type FieldType uint8

const (
	TypeU8 FieldType = iota
	TypeI8
	TypeU16
	TypeI16
	TypeU32
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypeString
	TypeI32List
	TypeMessage
	TypeMatch
	TypeReplayFrameBundle
	// TypeBytes consumes the remainder of the payload verbatim.
	TypeBytes
)

// Field is a single named slot in a packet schema.
type Field struct {
	Name string
	Type FieldType
}

// Schema declares the payload layout of an incoming packet. The
// dispatcher decodes payloads against it; no reflection involved.
type Schema []Field

// Payload holds the decoded fields of one packet.
type Payload struct {
	values map[string]any
}

// DecodePayload walks the schema over the payload bytes.
func DecodePayload(data []byte, schema Schema) (*Payload, error) {
	r := NewReader(data)
	p := &Payload{values: make(map[string]any, len(schema))}

	for _, f := range schema {
		var (
			val any
			err error
		)
		switch f.Type {
		case TypeU8:
			val, err = r.ReadU8()
		case TypeI8:
			val, err = r.ReadI8()
		case TypeU16:
			val, err = r.ReadU16()
		case TypeI16:
			val, err = r.ReadI16()
		case TypeU32:
			val, err = r.ReadU32()
		case TypeI32:
			val, err = r.ReadI32()
		case TypeI64:
			val, err = r.ReadI64()
		case TypeF32:
			val, err = r.ReadF32()
		case TypeF64:
			val, err = r.ReadF64()
		case TypeString:
			val, err = r.ReadString()
		case TypeI32List:
			val, err = r.ReadI32List()
		case TypeMessage:
			val, err = ReadMessage(r)
		case TypeMatch:
			val, err = ReadOsuMatch(r)
		case TypeReplayFrameBundle:
			val, err = ReadReplayFrameBundle(r)
		case TypeBytes:
			val = r.Rest()
		default:
			return nil, fmt.Errorf("decode payload: unknown field type %d", f.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("decode payload field %q: %w", f.Name, err)
		}
		p.values[f.Name] = val
	}
	return p, nil
}

// Typed getters. A missing or mistyped field yields the zero value;
// schemas guarantee presence for registered packets.

func (p *Payload) U8(name string) uint8 {
	v, _ := p.values[name].(uint8)
	return v
}

func (p *Payload) U16(name string) uint16 {
	v, _ := p.values[name].(uint16)
	return v
}

func (p *Payload) U32(name string) uint32 {
	v, _ := p.values[name].(uint32)
	return v
}

func (p *Payload) I32(name string) int32 {
	v, _ := p.values[name].(int32)
	return v
}

func (p *Payload) I64(name string) int64 {
	v, _ := p.values[name].(int64)
	return v
}

func (p *Payload) F32(name string) float32 {
	v, _ := p.values[name].(float32)
	return v
}

func (p *Payload) Str(name string) string {
	v, _ := p.values[name].(string)
	return v
}

func (p *Payload) I32List(name string) []int32 {
	v, _ := p.values[name].([]int32)
	return v
}

func (p *Payload) Bytes(name string) []byte {
	v, _ := p.values[name].([]byte)
	return v
}

func (p *Payload) Message(name string) Message {
	v, _ := p.values[name].(Message)
	return v
}

func (p *Payload) Match(name string) OsuMatch {
	v, _ := p.values[name].(OsuMatch)
	return v
}

func (p *Payload) FrameBundle(name string) ReplayFrameBundle {
	v, _ := p.values[name].(ReplayFrameBundle)
	return v
}
