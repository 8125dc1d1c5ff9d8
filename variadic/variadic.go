// Package variadic implements the tagged-union scalar value used
// everywhere a heterogeneous argument value is stored: Variadic carries
// exactly one of a signed integer, unsigned integer, float, pointer,
// bool, or interned string/JSON payload, discriminated by Type.
package variadic

import (
	"fmt"
	"hash/maphash"
	"math"
	"strconv"

	"github.com/zakerinasab/perfetto/ids"
)

// Type discriminates which field of a Variadic is populated.
type Type uint8

const (
	// TypeInt is a signed 64-bit integer.
	TypeInt Type = iota
	// TypeUint is an unsigned 64-bit integer.
	TypeUint
	// TypeReal is a 64-bit float.
	TypeReal
	// TypeString is an interned string, stored as a StringId.
	TypeString
	// TypePointer is an unsigned 64-bit value rendered as hex by exporters.
	TypePointer
	// TypeBool is a boolean.
	TypeBool
	// TypeJson is an interned JSON blob, stored as a StringId.
	TypeJson
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	case TypePointer:
		return "pointer"
	case TypeBool:
		return "bool"
	case TypeJson:
		return "json"
	default:
		return "unknown"
	}
}

// Variadic is a tagged sum value. Only the field matching Type is
// meaningful; callers must not read across tags. The zero value is a
// TypeInt of 0.
type Variadic struct {
	Type Type

	intValue     int64
	uintValue    uint64
	realValue    float64
	stringValue  ids.StringId
	pointerValue uint64
	boolValue    bool
	jsonValue    ids.StringId
}

// Integer constructs a signed-integer Variadic.
func Integer(v int64) Variadic { return Variadic{Type: TypeInt, intValue: v} }

// UnsignedInteger constructs an unsigned-integer Variadic.
func UnsignedInteger(v uint64) Variadic { return Variadic{Type: TypeUint, uintValue: v} }

// Real constructs a floating-point Variadic.
func Real(v float64) Variadic { return Variadic{Type: TypeReal, realValue: v} }

// Pointer constructs a pointer-valued Variadic. Pointers are rendered by
// exporters as lowercase hex with a 0x prefix and no padding.
func Pointer(v uint64) Variadic { return Variadic{Type: TypePointer, pointerValue: v} }

// Boolean constructs a boolean Variadic.
func Boolean(v bool) Variadic { return Variadic{Type: TypeBool, boolValue: v} }

// String constructs a Variadic wrapping an interned string id.
func String(id ids.StringId) Variadic { return Variadic{Type: TypeString, stringValue: id} }

// Json constructs a Variadic wrapping an interned JSON blob id.
func Json(id ids.StringId) Variadic { return Variadic{Type: TypeJson, jsonValue: id} }

// IntValue returns the payload of a TypeInt Variadic. Calling it on any
// other tag returns the zero value; callers that care must check Type
// first.
func (v Variadic) IntValue() int64 { return v.intValue }

// UintValue returns the payload of a TypeUint Variadic.
func (v Variadic) UintValue() uint64 { return v.uintValue }

// RealValue returns the payload of a TypeReal Variadic.
func (v Variadic) RealValue() float64 { return v.realValue }

// StringValue returns the payload of a TypeString Variadic.
func (v Variadic) StringValue() ids.StringId { return v.stringValue }

// PointerValue returns the payload of a TypePointer Variadic.
func (v Variadic) PointerValue() uint64 { return v.pointerValue }

// BoolValue returns the payload of a TypeBool Variadic.
func (v Variadic) BoolValue() bool { return v.boolValue }

// JsonValue returns the payload of a TypeJson Variadic.
func (v Variadic) JsonValue() ids.StringId { return v.jsonValue }

// Equal compares tag then payload. Two Variadics of different Type are
// never equal, even if their underlying bit patterns happen to match.
func (v Variadic) Equal(o Variadic) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeInt:
		return v.intValue == o.intValue
	case TypeUint:
		return v.uintValue == o.uintValue
	case TypeReal:
		return v.realValue == o.realValue
	case TypeString:
		return v.stringValue == o.stringValue
	case TypePointer:
		return v.pointerValue == o.pointerValue
	case TypeBool:
		return v.boolValue == o.boolValue
	case TypeJson:
		return v.jsonValue == o.jsonValue
	default:
		return false
	}
}

// String implements fmt.Stringer. TypePointer renders as lowercase hex
// with a 0x prefix and no padding, the same convention Pointer's doc
// comment promises exporters will use; TypeString and TypeJson
// render their raw StringId since Variadic has no Pool to resolve it
// through.
func (v Variadic) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.intValue, 10)
	case TypeUint:
		return strconv.FormatUint(v.uintValue, 10)
	case TypeReal:
		return strconv.FormatFloat(v.realValue, 'g', -1, 64)
	case TypeString:
		return fmt.Sprintf("string_id(%d)", v.stringValue)
	case TypePointer:
		return fmt.Sprintf("0x%x", v.pointerValue)
	case TypeBool:
		return strconv.FormatBool(v.boolValue)
	case TypeJson:
		return fmt.Sprintf("string_id(%d)", v.jsonValue)
	default:
		return "unknown"
	}
}

var hashSeed = maphash.MakeSeed()

// Hash mixes the tag and payload bytes into a 64-bit digest. Two equal
// Variadics always hash equal; the converse is not guaranteed (this is
// a fold, not a cryptographic digest).
func (v Variadic) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	_ = h.WriteByte(byte(v.Type))
	switch v.Type {
	case TypeInt:
		writeUint64(&h, uint64(v.intValue))
	case TypeUint:
		writeUint64(&h, v.uintValue)
	case TypeReal:
		writeUint64(&h, math.Float64bits(v.realValue))
	case TypeString:
		writeUint64(&h, uint64(v.stringValue))
	case TypePointer:
		writeUint64(&h, v.pointerValue)
	case TypeBool:
		if v.boolValue {
			_ = h.WriteByte(1)
		} else {
			_ = h.WriteByte(0)
		}
	case TypeJson:
		writeUint64(&h, uint64(v.jsonValue))
	}
	return h.Sum64()
}

func writeUint64(h *maphash.Hash, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}
