package ir

// PrimitiveKind is a fixed scalar kind, spelled as in the host language.
type PrimitiveKind string

const (
	U8   PrimitiveKind = "u8"
	I8   PrimitiveKind = "i8"
	U16  PrimitiveKind = "u16"
	I16  PrimitiveKind = "i16"
	U32  PrimitiveKind = "u32"
	I32  PrimitiveKind = "i32"
	U64  PrimitiveKind = "u64"
	I64  PrimitiveKind = "i64"
	F32  PrimitiveKind = "f32"
	F64  PrimitiveKind = "f64"
	Bool PrimitiveKind = "bool"
	Unit PrimitiveKind = "()"
)

var primitiveKinds = map[PrimitiveKind]bool{
	U8: true, I8: true, U16: true, I16: true, U32: true, I32: true,
	U64: true, I64: true, F32: true, F64: true, Bool: true, Unit: true,
}

// Valid reports whether k is one of the known primitive kinds.
func (k PrimitiveKind) Valid() bool {
	return primitiveKinds[k]
}

// PrimitiveFromName maps a normalized type string to a primitive kind.
func PrimitiveFromName(s string) (PrimitiveKind, bool) {
	k := PrimitiveKind(s)
	return k, k.Valid()
}

// DelegateKind is an opaque platform type passed through without decomposition.
type DelegateKind string

const (
	DelegateString              DelegateKind = "String"
	DelegateZeroCopyBufferVecU8 DelegateKind = "ZeroCopyBuffer<Vec<u8>>"
)

var delegateKinds = map[DelegateKind]bool{
	DelegateString:              true,
	DelegateZeroCopyBufferVecU8: true,
}

// Valid reports whether k is one of the known delegate kinds.
func (k DelegateKind) Valid() bool {
	return delegateKinds[k]
}

// DelegateFromName maps a normalized type string to a delegate kind.
func DelegateFromName(s string) (DelegateKind, bool) {
	k := DelegateKind(s)
	return k, k.Valid()
}
