package ir

import (
	"encoding/json"
	"fmt"
)

// ApiType is the closed union of type shapes the resolver can produce.
// Only the variants declared in this file implement it.
type ApiType interface {
	// TypeKind returns the discriminator used in the JSON encoding.
	TypeKind() TypeKind
	// String renders the type in host-language syntax, e.g. "Vec<Point>".
	String() string

	apiType()
}

// TypeKind discriminates ApiType variants on the wire.
type TypeKind string

const (
	KindPrimitive     TypeKind = "primitive"
	KindDelegate      TypeKind = "delegate"
	KindPrimitiveList TypeKind = "primitive_list"
	KindGeneralList   TypeKind = "general_list"
	KindBoxed         TypeKind = "boxed"
	KindStructRef     TypeKind = "struct_ref"
)

// Primitive is a scalar directly representable on both sides of the binding.
type Primitive struct {
	Kind PrimitiveKind
}

// Delegate is an opaque platform type with a fixed mapping.
type Delegate struct {
	Kind DelegateKind
}

// PrimitiveList is a list whose element type is a primitive.
type PrimitiveList struct {
	Primitive PrimitiveKind
}

// GeneralList is a list of any non-primitive element type.
type GeneralList struct {
	Inner ApiType
}

// Boxed is a single-value indirection.
type Boxed struct {
	Inner          ApiType
	ExistInRealAPI bool // false when the box is synthetic and should not surface downstream
}

// StructRef names an entry in ApiFile.StructPool.
type StructRef struct {
	Name string
}

func (Primitive) apiType()     {}
func (Delegate) apiType()      {}
func (PrimitiveList) apiType() {}
func (GeneralList) apiType()   {}
func (Boxed) apiType()         {}
func (StructRef) apiType()     {}

func (Primitive) TypeKind() TypeKind     { return KindPrimitive }
func (Delegate) TypeKind() TypeKind      { return KindDelegate }
func (PrimitiveList) TypeKind() TypeKind { return KindPrimitiveList }
func (GeneralList) TypeKind() TypeKind   { return KindGeneralList }
func (Boxed) TypeKind() TypeKind         { return KindBoxed }
func (StructRef) TypeKind() TypeKind     { return KindStructRef }

func (t Primitive) String() string     { return string(t.Kind) }
func (t Delegate) String() string      { return string(t.Kind) }
func (t PrimitiveList) String() string { return "Vec<" + string(t.Primitive) + ">" }
func (t StructRef) String() string     { return t.Name }

func (t GeneralList) String() string {
	return "Vec<" + typeString(t.Inner) + ">"
}

func (t Boxed) String() string {
	return "Box<" + typeString(t.Inner) + ">"
}

func typeString(t ApiType) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// typeEnvelope is the tagged encoding shared by JSON and YAML.
type typeEnvelope struct {
	Kind           TypeKind      `json:"kind" yaml:"kind"`
	Primitive      PrimitiveKind `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Delegate       DelegateKind  `json:"delegate,omitempty" yaml:"delegate,omitempty"`
	Name           string        `json:"name,omitempty" yaml:"name,omitempty"`
	Inner          ApiType       `json:"inner,omitempty" yaml:"inner,omitempty"`
	ExistInRealAPI *bool         `json:"exist_in_real_api,omitempty" yaml:"exist_in_real_api,omitempty"`
}

func envelope(t ApiType) typeEnvelope {
	switch v := t.(type) {
	case Primitive:
		return typeEnvelope{Kind: KindPrimitive, Primitive: v.Kind}
	case Delegate:
		return typeEnvelope{Kind: KindDelegate, Delegate: v.Kind}
	case PrimitiveList:
		return typeEnvelope{Kind: KindPrimitiveList, Primitive: v.Primitive}
	case GeneralList:
		return typeEnvelope{Kind: KindGeneralList, Inner: v.Inner}
	case Boxed:
		exist := v.ExistInRealAPI
		return typeEnvelope{Kind: KindBoxed, Inner: v.Inner, ExistInRealAPI: &exist}
	case StructRef:
		return typeEnvelope{Kind: KindStructRef, Name: v.Name}
	}
	return typeEnvelope{}
}

func (t Primitive) MarshalJSON() ([]byte, error)     { return json.Marshal(envelope(t)) }
func (t Delegate) MarshalJSON() ([]byte, error)      { return json.Marshal(envelope(t)) }
func (t PrimitiveList) MarshalJSON() ([]byte, error) { return json.Marshal(envelope(t)) }
func (t GeneralList) MarshalJSON() ([]byte, error)   { return json.Marshal(envelope(t)) }
func (t Boxed) MarshalJSON() ([]byte, error)         { return json.Marshal(envelope(t)) }
func (t StructRef) MarshalJSON() ([]byte, error)     { return json.Marshal(envelope(t)) }

func (t Primitive) MarshalYAML() (interface{}, error)     { return envelope(t), nil }
func (t Delegate) MarshalYAML() (interface{}, error)      { return envelope(t), nil }
func (t PrimitiveList) MarshalYAML() (interface{}, error) { return envelope(t), nil }
func (t GeneralList) MarshalYAML() (interface{}, error)   { return envelope(t), nil }
func (t Boxed) MarshalYAML() (interface{}, error)         { return envelope(t), nil }
func (t StructRef) MarshalYAML() (interface{}, error)     { return envelope(t), nil }

// UnmarshalType decodes a tagged ApiType produced by MarshalJSON.
func UnmarshalType(data []byte) (ApiType, error) {
	var raw struct {
		Kind           TypeKind        `json:"kind"`
		Primitive      PrimitiveKind   `json:"primitive"`
		Delegate       DelegateKind    `json:"delegate"`
		Name           string          `json:"name"`
		Inner          json.RawMessage `json:"inner"`
		ExistInRealAPI bool            `json:"exist_in_real_api"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode api type: %w", err)
	}

	switch raw.Kind {
	case KindPrimitive:
		if !raw.Primitive.Valid() {
			return nil, fmt.Errorf("decode api type: unknown primitive %q", raw.Primitive)
		}
		return Primitive{Kind: raw.Primitive}, nil
	case KindDelegate:
		if !raw.Delegate.Valid() {
			return nil, fmt.Errorf("decode api type: unknown delegate %q", raw.Delegate)
		}
		return Delegate{Kind: raw.Delegate}, nil
	case KindPrimitiveList:
		if !raw.Primitive.Valid() {
			return nil, fmt.Errorf("decode api type: unknown primitive %q", raw.Primitive)
		}
		return PrimitiveList{Primitive: raw.Primitive}, nil
	case KindGeneralList:
		inner, err := unmarshalInner(raw.Inner, raw.Kind)
		if err != nil {
			return nil, err
		}
		return GeneralList{Inner: inner}, nil
	case KindBoxed:
		inner, err := unmarshalInner(raw.Inner, raw.Kind)
		if err != nil {
			return nil, err
		}
		return Boxed{Inner: inner, ExistInRealAPI: raw.ExistInRealAPI}, nil
	case KindStructRef:
		if raw.Name == "" {
			return nil, fmt.Errorf("decode api type: struct_ref without name")
		}
		return StructRef{Name: raw.Name}, nil
	default:
		return nil, fmt.Errorf("decode api type: unknown kind %q", raw.Kind)
	}
}

func unmarshalInner(data json.RawMessage, kind TypeKind) (ApiType, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("decode api type: %s without inner", kind)
	}
	inner, err := UnmarshalType(data)
	if err != nil {
		return nil, fmt.Errorf("%s.inner: %w", kind, err)
	}
	return inner, nil
}

// UnmarshalJSON decodes a field whose type is a tagged ApiType.
func (f *ApiField) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Ty   json.RawMessage `json:"ty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ty, err := UnmarshalType(raw.Ty)
	if err != nil {
		return fmt.Errorf("field %q: %w", raw.Name, err)
	}
	f.Name = raw.Name
	f.Type = ty
	return nil
}

// UnmarshalJSON decodes a function whose output is a tagged ApiType.
func (f *ApiFunc) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string          `json:"name"`
		Inputs []ApiField      `json:"inputs"`
		Output json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out, err := UnmarshalType(raw.Output)
	if err != nil {
		return fmt.Errorf("func %q output: %w", raw.Name, err)
	}
	f.Name = raw.Name
	f.Inputs = raw.Inputs
	if f.Inputs == nil {
		f.Inputs = []ApiField{}
	}
	f.Output = out
	return nil
}
