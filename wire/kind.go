package wire

import "strconv"

type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBinary
	KindArray
	KindMap
	KindExt
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindBinary: "binary",
	KindArray:  "array",
	KindMap:    "map",
	KindExt:    "ext",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether values of this kind carry no nested values.
func (k Kind) IsScalar() bool {
	return k != KindArray && k != KindMap
}

// Shape is the wire-shape signature of a value: its kind plus, for
// extensions, the tag byte. Two values with equal shapes are structurally
// indistinguishable to a codec predicate that looks only at shape.
type Shape struct {
	Kind    Kind
	ExtType int8
}

// ExtShape returns the shape of an extension value with the given tag.
func ExtShape(tag int8) Shape {
	return Shape{Kind: KindExt, ExtType: tag}
}

// KindShape returns the shape of a non-extension kind.
func KindShape(k Kind) Shape {
	return Shape{Kind: k}
}

func (s Shape) String() string {
	if s.Kind == KindExt {
		return "ext(" + strconv.Itoa(int(s.ExtType)) + ")"
	}
	return s.Kind.String()
}
