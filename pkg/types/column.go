package types

import "strings"

// TypeClass groups declared SQL types by how their values are rendered.
type TypeClass int

const (
	ClassUnknown TypeClass = iota
	ClassString
	ClassNumeric
	ClassBlob
	ClassDateTime
)

var classNames = map[TypeClass]string{
	ClassUnknown:  "unknown",
	ClassString:   "string",
	ClassNumeric:  "numeric",
	ClassBlob:     "blob",
	ClassDateTime: "datetime",
}

// String returns the lowercase class name.
func (c TypeClass) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return "unknown"
}

// KeyKind is the key classification of a column.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyPrimary
	KeyUnique
	KeyMultiple
)

// Code returns the DESCRIBE-style key code: PRI, UNI, MUL or empty.
func (k KeyKind) Code() string {
	switch k {
	case KeyPrimary:
		return "PRI"
	case KeyUnique:
		return "UNI"
	case KeyMultiple:
		return "MUL"
	default:
		return ""
	}
}

// ParseKeyKind is the inverse of Code. Unrecognized codes map to KeyNone.
func ParseKeyKind(code string) KeyKind {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "PRI":
		return KeyPrimary
	case "UNI":
		return KeyUnique
	case "MUL":
		return KeyMultiple
	default:
		return KeyNone
	}
}

// ColumnMeta describes one column of a result set.
type ColumnMeta struct {
	Name     string
	Type     string // declared SQL type as reported by the driver
	Nullable bool
	Key      KeyKind
	Class    TypeClass
}

// NewColumnMeta builds a ColumnMeta and derives its Class from declType.
func NewColumnMeta(name, declType string, nullable bool, key KeyKind) ColumnMeta {
	return ColumnMeta{
		Name:     name,
		Type:     declType,
		Nullable: nullable,
		Key:      key,
		Class:    ClassifyType(declType),
	}
}

// IsString reports whether values of the column are textual.
func (m ColumnMeta) IsString() bool {
	return m.Class == ClassString
}

// ClassifyType maps a declared SQL type to a TypeClass following SQLite's
// column affinity rules, with date and time types split out of NUMERIC.
// An empty declared type (expressions, untyped columns) is ClassUnknown.
func ClassifyType(declType string) TypeClass {
	t := strings.ToUpper(strings.TrimSpace(declType))
	switch {
	case t == "":
		return ClassUnknown
	case strings.Contains(t, "INT"):
		return ClassNumeric
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"),
		strings.HasPrefix(t, "ENUM"), strings.HasPrefix(t, "SET("):
		return ClassString
	case strings.Contains(t, "BLOB"), strings.Contains(t, "BINARY"):
		return ClassBlob
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return ClassNumeric
	case strings.HasPrefix(t, "DATE"), strings.HasPrefix(t, "TIME"), strings.HasPrefix(t, "YEAR"):
		return ClassDateTime
	default:
		return ClassNumeric
	}
}
