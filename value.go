// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tablejson

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EdmType identifies the type of a property value. The numbering is fixed by
// the table protocol and is written verbatim in the "$t" field of each
// encoded value.
type EdmType int

// Constants defining the valid EdmType values.
const (
	EdmString   EdmType = 0
	EdmBinary   EdmType = 1
	EdmBoolean  EdmType = 2
	EdmDateTime EdmType = 3
	EdmDouble   EdmType = 4
	EdmGuid     EdmType = 5
	EdmInt32    EdmType = 6
	EdmInt64    EdmType = 7

	numEdmTypes = 8 // keep in sync with the constants above
)

var edmTypeStr = [numEdmTypes]string{
	EdmString:   "Edm.String",
	EdmBinary:   "Edm.Binary",
	EdmBoolean:  "Edm.Boolean",
	EdmDateTime: "Edm.DateTime",
	EdmDouble:   "Edm.Double",
	EdmGuid:     "Edm.Guid",
	EdmInt32:    "Edm.Int32",
	EdmInt64:    "Edm.Int64",
}

// Valid reports whether t is one of the defined EdmType values.
func (t EdmType) Valid() bool { return t >= 0 && t < numEdmTypes }

func (t EdmType) String() string {
	if !t.Valid() {
		return "Edm.Unknown(" + strconv.Itoa(int(t)) + ")"
	}
	return edmTypeStr[t]
}

// ParseEdmType returns the EdmType named by s, which may be either the full
// name ("Edm.Int64") or the short name ("Int64").
func ParseEdmType(s string) (EdmType, error) {
	for i, name := range edmTypeStr {
		if s == name || s == name[len("Edm."):] {
			return EdmType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown EDM type %q", s)
}

// A Value is a typed property value. The concrete type of a Value is exactly
// one of String, Binary, Boolean, DateTime, Double, Guid, Int32, Int64, or
// Null. The set is closed: other packages cannot implement Value.
type Value interface {
	// Type reports the EDM type of the value.
	Type() EdmType

	// IsNull reports whether the value is absent. Only Null reports true.
	IsNull() bool

	isValue()
}

// A Property is a named typed value.
type Property struct {
	Name  string
	Value Value
}

// String is an Edm.String value.
type String string

// Binary is an Edm.Binary value.
type Binary []byte

// Boolean is an Edm.Boolean value.
type Boolean bool

// DateTime is an Edm.DateTime value. It is encoded with millisecond
// precision.
type DateTime time.Time

// Double is an Edm.Double value.
type Double float64

// Guid is an Edm.Guid value.
type Guid uuid.UUID

// Int32 is an Edm.Int32 value.
type Int32 int32

// Int64 is an Edm.Int64 value.
type Int64 int64

// Null is an absent value whose declared type is known.
type Null EdmType

func (String) Type() EdmType   { return EdmString }
func (Binary) Type() EdmType   { return EdmBinary }
func (Boolean) Type() EdmType  { return EdmBoolean }
func (DateTime) Type() EdmType { return EdmDateTime }
func (Double) Type() EdmType   { return EdmDouble }
func (Guid) Type() EdmType     { return EdmGuid }
func (Int32) Type() EdmType    { return EdmInt32 }
func (Int64) Type() EdmType    { return EdmInt64 }
func (n Null) Type() EdmType   { return EdmType(n) }

func (String) IsNull() bool   { return false }
func (Binary) IsNull() bool   { return false }
func (Boolean) IsNull() bool  { return false }
func (DateTime) IsNull() bool { return false }
func (Double) IsNull() bool   { return false }
func (Guid) IsNull() bool     { return false }
func (Int32) IsNull() bool    { return false }
func (Int64) IsNull() bool    { return false }
func (Null) IsNull() bool     { return true }

func (String) isValue()   {}
func (Binary) isValue()   {}
func (Boolean) isValue()  {}
func (DateTime) isValue() {}
func (Double) isValue()   {}
func (Guid) isValue()     {}
func (Int32) isValue()    {}
func (Int64) isValue()    {}
func (Null) isValue()     {}

// Time returns d as a time.Time.
func (d DateTime) Time() time.Time { return time.Time(d) }

// Equal reports whether d and o denote the same instant.
func (d DateTime) Equal(o DateTime) bool { return time.Time(d).Equal(time.Time(o)) }

// UUID returns g as a uuid.UUID.
func (g Guid) UUID() uuid.UUID { return uuid.UUID(g) }

// String returns the canonical lowercase hyphenated form of g.
func (g Guid) String() string { return uuid.UUID(g).String() }

func (d DateTime) String() string { return time.Time(d).UTC().Format(time.RFC3339Nano) }
