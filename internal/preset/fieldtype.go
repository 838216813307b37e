package preset

import (
	"fmt"
	"strings"
)

// FieldType is the iD field "type" attribute.
type FieldType int

const (
	Text FieldType = iota
	Number
	Localized
	Tel
	Email
	URL
	Textarea
	Identifier
	Colour
	Date
	Combo
	TypeCombo
	NetworkCombo
	SemiCombo
	MultiCombo
	ManyCombo
	Check
	DefaultCheck
	OnewayCheck
	Radio
	StructureRadio
	Access
	Address
	Cycleway
	Maxspeed
	Restrictions
	Wikipedia
	Wikidata

	fieldTypeCount
)

var fieldTypeNames = [fieldTypeCount]string{
	Text:           "text",
	Number:         "number",
	Localized:      "localized",
	Tel:            "tel",
	Email:          "email",
	URL:            "url",
	Textarea:       "textarea",
	Identifier:     "identifier",
	Colour:         "colour",
	Date:           "date",
	Combo:          "combo",
	TypeCombo:      "typecombo",
	NetworkCombo:   "networkcombo",
	SemiCombo:      "semicombo",
	MultiCombo:     "multicombo",
	ManyCombo:      "manycombo",
	Check:          "check",
	DefaultCheck:   "defaultcheck",
	OnewayCheck:    "onewaycheck",
	Radio:          "radio",
	StructureRadio: "structureradio",
	Access:         "access",
	Address:        "address",
	Cycleway:       "cycleway",
	Maxspeed:       "maxspeed",
	Restrictions:   "restrictions",
	Wikipedia:      "wikipedia",
	Wikidata:       "wikidata",
}

// FieldTypes lists every known field type.
func FieldTypes() []FieldType {
	out := make([]FieldType, 0, fieldTypeCount)
	for t := FieldType(0); t < fieldTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

func (t FieldType) String() string {
	if t < 0 || t >= fieldTypeCount {
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

func ParseFieldType(s string) (FieldType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range fieldTypeNames {
		if n == s {
			return FieldType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", s)
}

// Shape is the output widget family a field type is rendered as.
type Shape int

const (
	ShapeText Shape = iota
	ShapeCombo
	ShapeMultiselect
	ShapeCheck
	ShapeYesNo
	ShapeChecks
)

func (s Shape) String() string {
	switch s {
	case ShapeText:
		return "text"
	case ShapeCombo:
		return "combo"
	case ShapeMultiselect:
		return "multiselect"
	case ShapeCheck:
		return "check"
	case ShapeYesNo:
		return "combo[yes,no]"
	case ShapeChecks:
		return "repeated-check"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

func (t FieldType) Shape() Shape {
	switch t {
	case Text, Number, Localized, Tel, Email, URL, Textarea, Identifier, Colour, Date,
		Access, Address, Cycleway, Maxspeed, Restrictions, Wikipedia, Wikidata:
		return ShapeText
	case Combo, TypeCombo, NetworkCombo:
		return ShapeCombo
	case SemiCombo:
		return ShapeMultiselect
	case Check:
		return ShapeYesNo
	case DefaultCheck, OnewayCheck:
		return ShapeCheck
	case Radio, StructureRadio, MultiCombo, ManyCombo:
		return ShapeChecks
	}
	panic(fmt.Sprintf("field type %d has no shape", int(t)))
}

// ValueType is the vendor value_type hint for text-like fields, if any.
func (t FieldType) ValueType() string {
	switch t {
	case URL:
		return "website"
	case Wikipedia:
		return "wikipedia"
	case Tel:
		return "phone"
	case Number:
		return "integer"
	}
	return ""
}
