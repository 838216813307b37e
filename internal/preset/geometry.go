package preset

import (
	"fmt"
	"strings"

	"github.com/paulmach/osm"
)

type Geometry int

const (
	Point Geometry = iota
	Vertex
	Line
	Area
	Relation
)

var geometryNames = [...]string{"point", "vertex", "line", "area", "relation"}

func (g Geometry) String() string {
	if g < Point || g > Relation {
		return fmt.Sprintf("Geometry(%d)", int(g))
	}
	return geometryNames[g]
}

func ParseGeometry(s string) (Geometry, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range geometryNames {
		if n == s {
			return Geometry(i), nil
		}
	}
	return 0, fmt.Errorf("unknown geometry %q", s)
}

// ElementType is the OSM element class a geometry is stored as. Areas are
// counted as ways: closed ways dominate the usage statistics even though an
// area can also be a multipolygon relation.
func (g Geometry) ElementType() osm.Type {
	switch g {
	case Point, Vertex:
		return osm.TypeNode
	case Line, Area:
		return osm.TypeWay
	default:
		return osm.TypeRelation
	}
}

// Filter returns the taginfo element filter (nodes, ways, relations) for a
// geometry list, or "" when the list is empty or spans several classes.
func Filter(geometries []Geometry) string {
	var t osm.Type
	for i, g := range geometries {
		et := g.ElementType()
		if i > 0 && et != t {
			return ""
		}
		t = et
	}
	if t == "" {
		return ""
	}
	return string(t) + "s"
}

// PresetTypes maps geometries to the values of a preset item "type"
// attribute. Point and vertex collapse into one node entry, the first
// occurrence of each class wins and order is kept.
func PresetTypes(geometries []Geometry) []string {
	var (
		out  []string
		seen = make(map[string]bool, len(geometries))
	)
	for _, g := range geometries {
		var t string
		switch g {
		case Point, Vertex:
			t = "node"
		case Line:
			t = "way"
		case Area:
			t = "closedway,multipolygon"
		case Relation:
			t = "relation"
		default:
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
