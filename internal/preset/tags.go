package preset

import (
	"strings"

	"github.com/paulmach/osm"
)

// Tag is an immutable key/value pair, compared structurally.
type Tag = osm.Tag

// Tags keeps source order, which is also output order.
type Tags = osm.Tags

// ValueAndDescription is an option of an enumerated field, either from the
// field definition or backfilled from usage statistics.
type ValueAndDescription struct {
	Value       string
	Description string
	Count       int
}

// Wildcard is the tag value meaning "any value".
const Wildcard = "*"

// objectKeys are keys that define what a real world object is rather than
// describing one of its properties.
var objectKeys = map[string]bool{
	"advertising": true, "aerialway": true, "aeroway": true, "amenity": true,
	"area:highway": true, "attraction": true, "barrier": true, "boundary": true,
	"building": true, "building:part": true, "cemetry": true, "club": true,
	"craft": true, "disc_golf": true, "departures_board": true, "emergency": true,
	"entrance": true, "ford": true, "geological": true, "golf": true,
	"harbour": true, "healthcare": true, "highway": true, "historic": true,
	"landcover": true, "landuse": true, "leisure": true, "indoor": true,
	"man_made": true, "military": true, "mountain_pass": true, "natural": true,
	"office": true, "pipeline": true, "piste:type": true, "place": true,
	"playground": true, "police": true, "power": true, "public_transport": true,
	"railway": true, "roof:edge": true, "roof:ridge": true, "seamark:type": true,
	"shop": true, "telecom": true, "tourism": true, "traffic_calming": true,
	"traffic_sign": true, "traffic_sign:backward": true, "traffic_sign:forward": true,
	"type": true, "waterway": true,
}

// object keys that are never combined with a lifecycle prefix
var nonLifecycleKeys = map[string]bool{
	"advertising": true, "area:highway": true, "barrier": true, "boundary": true,
	"building:part": true, "club": true, "craft": true, "disc_golf": true,
	"departures_board": true, "emergency": true, "entrance": true, "ford": true,
	"geological": true, "golf": true, "landcover": true, "landuse": true,
	"historic": true, "indoor": true, "mountain_pass": true, "natural": true, "office": true,
	"piste:type": true, "roof:edge": true, "roof:ridge": true, "traffic_calming": true,
	"traffic_sign": true, "traffic_sign:backward": true, "traffic_sign:forward": true,
	"type": true, "waterway": true,
}

var lifecyclePrefixes = []string{"abandoned:", "construction:", "disused:", "planned:", "proposed:"}

// IsObjectKey reports whether key is one of the object defining keys,
// including lifecycle prefixed variants such as disused:shop.
func IsObjectKey(key string) bool {
	if objectKeys[key] {
		return true
	}
	for _, p := range lifecyclePrefixes {
		if rest := strings.TrimPrefix(key, p); rest != key {
			return objectKeys[rest] && !nonLifecycleKeys[rest]
		}
	}
	return false
}

// PromoteObjectTags moves tags with object keys to the front. The partition
// is stable: relative order inside both halves is kept.
func PromoteObjectTags(tags Tags) Tags {
	out := make(Tags, 0, len(tags))
	for _, t := range tags {
		if IsObjectKey(t.Key) {
			out = append(out, t)
		}
	}
	for _, t := range tags {
		if !IsObjectKey(t.Key) {
			out = append(out, t)
		}
	}
	return out
}

// HasKey reports whether tags contain key, with any value.
func HasKey(tags Tags, key string) bool {
	for _, t := range tags {
		if t.Key == key {
			return true
		}
	}
	return false
}
