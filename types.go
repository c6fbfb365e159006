package collision

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ContactTestType selects how many contacts a contact test reports.
type ContactTestType uint8

const (
	// ContactTestFirst stops at the first contact found.
	ContactTestFirst ContactTestType = iota
	// ContactTestClosest keeps the closest contact of every link pair.
	ContactTestClosest
	// ContactTestAll keeps every contact.
	ContactTestAll
	// ContactTestLimited keeps up to ContactRequest.ContactLimit contacts per link pair and
	// stops once a pair reaches the limit.
	ContactTestLimited
)

func (t ContactTestType) String() string {
	switch t {
	case ContactTestFirst:
		return "first"
	case ContactTestClosest:
		return "closest"
	case ContactTestAll:
		return "all"
	case ContactTestLimited:
		return "limited"
	}
	return "unknown"
}

// ContactRequest parameterizes a contact test.
type ContactRequest struct {
	Type         ContactTestType
	ContactLimit int
}

// LinkPair is an unordered pair of object names stored in lexicographic order.
type LinkPair struct {
	First, Second string
}

// MakeLinkPair orders the two names.
func MakeLinkPair(a, b string) LinkPair {
	if b < a {
		a, b = b, a
	}
	return LinkPair{First: a, Second: b}
}

// Contains reports whether name is one of the two links.
func (p LinkPair) Contains(name string) bool {
	return p.First == name || p.Second == name
}

// ContactResult is one contact between a shape of each link.
// A negative Distance is a penetration depth; Normal points from link 0 toward link 1.
type ContactResult struct {
	LinkNames     [2]string
	ShapeIDs      [2]int
	TypeIDs       [2]int
	Distance      float64
	NearestPoints [2]mgl64.Vec3
	Normal        mgl64.Vec3
}

// ContactResultMap holds the contacts of a test grouped by link pair.
type ContactResultMap map[LinkPair][]ContactResult

// Count returns the number of contacts over all link pairs.
func (m ContactResultMap) Count() int {
	n := 0
	for _, results := range m {
		n += len(results)
	}
	return n
}

// FlattenResults returns the contacts ordered by link pair.
func FlattenResults(m ContactResultMap) []ContactResult {
	keys := make([]LinkPair, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].First != keys[j].First {
			return keys[i].First < keys[j].First
		}
		return keys[i].Second < keys[j].Second
	})

	results := make([]ContactResult, 0, m.Count())
	for _, k := range keys {
		results = append(results, m[k]...)
	}
	return results
}

// add records a contact according to the request and reports whether the test is done.
func (m ContactResultMap) add(request ContactRequest, result ContactResult) bool {
	key := MakeLinkPair(result.LinkNames[0], result.LinkNames[1])

	switch request.Type {
	case ContactTestFirst:
		m[key] = append(m[key], result)
		return true
	case ContactTestClosest:
		if existing, ok := m[key]; ok && len(existing) > 0 {
			if result.Distance < existing[0].Distance {
				existing[0] = result
			}
			return false
		}
		m[key] = []ContactResult{result}
		return false
	case ContactTestLimited:
		if request.ContactLimit <= 0 {
			m[key] = append(m[key], result)
			return false
		}
		if len(m[key]) >= request.ContactLimit {
			return true
		}
		m[key] = append(m[key], result)
		return len(m[key]) >= request.ContactLimit
	}

	m[key] = append(m[key], result)
	return false
}
