package filter

import "math/bits"

// Group tags an entity with a single collision category.
type Group uint32

const (
	GroupStatic Group = 1 << iota
	GroupKinematic
	GroupDynamic
)

const knownGroups = GroupStatic | GroupKinematic | GroupDynamic

func (g Group) String() string {
	switch g {
	case GroupStatic:
		return "static"
	case GroupKinematic:
		return "kinematic"
	case GroupDynamic:
		return "dynamic"
	}
	return "unknown"
}

// known reports whether g is exactly one of the declared groups.
func (g Group) known() bool {
	return g&^knownGroups == 0 && bits.OnesCount32(uint32(g)) == 1
}

// Mask is the set of groups an entity may interact with.
type Mask uint32

const (
	MaskNone Mask = 0
	MaskAll  Mask = Mask(knownGroups)
)

// MaskOf builds a mask accepting the given groups
func MaskOf(groups ...Group) Mask {
	var m Mask
	for _, g := range groups {
		m |= Mask(g)
	}
	return m
}

func (m Mask) Contains(g Group) bool {
	return uint32(m)&uint32(g) != 0
}

// Data is the custom filter data carried by every simulation entity.
// Word0 holds the Group and Word1 the Mask, the remaining words are free for extensions.
type Data struct {
	Word0 uint32
	Word1 uint32
	Word2 uint32
	Word3 uint32
}

func NewData(group Group, mask Mask) Data {
	return Data{Word0: uint32(group), Word1: uint32(mask)}
}

func (d Data) Group() Group {
	return Group(d.Word0)
}

func (d Data) Mask() Mask {
	return Mask(d.Word1)
}

// Compatible applies group/mask masking in both directions.
// Data whose group is not a single recognized group is malformed and places no restriction on the pair.
func Compatible(a, b Data) bool {
	ga, gb := a.Group(), b.Group()
	if !ga.known() || !gb.known() {
		return true
	}

	return b.Mask().Contains(ga) && a.Mask().Contains(gb)
}

// ObjectAttributes describes the kind of simulation object, as reported by the backend.
type ObjectAttributes uint32

const (
	AttributeStatic ObjectAttributes = 1 << iota
	AttributeKinematic
	AttributeDynamic
)

func (a ObjectAttributes) IsStatic() bool {
	return a&AttributeStatic != 0
}

func (a ObjectAttributes) IsKinematic() bool {
	return a&AttributeKinematic != 0
}
