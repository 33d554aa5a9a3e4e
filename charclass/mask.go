package charclass

import (
	"fmt"
	"math/bits"
	"strings"
)

// Mask summarizes the non-ASCII part of a class in coarse categories.
// A set bit means the class contains the whole category. The low half holds
// categories, the high half their complements.
type Mask uint32

// Categories.
const (
	Alnum Mask = 1 << iota
	Alpha
	Numeric
	Upper
	Lower
	HexDigit
	Space
	HSpace
	VSpace

	numCategories = iota
)

const mirrorShift = 16

// Every is the mask of a class containing every non-ASCII character.
const Every = Mask(1<<numCategories-1) | Mask(1<<numCategories-1)<<mirrorShift

var categoryNames = [numCategories]string{
	"Alnum", "Alpha", "Numeric", "Upper", "Lower", "HexDigit", "Space", "HSpace", "VSpace",
}

// Not returns the complement bits of the categories in m.
func Not(m Mask) Mask {
	return (m & (1<<numCategories - 1)) << mirrorShift
}

// Mirror swaps every category with its complement.
func Mirror(m Mask) Mask {
	lo := m & (1<<numCategories - 1)
	hi := (m >> mirrorShift) & (1<<numCategories - 1)
	return lo<<mirrorShift | hi
}

// String lists the set categories, complements prefixed with '!'.
func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for i := 0; i < numCategories; i++ {
		if m&(1<<i) != 0 {
			parts = append(parts, categoryNames[i])
		}
	}
	for i := 0; i < numCategories; i++ {
		if m&(1<<(i+mirrorShift)) != 0 {
			parts = append(parts, "!"+categoryNames[i])
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Mask(%#x)", uint32(m))
	}
	return strings.Join(parts, "|")
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// implications lists (superset, subset) pairs: containing the first
// category implies containing the second. Each pair also holds in mirrored
// form, subset complement implying superset complement.
var implications = [...][2]Mask{
	{Alnum, Alpha},
	{Alnum, Numeric},
	{Alnum, HexDigit},
	{Alpha, Upper},
	{Alpha, Lower},
	{Space, HSpace},
	{Space, VSpace},
	{Not(Space), Alnum},
	{Not(Alnum), Space},
	{Not(Alpha), Numeric},
	{Not(Numeric), Alpha},
	{Not(Upper), Lower},
	{Not(Lower), Upper},
	{Not(HexDigit), Space},
}

// unions lists categories that are exactly the union of two others.
var unions = [...][3]Mask{
	{Alpha, Numeric, Alnum},
	{HSpace, VSpace, Space},
}

// Close returns m extended with every category it implies. A mask holding
// a category and its complement covers everything and closes to Every.
func Close(m Mask) Mask {
	for {
		prev := m
		for _, p := range implications {
			if m&p[0] != 0 {
				m |= p[1]
			}
			if m&Mirror(p[1]) != 0 {
				m |= Mirror(p[0])
			}
		}
		for _, u := range unions {
			if m&u[0] != 0 && m&u[1] != 0 {
				m |= u[2]
			}
		}
		if m&Mirror(m) != 0 {
			return Every
		}
		if m == prev {
			return m
		}
	}
}

// Covers reports whether a class described by right contains everything a
// class described by left contains.
func Covers(right, left Mask) bool {
	if right == Every {
		return true
	}
	return left&^right == 0
}
