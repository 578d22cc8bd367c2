package legged

import (
	"fmt"
	"sort"

	"github.com/adammck/legged/math3d"
)

// Limb identifies one leg (and its foot contact) of a quadruped.
type Limb int

const (
	LF Limb = iota // Left Fore
	RF             // Right Fore
	LH             // Left Hind
	RH             // Right Hind
)

var limbNames = [...]string{
	LF: "LF",
	RF: "RF",
	LH: "LH",
	RH: "RH",
}

// Limbs returns every limb, in order.
func Limbs() []Limb {
	return []Limb{LF, RF, LH, RH}
}

func (l Limb) String() string {
	if l < 0 || int(l) >= len(limbNames) {
		return fmt.Sprintf("Limb(%d)", int(l))
	}

	return limbNames[l]
}

// ParseLimb returns the limb with the given name, e.g. "LF".
func ParseLimb(s string) (Limb, error) {
	for i, n := range limbNames {
		if n == s {
			return Limb(i), nil
		}
	}

	return 0, fmt.Errorf("unknown limb: %q", s)
}

// Stance maps each limb to the position of its foot. The frame is tracked by
// whoever builds it: the world frame for measured feet, the base frame for a
// nominal leg configuration.
type Stance map[Limb]math3d.Vector3

// Limbs returns the limbs present in the stance, in order.
func (s Stance) Limbs() []Limb {
	limbs := make([]Limb, 0, len(s))
	for l := range s {
		limbs = append(limbs, l)
	}

	sort.Slice(limbs, func(i, j int) bool { return limbs[i] < limbs[j] })
	return limbs
}

// Copy returns an independent copy of the stance.
func (s Stance) Copy() Stance {
	c := make(Stance, len(s))
	for l, v := range s {
		c[l] = v
	}

	return c
}
