package filter

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/simularium/simconv/pkg/core"
)

// Axis is one of the three spatial axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// SignedAxis is a source axis, optionally negated.
type SignedAxis struct {
	Axis   Axis
	Negate bool
}

func (s SignedAxis) String() string {
	if s.Negate {
		return "-" + s.Axis.String()
	}
	return "+" + s.Axis.String()
}

// AxisMapping gives, for output axes X, Y and Z in that order, the signed
// source axis each one is read from. A valid mapping uses every source axis
// exactly once.
type AxisMapping [3]SignedAxis

// IdentityMapping leaves every axis in place.
var IdentityMapping = AxisMapping{{Axis: AxisX}, {Axis: AxisY}, {Axis: AxisZ}}

// InvalidAxisMappingError is returned for a mapping that is not a signed
// permutation of X, Y and Z.
type InvalidAxisMappingError struct {
	Mapping string
	Reason  string
}

func (e *InvalidAxisMappingError) Error() string {
	return fmt.Sprintf("invalid axis mapping %s: %s", e.Mapping, e.Reason)
}

// ParseAxisMapping parses three signed axis names such as ["+X", "-Z", "+Y"].
// A missing sign means "+".
func ParseAxisMapping(axes []string) (AxisMapping, error) {
	var m AxisMapping
	quoted := "[" + strings.Join(axes, ", ") + "]"
	if len(axes) != 3 {
		return m, &InvalidAxisMappingError{Mapping: quoted, Reason: fmt.Sprintf("expected 3 axes, got %d", len(axes))}
	}
	for i, raw := range axes {
		s := strings.ToUpper(strings.TrimSpace(raw))
		if strings.HasPrefix(s, "-") {
			m[i].Negate = true
			s = s[1:]
		} else {
			s = strings.TrimPrefix(s, "+")
		}
		switch s {
		case "X":
			m[i].Axis = AxisX
		case "Y":
			m[i].Axis = AxisY
		case "Z":
			m[i].Axis = AxisZ
		default:
			return m, &InvalidAxisMappingError{Mapping: quoted, Reason: fmt.Sprintf("unknown axis %q", raw)}
		}
	}
	return m, m.Validate()
}

func (m AxisMapping) String() string {
	return fmt.Sprintf("[%s, %s, %s]", m[0], m[1], m[2])
}

// Validate checks that m is a signed permutation of the three axes.
func (m AxisMapping) Validate() error {
	var used [3]bool
	for _, s := range m {
		if s.Axis < AxisX || s.Axis > AxisZ {
			return &InvalidAxisMappingError{Mapping: m.String(), Reason: fmt.Sprintf("unknown axis %v", s.Axis)}
		}
		if used[s.Axis] {
			return &InvalidAxisMappingError{Mapping: m.String(), Reason: fmt.Sprintf("source axis %v used more than once", s.Axis)}
		}
		used[s.Axis] = true
	}
	return nil
}

// Matrix is the signed permutation matrix taking source coordinates to
// output coordinates.
func (m AxisMapping) Matrix() *mat.Dense {
	M := mat.NewDense(3, 3, nil)
	for out, s := range m {
		v := 1.0
		if s.Negate {
			v = -1
		}
		M.Set(out, int(s.Axis), v)
	}
	return M
}

// Inverse returns the mapping that undoes m. m must be valid.
// A signed permutation matrix is orthogonal, so the inverse is its transpose.
func (m AxisMapping) Inverse() AxisMapping {
	T := m.Matrix().T()
	var inv AxisMapping
	for out := range inv {
		for src := range 3 {
			if v := T.At(out, src); v != 0 {
				inv[out] = SignedAxis{Axis: Axis(src), Negate: v < 0}
			}
		}
	}
	return inv
}

// Apply permutes and negates the components of v. Values are moved, not
// multiplied, so non-finite components stay on their own axis.
func (m AxisMapping) Apply(v core.Vec3) core.Vec3 {
	var out core.Vec3
	for i, s := range m {
		out[i] = v[s.Axis]
		if s.Negate {
			out[i] = -out[i]
		}
	}
	return out
}

// TransformSpatialAxes remaps the axes of every position, rotation and
// subpoint. Radii, IDs and types are left alone.
type TransformSpatialAxes struct {
	Mapping AxisMapping
}

func (f *TransformSpatialAxes) Name() string {
	return TypeTransformSpatialAxes
}

func (f *TransformSpatialAxes) Validate() error {
	return f.Mapping.Validate()
}

func (f *TransformSpatialAxes) Apply(a *core.AgentData) (*core.AgentData, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	out := a.Clone()
	transform := func(v *core.Vec3) {
		*v = f.Mapping.Apply(*v)
	}

	for t := range out.TotalSteps() {
		for n := range out.NAgents[t] {
			transform(&out.Positions[t][n])
			transform(&out.Rotations[t][n])
			points := out.Subpoints[t][n][:out.NSubpoints[t][n]]
			for p := range points {
				transform(&points[p])
			}
		}
	}
	return out, nil
}
