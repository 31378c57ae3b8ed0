package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/gimbal/pkg/bounds"
	"github.com/chazu/gimbal/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/floats/scalar"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms gimbal Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: quat-euler -> quat_euler
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	v geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %s %s %s)", num(v.v.X), num(v.v.Y), num(v.v.Z))
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpQuat wraps a geom.Quat.
type sexpQuat struct {
	q geom.Quat
}

func (q *sexpQuat) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(quat %s %s %s %s)", num(q.q.W), num(q.q.X), num(q.q.Y), num(q.q.Z))
}
func (q *sexpQuat) Type() *zygo.RegisteredType { return nil }

// sexpMatrix wraps a geom.Matrix4. 3x3 results are widened on the way in.
type sexpMatrix struct {
	m geom.Matrix4
}

func (m *sexpMatrix) SexpString(ps *zygo.PrintState) string {
	return "(matrix " + m.m.String() + ")"
}
func (m *sexpMatrix) Type() *zygo.RegisteredType { return nil }

// sexpTransform wraps a geom.Transform built by the transform builtin.
type sexpTransform struct {
	t geom.Transform
}

func (t *sexpTransform) SexpString(ps *zygo.PrintState) string {
	return "(transform " + t.t.String() + ")"
}
func (t *sexpTransform) Type() *zygo.RegisteredType { return nil }

// sexpVolume wraps a bounding volume.
type sexpVolume struct {
	v bounds.Volume
}

func (v *sexpVolume) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %v)", volumeKind(v.v), v.v)
}
func (v *sexpVolume) Type() *zygo.RegisteredType { return nil }

// num prints f rounded to four places without a negative zero.
func num(f float64) string {
	r := scalar.Round(f, 4)
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'g', -1, 64)
}

func volumeKind(v bounds.Volume) string {
	switch v.(type) {
	case bounds.Sphere:
		return "sphere"
	case bounds.Capsule:
		return "capsule"
	case bounds.AABB:
		return "aabb"
	case bounds.OrientedBox:
		return "obb"
	}
	return fmt.Sprintf("%T", v)
}

// sexpText returns the printed form of s, or "" for no value.
func sexpText(s zygo.Sexp) string {
	if s == nil || s == zygo.SexpNull {
		return ""
	}
	return s.SexpString(nil)
}

// goValue unwraps s into the Go value a caller of Evaluate sees.
func goValue(s zygo.Sexp) any {
	switch v := s.(type) {
	case *sexpVec3:
		return v.v
	case *sexpQuat:
		return v.q
	case *sexpMatrix:
		return v.m
	case *sexpTransform:
		return v.t
	case *sexpVolume:
		return v.v
	case *zygo.SexpFloat:
		return v.Val
	case *zygo.SexpInt:
		return v.Val
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpStr:
		return v.S
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func typeError(want string, s zygo.Sexp) error {
	return fmt.Errorf("expected %s, got %s", want, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, typeError("number", s)
}

// toRadius extracts a non-negative number.
func toRadius(s zygo.Sexp) (float64, error) {
	r, err := toFloat64(s)
	if err != nil {
		return 0, fmt.Errorf("radius: %w", err)
	}
	if r < 0 {
		return 0, fmt.Errorf("radius %g: %w", r, geom.ErrInvalidArgument)
	}
	return r, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return geom.Vec3{}, typeError("vec3", s)
}

func twoVec3(args []zygo.Sexp) (geom.Vec3, geom.Vec3, error) {
	a, err := toVec3(args[0])
	if err != nil {
		return geom.Vec3{}, geom.Vec3{}, err
	}
	b, err := toVec3(args[1])
	if err != nil {
		return geom.Vec3{}, geom.Vec3{}, err
	}
	return a, b, nil
}

// toVec3Args accepts either a single vec3 or three numbers.
func toVec3Args(args []zygo.Sexp) (geom.Vec3, error) {
	switch len(args) {
	case 1:
		return toVec3(args[0])
	case 3:
		var c [3]float64
		for i, name := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return geom.Vec3{}, fmt.Errorf("%s: %w", name, err)
			}
			c[i] = f
		}
		return geom.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected a vec3 or three numbers, got %d arguments", len(args))
}

// toQuat extracts a Quat from a sexpQuat.
func toQuat(s zygo.Sexp) (geom.Quat, error) {
	if q, ok := s.(*sexpQuat); ok {
		return q.q, nil
	}
	return geom.Quat{}, typeError("quat", s)
}

// toMatrix accepts a matrix, a transform or a quaternion.
func toMatrix(s zygo.Sexp) (geom.Matrix4, error) {
	switch v := s.(type) {
	case *sexpMatrix:
		return v.m, nil
	case *sexpTransform:
		return v.t.Matrix(), nil
	case *sexpQuat:
		return geom.RotationQuat(v.q), nil
	}
	return geom.Matrix4{}, typeError("matrix, transform or quat", s)
}

// rigid rejects matrices whose basis carries scale or shear, where the
// rotation cannot be read back.
func rigid(m geom.Matrix4) error {
	if !m.Basis().IsOrthonormal(geom.Epsilon) {
		return fmt.Errorf("matrix is not rigid, build it with transform: %w", geom.ErrInvalidArgument)
	}
	return nil
}

// toVolume extracts a bounding volume from a sexpVolume.
func toVolume(s zygo.Sexp) (bounds.Volume, error) {
	if v, ok := s.(*sexpVolume); ok {
		return v.v, nil
	}
	return nil, typeError("sphere, capsule or aabb", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtinFunc is the body of a builtin after arity checking.
type builtinFunc func(args []zygo.Sexp) (zygo.Sexp, error)

// addBuiltin registers f under name, accepting between minArgs and maxArgs
// arguments; a negative maxArgs means no upper limit. Errors are prefixed
// with the kebab-case name the user typed.
func addBuiltin(env *zygo.Zlisp, name string, minArgs, maxArgs int, f builtinFunc) {
	display := strings.ReplaceAll(name, "_", "-")
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		switch n := len(args); {
		case minArgs == maxArgs && n != minArgs:
			return zygo.SexpNull, fmt.Errorf("%s requires exactly %d arguments, got %d", display, minArgs, n)
		case n < minArgs:
			return zygo.SexpNull, fmt.Errorf("%s requires at least %d arguments, got %d", display, minArgs, n)
		case maxArgs >= 0 && n > maxArgs:
			return zygo.SexpNull, fmt.Errorf("%s accepts at most %d arguments, got %d", display, maxArgs, n)
		}
		s, err := f(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return s, nil
	})
}

// registerBuiltins installs the geometry builtins into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore names registered here.
func registerBuiltins(env *zygo.Zlisp) {
	registerVectorBuiltins(env)
	registerRotationBuiltins(env)
	registerTransformBuiltins(env)
	registerVolumeBuiltins(env)
}

func registerVectorBuiltins(env *zygo.Zlisp) {
	// (vec3 1 2 3)
	addBuiltin(env, "vec3", 3, 3, func(args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toVec3Args(args)
		if err != nil {
			return nil, err
		}
		return &sexpVec3{v: v}, nil
	})

	// (dot a b)
	addBuiltin(env, "dot", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := twoVec3(args)
		if err != nil {
			return nil, err
		}
		return &zygo.SexpFloat{Val: a.Dot(b)}, nil
	})

	// (cross a b)
	addBuiltin(env, "cross", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := twoVec3(args)
		if err != nil {
			return nil, err
		}
		return &sexpVec3{v: a.Cross(b)}, nil
	})

	// (normalize v)
	addBuiltin(env, "normalize", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toVec3(args[0])
		if err != nil {
			return nil, err
		}
		n, err := v.Normalize()
		if err != nil {
			return nil, err
		}
		return &sexpVec3{v: n}, nil
	})

	// (magnitude v)
	addBuiltin(env, "magnitude", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toVec3(args[0])
		if err != nil {
			return nil, err
		}
		return &zygo.SexpFloat{Val: v.Length()}, nil
	})
}

func registerRotationBuiltins(env *zygo.Zlisp) {
	// (quat 90 (vec3 0 0 1)): angle in degrees about an axis
	addBuiltin(env, "quat", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		angle, err := toFloat64(args[0])
		if err != nil {
			return nil, fmt.Errorf("angle: %w", err)
		}
		axis, err := toVec3(args[1])
		if err != nil {
			return nil, fmt.Errorf("axis: %w", err)
		}
		q, err := geom.QuatFromAxisAngle(angle, axis)
		if err != nil {
			return nil, err
		}
		return &sexpQuat{q: q}, nil
	})

	// (quat-euler 30 45 60) or (quat-euler (vec3 30 45 60))
	addBuiltin(env, "quat_euler", 1, 3, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, err := toVec3Args(args)
		if err != nil {
			return nil, err
		}
		return &sexpQuat{q: geom.QuatFromEuler(a)}, nil
	})

	// (quat-mul a b c): a*b*c, so c is applied first
	addBuiltin(env, "quat_mul", 2, -1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		acc, err := toQuat(args[0])
		if err != nil {
			return nil, err
		}
		for _, arg := range args[1:] {
			q, err := toQuat(arg)
			if err != nil {
				return nil, err
			}
			acc = acc.Mul(q)
		}
		return &sexpQuat{q: acc}, nil
	})

	// (rotate q v)
	addBuiltin(env, "rotate", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		q, err := toQuat(args[0])
		if err != nil {
			return nil, err
		}
		v, err := toVec3(args[1])
		if err != nil {
			return nil, err
		}
		return &sexpVec3{v: q.Rotate(v)}, nil
	})

	// (slerp a b 0.5)
	addBuiltin(env, "slerp", 3, 3, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, err := toQuat(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toQuat(args[1])
		if err != nil {
			return nil, err
		}
		t, err := toFloat64(args[2])
		if err != nil {
			return nil, err
		}
		return &sexpQuat{q: geom.Slerp(a, b, t)}, nil
	})

	// (axis-of q) and (angle-of q)
	addBuiltin(env, "axis_of", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		q, err := toQuat(args[0])
		if err != nil {
			return nil, err
		}
		_, axis := q.AxisAngle()
		return &sexpVec3{v: axis}, nil
	})
	addBuiltin(env, "angle_of", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		q, err := toQuat(args[0])
		if err != nil {
			return nil, err
		}
		angle, _ := q.AxisAngle()
		return &zygo.SexpFloat{Val: angle}, nil
	})

	// (matrix-euler 30 45 60) or (matrix-euler (vec3 30 45 60))
	addBuiltin(env, "matrix_euler", 1, 3, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, err := toVec3Args(args)
		if err != nil {
			return nil, err
		}
		return &sexpMatrix{m: geom.RotationEuler(a)}, nil
	})

	// (matrix-quat q)
	addBuiltin(env, "matrix_quat", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		q, err := toQuat(args[0])
		if err != nil {
			return nil, err
		}
		return &sexpMatrix{m: geom.RotationQuat(q)}, nil
	})

	// (euler-of x): x is a quaternion, matrix or transform
	addBuiltin(env, "euler_of", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		switch v := args[0].(type) {
		case *sexpQuat:
			return &sexpVec3{v: v.q.Euler()}, nil
		case *sexpMatrix:
			if err := rigid(v.m); err != nil {
				return nil, err
			}
			return &sexpVec3{v: v.m.EulerAngles()}, nil
		case *sexpTransform:
			return &sexpVec3{v: v.t.Rotation.Euler()}, nil
		}
		return nil, typeError("quat, matrix or transform", args[0])
	})

	// (quat-of x): x is a matrix or transform
	addBuiltin(env, "quat_of", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		switch v := args[0].(type) {
		case *sexpMatrix:
			if err := rigid(v.m); err != nil {
				return nil, err
			}
			return &sexpQuat{q: v.m.Quat()}, nil
		case *sexpTransform:
			return &sexpQuat{q: v.t.Rotation}, nil
		case *sexpQuat:
			return v, nil
		}
		return nil, typeError("matrix or transform", args[0])
	})
}

func registerTransformBuiltins(env *zygo.Zlisp) {
	// (transform :translate (vec3 1 2 3) :rotate (vec3 0 0 90) :scale 2)
	// :rotate takes Euler angles or a quaternion; :scale a vec3 or a number.
	addBuiltin(env, "transform", 0, -1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return nil, fmt.Errorf("unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}
		t := geom.IdentityTransform()

		if v, ok := pa.kw["translate"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("translate: %w", err)
			}
			t.Translation = p
		}
		if v, ok := pa.kw["rotate"]; ok {
			switch r := v.(type) {
			case *sexpQuat:
				t.Rotation = r.q
			case *sexpVec3:
				t.Rotation = geom.QuatFromEuler(r.v)
			default:
				return nil, fmt.Errorf("rotate: %w", typeError("vec3 or quat", v))
			}
		}
		if v, ok := pa.kw["scale"]; ok {
			if s, err := toFloat64(v); err == nil {
				t.Scale = geom.Vec3{X: s, Y: s, Z: s}
			} else if sv, err := toVec3(v); err == nil {
				t.Scale = sv
			} else {
				return nil, fmt.Errorf("scale: %w", typeError("number or vec3", v))
			}
		}
		for k := range pa.kw {
			switch k {
			case "translate", "rotate", "scale":
			default:
				return nil, fmt.Errorf("unknown keyword :%s", k)
			}
		}
		return &sexpTransform{t: t}, nil
	})

	// (compose a b c): a·b·c, so c is applied first
	addBuiltin(env, "compose", 2, -1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		acc, err := toMatrix(args[0])
		if err != nil {
			return nil, err
		}
		for _, arg := range args[1:] {
			m, err := toMatrix(arg)
			if err != nil {
				return nil, err
			}
			acc = acc.Mul(m)
		}
		return &sexpMatrix{m: acc}, nil
	})

	// (inverse x): quaternion, transform, or rigid matrix
	addBuiltin(env, "inverse", 1, 1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		switch v := args[0].(type) {
		case *sexpQuat:
			q, err := v.q.Inverse()
			if err != nil {
				return nil, err
			}
			return &sexpQuat{q: q}, nil
		case *sexpTransform:
			m, err := v.t.InverseMatrix()
			if err != nil {
				return nil, err
			}
			return &sexpMatrix{m: m}, nil
		case *sexpMatrix:
			if err := rigid(v.m); err != nil {
				return nil, err
			}
			return &sexpMatrix{m: v.m.InverseRotation().Mul(v.m.InverseTranslation())}, nil
		}
		return nil, typeError("quat, transform or matrix", args[0])
	})

	// (transform-point x p): x is a transform, matrix or quaternion
	addBuiltin(env, "transform_point", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		p, err := toVec3(args[1])
		if err != nil {
			return nil, err
		}
		if q, ok := args[0].(*sexpQuat); ok {
			return &sexpVec3{v: q.q.Rotate(p)}, nil
		}
		m, err := toMatrix(args[0])
		if err != nil {
			return nil, err
		}
		return &sexpVec3{v: m.TransformPoint(p)}, nil
	})
}

func registerVolumeBuiltins(env *zygo.Zlisp) {
	// (sphere (vec3 0 0 0) 1)
	addBuiltin(env, "sphere", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := toVec3(args[0])
		if err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
		r, err := toRadius(args[1])
		if err != nil {
			return nil, err
		}
		return &sexpVolume{v: bounds.NewSphere(c, r)}, nil
	})

	// (capsule (vec3 0 0 0) (vec3 0 5 0) 1)
	addBuiltin(env, "capsule", 3, 3, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := twoVec3(args[:2])
		if err != nil {
			return nil, err
		}
		r, err := toRadius(args[2])
		if err != nil {
			return nil, err
		}
		return &sexpVolume{v: bounds.NewCapsule(a, b, r)}, nil
	})

	// (aabb (vec3 0 0 0) (vec3 1 1 1) ...)
	addBuiltin(env, "aabb", 1, -1, func(args []zygo.Sexp) (zygo.Sexp, error) {
		pts := make([]geom.Vec3, 0, len(args))
		for _, a := range args {
			p, err := toVec3(a)
			if err != nil {
				return nil, err
			}
			pts = append(pts, p)
		}
		b, err := bounds.NewAABB(pts...)
		if err != nil {
			return nil, err
		}
		return &sexpVolume{v: b}, nil
	})

	// (intersects a b)
	addBuiltin(env, "intersects", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, err := toVolume(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toVolume(args[1])
		if err != nil {
			return nil, err
		}
		hit, err := intersects(a, b)
		if err != nil {
			return nil, err
		}
		return &zygo.SexpBool{Val: hit}, nil
	})

	// (contains a b): b is a point or a volume of the same kind
	addBuiltin(env, "contains", 2, 2, func(args []zygo.Sexp) (zygo.Sexp, error) {
		a, err := toVolume(args[0])
		if err != nil {
			return nil, err
		}
		if p, ok := args[1].(*sexpVec3); ok {
			return &zygo.SexpBool{Val: a.ContainsPoint(p.v)}, nil
		}
		b, err := toVolume(args[1])
		if err != nil {
			return nil, err
		}
		switch av := a.(type) {
		case bounds.Sphere:
			if bv, ok := b.(bounds.Sphere); ok {
				return &zygo.SexpBool{Val: av.Contains(bv)}, nil
			}
		case bounds.Capsule:
			if bv, ok := b.(bounds.Capsule); ok {
				return &zygo.SexpBool{Val: av.Contains(bv)}, nil
			}
		case bounds.AABB:
			if bv, ok := b.(bounds.AABB); ok {
				return &zygo.SexpBool{Val: av.Contains(bv)}, nil
			}
		}
		return nil, fmt.Errorf("unsupported pair %s and %s", volumeKind(a), volumeKind(b))
	})
}

// intersects dispatches the overlap test for a pair of volumes.
func intersects(a, b bounds.Volume) (bool, error) {
	switch av := a.(type) {
	case bounds.Sphere:
		switch bv := b.(type) {
		case bounds.Sphere:
			return av.Intersects(bv), nil
		case bounds.AABB:
			return av.IntersectsBox(bv), nil
		case bounds.Capsule:
			return bv.IntersectsSphere(av), nil
		}
	case bounds.Capsule:
		switch bv := b.(type) {
		case bounds.Sphere:
			return av.IntersectsSphere(bv), nil
		case bounds.Capsule:
			return av.Intersects(bv), nil
		case bounds.AABB:
			return av.IntersectsBox(bv), nil
		}
	case bounds.AABB:
		switch bv := b.(type) {
		case bounds.Sphere:
			return av.IntersectsSphere(bv), nil
		case bounds.Capsule:
			return bv.IntersectsBox(av), nil
		case bounds.AABB:
			return av.Intersects(bv), nil
		}
	}
	return false, fmt.Errorf("unsupported pair %s and %s", volumeKind(a), volumeKind(b))
}
