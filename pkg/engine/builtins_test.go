package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/gimbal/pkg/bounds"
	"github.com/chazu/gimbal/pkg/geom"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(transform :scale 2)`,
			expect: `(transform "__kw_scale" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(transform :translate v :scale 2)`,
			expect: `(transform "__kw_translate" v "__kw_scale" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(quat-euler 30 45 60)`,
			expect: `(quat_euler 30 45 60)`,
		},
		{
			name:   "kebab-case inside nested call",
			input:  `(transform-point (inverse tr) p)`,
			expect: `(transform_point (inverse tr) p)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 0 -90 0)`,
			expect: `(vec3 0 -90 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:head-dia`,
			expect: `"__kw_head-dia"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, source string) *Result {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return res
}

func mustFail(t *testing.T, source, want string) {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if res != nil {
		t.Fatalf("expected failure, got %s", res.Text)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	if !strings.Contains(evalErrs[0].Message, want) {
		t.Errorf("error %q does not mention %q", evalErrs[0].Message, want)
	}
}

func vecValue(t *testing.T, res *Result) geom.Vec3 {
	t.Helper()
	v, ok := res.Value.(geom.Vec3)
	if !ok {
		t.Fatalf("expected geom.Vec3, got %T (%s)", res.Value, res.Text)
	}
	return v
}

func boolValue(t *testing.T, res *Result) bool {
	t.Helper()
	b, ok := res.Value.(bool)
	if !ok {
		t.Fatalf("expected bool, got %T (%s)", res.Value, res.Text)
	}
	return b
}

// ---------------------------------------------------------------------------
// Vectors
// ---------------------------------------------------------------------------

func TestVec3(t *testing.T) {
	res := mustEval(t, "(vec3 1 2.5 -3)")
	if got := vecValue(t, res); got != (geom.Vec3{X: 1, Y: 2.5, Z: -3}) {
		t.Errorf("vec3 = %v", got)
	}
	if res.Text != "(vec3 1 2.5 -3)" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestVec3PrintsRounded(t *testing.T) {
	res := mustEval(t, "(rotate (quat 90 (vec3 0 0 1)) (vec3 1 0 0))")
	if res.Text != "(vec3 0 1 0)" {
		t.Errorf("text = %q, want (vec3 0 1 0)", res.Text)
	}
}

func TestVec3RequiresNumbers(t *testing.T) {
	mustFail(t, `(vec3 1 "two" 3)`, "vec3: y")
	mustFail(t, "(vec3 1 2)", "exactly 3")
}

func TestVectorBuiltins(t *testing.T) {
	if got := mustEval(t, "(dot (vec3 1 2 3) (vec3 4 5 6))").Value; got != 32.0 {
		t.Errorf("dot = %v, want 32", got)
	}
	if got := vecValue(t, mustEval(t, "(cross (vec3 1 0 0) (vec3 0 1 0))")); got != geom.ZAxis {
		t.Errorf("cross = %v, want +Z", got)
	}
	if got := vecValue(t, mustEval(t, "(normalize (vec3 0 3 4))")); !got.ApproxEqual(geom.Vec3{Y: 0.6, Z: 0.8}, 1e-12) {
		t.Errorf("normalize = %v", got)
	}
	if got := mustEval(t, "(magnitude (vec3 0 3 4))").Value; got != 5.0 {
		t.Errorf("magnitude = %v, want 5", got)
	}
}

func TestNormalizeZeroFails(t *testing.T) {
	mustFail(t, "(normalize (vec3 0 0 0))", "normalize")
}

// ---------------------------------------------------------------------------
// Rotations
// ---------------------------------------------------------------------------

func TestRotateQuarterTurn(t *testing.T) {
	got := vecValue(t, mustEval(t, "(rotate (quat 90 (vec3 0 0 1)) (vec3 1 0 0))"))
	if !got.ApproxEqual(geom.YAxis, 1e-12) {
		t.Errorf("rotate = %v, want +Y", got)
	}
}

func TestQuatZeroAxisFails(t *testing.T) {
	mustFail(t, "(quat 90 (vec3 0 0 0))", "quat")
}

func TestQuatEulerForms(t *testing.T) {
	a := mustEval(t, "(quat-euler 30 45 60)").Value.(geom.Quat)
	b := mustEval(t, "(quat-euler (vec3 30 45 60))").Value.(geom.Quat)
	if a != b {
		t.Errorf("number and vec3 forms differ: %v vs %v", a, b)
	}
	if want := geom.QuatFromEuler(geom.Vec3{X: 30, Y: 45, Z: 60}); !a.ApproxEqual(want, 1e-12) {
		t.Errorf("quat-euler = %v, want %v", a, want)
	}
}

func TestQuatMulOrder(t *testing.T) {
	// x turn applied first, then z turn: +Y -> +Z -> +Z
	src := `(rotate (quat-mul (quat 90 (vec3 0 0 1)) (quat 90 (vec3 1 0 0))) (vec3 0 1 0))`
	if got := vecValue(t, mustEval(t, src)); !got.ApproxEqual(geom.ZAxis, 1e-12) {
		t.Errorf("rotate = %v, want +Z", got)
	}
}

func TestSlerpMidpoint(t *testing.T) {
	src := `(angle-of (slerp (quat 0 (vec3 0 0 1)) (quat 90 (vec3 0 0 1)) 0.5))`
	got, ok := mustEval(t, src).Value.(float64)
	if !ok || math.Abs(got-45) > 1e-9 {
		t.Errorf("slerp angle = %v, want 45", got)
	}
}

func TestAxisOf(t *testing.T) {
	got := vecValue(t, mustEval(t, "(axis-of (quat 120 (vec3 0 2 0)))"))
	if !got.ApproxEqual(geom.YAxis, 1e-12) {
		t.Errorf("axis = %v, want +Y", got)
	}
}

func TestEulerRoundTrip(t *testing.T) {
	for _, src := range []string{
		"(euler-of (matrix-euler 10 20 30))",
		"(euler-of (quat-euler 10 20 30))",
		"(euler-of (matrix-quat (quat-of (matrix-euler 10 20 30))))",
		"(euler-of (transform :rotate (vec3 10 20 30)))",
	} {
		got := vecValue(t, mustEval(t, src))
		if !got.ApproxEqual(geom.Vec3{X: 10, Y: 20, Z: 30}, 1e-9) {
			t.Errorf("%s = %v", src, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

func TestTransformPoint(t *testing.T) {
	src := `
(def tr (transform :translate (vec3 0 0 5) :rotate (vec3 0 0 90) :scale (vec3 3 1 1)))
(transform-point tr (vec3 1 0 0))
`
	if got := vecValue(t, mustEval(t, src)); !got.ApproxEqual(geom.Vec3{Y: 3, Z: 5}, 1e-9) {
		t.Errorf("transform-point = %v, want (0, 3, 5)", got)
	}
}

func TestTransformDefaultsToIdentity(t *testing.T) {
	res := mustEval(t, "(transform)")
	if got := res.Value.(geom.Transform); got != geom.IdentityTransform() {
		t.Errorf("transform = %v", got)
	}
}

func TestTransformUniformScale(t *testing.T) {
	got := mustEval(t, "(transform :scale 2)").Value.(geom.Transform)
	if got.Scale != (geom.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("scale = %v", got.Scale)
	}
}

func TestTransformRejectsUnknownKeyword(t *testing.T) {
	mustFail(t, "(transform :shear 2)", "unknown keyword :shear")
	mustFail(t, "(transform :rotate 5)", "rotate")
}

func TestInverseRoundTrip(t *testing.T) {
	src := `
(def tr (transform :translate (vec3 1 2 3) :rotate (vec3 15 -70 200) :scale (vec3 2 0.5 3)))
(def p (vec3 4 -5 6))
(transform-point (inverse tr) (transform-point tr p))
`
	if got := vecValue(t, mustEval(t, src)); !got.ApproxEqual(geom.Vec3{X: 4, Y: -5, Z: 6}, 1e-9) {
		t.Errorf("round trip = %v", got)
	}
}

func TestInverseRigidMatrix(t *testing.T) {
	src := `
(def m (compose (transform :translate (vec3 1 2 3)) (matrix-euler 0 0 90)))
(transform-point (compose m (inverse m)) (vec3 7 8 9))
`
	if got := vecValue(t, mustEval(t, src)); !got.ApproxEqual(geom.Vec3{X: 7, Y: 8, Z: 9}, 1e-9) {
		t.Errorf("m * inverse(m) moved point to %v", got)
	}
}

func TestInverseScaledMatrixFails(t *testing.T) {
	mustFail(t, "(inverse (compose (transform :scale 2) (matrix-euler 0 0 0)))", "not rigid")
}

func TestRotationOfScaledMatrixFails(t *testing.T) {
	mustFail(t, "(euler-of (compose (transform :scale 2) (matrix-euler 10 20 30)))", "not rigid")
	mustFail(t, "(quat-of (compose (transform :scale 2) (matrix-euler 10 20 30)))", "not rigid")

	res := mustEval(t, "(euler-of (compose (transform :translate (vec3 1 2 3)) (matrix-euler 10 20 30)))")
	if res.Text != "(vec3 10 20 30)" {
		t.Errorf("euler-of rigid matrix = %s", res.Text)
	}
}

func TestInverseZeroScaleFails(t *testing.T) {
	res, evalErrs, err := NewEngine().Evaluate("(inverse (transform :scale 0))")
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if res != nil || len(evalErrs) == 0 {
		t.Fatalf("expected eval error, got %v", res)
	}
	if !strings.Contains(evalErrs[0].Message, geom.ErrInvalidArgument.Error()) {
		t.Errorf("error = %q", evalErrs[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Volumes
// ---------------------------------------------------------------------------

func TestSphereIntersects(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"(intersects (sphere (vec3 0 0 0) 1) (sphere (vec3 1.5 0 0) 1))", true},
		{"(intersects (sphere (vec3 0 0 0) 1) (sphere (vec3 3 0 0) 1))", false},
		{"(intersects (sphere (vec3 0 0 0) 1) (sphere (vec3 2 0 0) 1))", true},
	}
	for _, tt := range tests {
		if got := boolValue(t, mustEval(t, tt.src)); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestMixedIntersects(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"(intersects (capsule (vec3 0 0 0) (vec3 0 5 0) 1) (sphere (vec3 1.5 2.5 0) 1))", true},
		{"(intersects (sphere (vec3 1.5 2.5 0) 1) (capsule (vec3 0 0 0) (vec3 0 5 0) 1))", true},
		{"(intersects (capsule (vec3 0 0 0) (vec3 0 5 0) 1) (capsule (vec3 -3 2 1) (vec3 3 2 1) 0.5))", true},
		{"(intersects (aabb (vec3 0 0 0) (vec3 1 1 1)) (sphere (vec3 2 0.5 0.5) 0.9))", false},
		{"(intersects (aabb (vec3 0 0 0) (vec3 1 1 1)) (aabb (vec3 1 1 1) (vec3 2 2 2)))", true},
	}
	for _, tt := range tests {
		if got := boolValue(t, mustEval(t, tt.src)); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestIntersectsCapsuleAndBox(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"(intersects (capsule (vec3 0 0 0) (vec3 0 5 0) 1) (aabb (vec3 0 0 0)))", true},
		{"(intersects (aabb (vec3 1 0 0) (vec3 3 1 1)) (capsule (vec3 0 0 0) (vec3 0 5 0) 1))", true},
		{"(intersects (capsule (vec3 0 0 0) (vec3 0 5 0) 1) (aabb (vec3 2.5 0 0) (vec3 3 1 1)))", false},
	}
	for _, tt := range tests {
		if got := boolValue(t, mustEval(t, tt.src)); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestContainsUnsupportedPair(t *testing.T) {
	mustFail(t, "(contains (sphere (vec3 0 0 0) 9) (aabb (vec3 0 0 0)))", "unsupported pair sphere and aabb")
}

func TestContains(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"(contains (sphere (vec3 0 0 0) 3) (sphere (vec3 1 0 0) 2))", true},
		{"(contains (sphere (vec3 0 0 0) 3) (sphere (vec3 1.5 0 0) 2))", false},
		{"(contains (sphere (vec3 0 0 0) 1) (vec3 0 1 0))", true},
		{"(contains (aabb (vec3 0 0 0) (vec3 4 4 4)) (aabb (vec3 1 1 1) (vec3 2 2 2)))", true},
		{"(contains (capsule (vec3 0 0 0) (vec3 0 5 0) 1) (vec3 0 6 0))", true},
		{"(contains (capsule (vec3 0 0 0) (vec3 0 5 0) 1) (vec3 1 6 0))", false},
		{"(contains (capsule (vec3 0 0 0) (vec3 0 5 0) 2) (capsule (vec3 0 1 0) (vec3 0 4 0) 1))", true},
		{"(contains (capsule (vec3 0 0 0) (vec3 0 5 0) 2) (capsule (vec3 0 1 0) (vec3 0 7 0) 1))", false},
	}
	for _, tt := range tests {
		if got := boolValue(t, mustEval(t, tt.src)); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestVolumeValues(t *testing.T) {
	res := mustEval(t, "(aabb (vec3 1 5 -1) (vec3 -2 0 3))")
	box, ok := res.Value.(bounds.AABB)
	if !ok {
		t.Fatalf("expected bounds.AABB, got %T", res.Value)
	}
	if box.Min != (geom.Vec3{X: -2, Y: 0, Z: -1}) || box.Max != (geom.Vec3{X: 1, Y: 5, Z: 3}) {
		t.Errorf("aabb = %v", box)
	}
	if !strings.HasPrefix(res.Text, "(aabb ") {
		t.Errorf("text = %q", res.Text)
	}

	mustFail(t, "(sphere (vec3 0 0 0) -1)", "radius")
}

func TestIntersectsDispatch(t *testing.T) {
	_, err := intersects(bounds.Capsule{}, bounds.OrientedBox{})
	if err == nil || !strings.Contains(err.Error(), "capsule and obb") {
		t.Errorf("err = %v", err)
	}
	hit, err := intersects(bounds.NewSphere(geom.Zero3, 1), bounds.NewSphere(geom.XAxis, 0))
	if err != nil || !hit {
		t.Errorf("intersects = %v, %v", hit, err)
	}
}

// ---------------------------------------------------------------------------
// Plain arithmetic still works (regression)
// ---------------------------------------------------------------------------

func TestArithmeticStillWorks(t *testing.T) {
	if got := mustEval(t, "(* 2 (+ 1 2))").Value; got != int64(6) {
		t.Errorf("value = %v, want 6", got)
	}
}
