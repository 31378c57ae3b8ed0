package main

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/gimbal/pkg/config"
	"github.com/chazu/gimbal/pkg/geom"
	"go.uber.org/zap"
)

// testApp meshes coarsely so the demo stays fast.
func testApp() *App {
	cfg := config.Default()
	cfg.Kernel.MeshCells = 24
	return NewApp(cfg, zap.NewNop())
}

// TestE2ETurntableExample exercises the full pipeline: script file ->
// preprocess -> zygomys -> geometry builtins -> printed value.
func TestE2ETurntableExample(t *testing.T) {
	app := testApp()

	source, err := os.ReadFile("../../examples/turntable.gimbal")
	if err != nil {
		t.Fatalf("failed to read turntable.gimbal: %v", err)
	}

	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if result.Text != "true" {
		t.Errorf("expected the marker sphere to reach the fence, got %q", result.Text)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	result := testApp().Evaluate("")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if result.Text != "" {
		t.Errorf("expected no output, got %q", result.Text)
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	result := testApp().Evaluate("(rotate (quat 90 (vec3 0 0 1))")
	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.Text != "" {
		t.Errorf("expected no output on error, got %q", result.Text)
	}
}

func TestE2EGeometryErrorSurfaces(t *testing.T) {
	result := testApp().Evaluate("(inverse (transform :scale (vec3 1 0 1)))")
	if len(result.Errors) == 0 {
		t.Fatal("expected an eval error for a zero scale")
	}
	if !strings.Contains(result.Errors[0].Message, "inverse") {
		t.Errorf("error should name the builtin, got %q", result.Errors[0].Message)
	}
}

// Alternates between valid and invalid sources. The engine must recover
// cleanly between error and success states.
func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := testApp()

	sources := []string{
		`(vec3 1 2 3)`,
		`(quat 90`,
		``,
		`(normalize (vec3 0 0 0))`,
		`(euler-of (matrix-euler 10 20 30))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(intersects (sphere (vec3 0 0 0) 1) (sphere (vec3 3 0 0) 1))`,
		`(undefined-func 1 2 3)`,
		`(slerp (quat-euler 0 0 0) (quat-euler 0 0 90) 0.25)`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	if got := app.Evaluate("(+ 1 2)").Text; got != "3" {
		t.Errorf("after alternation, (+ 1 2) = %q", got)
	}
}

func TestDemo(t *testing.T) {
	report, err := testApp().Demo()
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	if !report.Stacked {
		t.Error("transform stack disagrees with TRS/SRT composition")
	}
	if !report.Inverse.Mul(report.Matrix).ApproxEqual(geom.Identity4(), 1e-9) {
		t.Errorf("inverse * matrix is not identity:\n%v", report.Inverse.Mul(report.Matrix))
	}

	// Scaling by half and turning -90 about Z maps the unit square onto
	// x in [0, 0.5], y in [-0.5, 0].
	if !report.Global.Min.ApproxEqual(geom.Vec3{Y: -0.5}, 1e-9) || !report.Global.Max.ApproxEqual(geom.Vec3{X: 0.5}, 1e-9) {
		t.Errorf("global box = %v", report.Global)
	}

	if !report.Hits {
		t.Fatal("expected the segment to hit the box")
	}
	if !report.Hit.ApproxEqual(geom.Vec3{Y: -0.25}, 1e-9) {
		t.Errorf("hit = %v, want (0, -0.25, 0)", report.Hit)
	}

	if !report.KernelBounds.Min.ApproxEqual(report.CubeBounds.Min, 1e-6) ||
		!report.KernelBounds.Max.ApproxEqual(report.CubeBounds.Max, 1e-6) {
		t.Errorf("kernel bounds %v, analytic %v", report.KernelBounds, report.CubeBounds)
	}
	if report.Triangles == 0 {
		t.Error("expected a non-empty mesh")
	}
	// Marching cubes stays within a couple of cells of the true surface.
	cell := 0.5 / 24 * 3
	for _, d := range []float64{
		report.MeshBounds.Min.X - report.CubeBounds.Min.X,
		report.MeshBounds.Min.Y - report.CubeBounds.Min.Y,
		report.MeshBounds.Max.X - report.CubeBounds.Max.X,
		report.MeshBounds.Max.Y - report.CubeBounds.Max.Y,
	} {
		if math.Abs(d) > cell {
			t.Errorf("mesh bounds %v too far from %v", report.MeshBounds, report.CubeBounds)
			break
		}
	}
}

func TestDemoReportWriteTo(t *testing.T) {
	report, err := testApp().Demo()
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	var sb strings.Builder
	n, err := report.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if int(n) != sb.Len() {
		t.Errorf("WriteTo reported %d bytes, wrote %d", n, sb.Len())
	}
	for _, want := range []string{"transform matrix:", "inverse transform matrix:", "intersection found: (0, -0.25, 0)", "stack agrees: true"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("report missing %q:\n%s", want, sb.String())
		}
	}
}
