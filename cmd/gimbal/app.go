package main

import (
	"fmt"
	"io"

	"github.com/chazu/gimbal/pkg/bounds"
	"github.com/chazu/gimbal/pkg/config"
	"github.com/chazu/gimbal/pkg/engine"
	"github.com/chazu/gimbal/pkg/geom"
	"github.com/chazu/gimbal/pkg/kernel"
	"github.com/chazu/gimbal/pkg/kernel/sdfx"
	"github.com/chazu/gimbal/pkg/tessellate"
	"go.uber.org/zap"
)

// App ties the console, the geometry kernel and the logger together for the
// CLI commands.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *zap.Logger
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating console source.
type EvalResult struct {
	Text   string          `json:"text"`
	Errors []EvalErrorData `json:"errors"`
}

// NewApp creates an App with an engine and the sdfx kernel configured from cfg.
func NewApp(cfg config.Config, log *zap.Logger) *App {
	return &App{
		engine: engine.NewEngine(engine.WithTimeout(cfg.Engine.Timeout), engine.WithLogger(log.Named("engine"))),
		kernel: sdfx.New(cfg.Kernel.MeshCells),
		log:    log,
	}
}

// Evaluate runs console source and returns its printed value or errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}

	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate fatal error", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	if res != nil {
		result.Text = res.Text
	}
	return result
}

// DemoReport collects every value the demo computes.
type DemoReport struct {
	Transform geom.Transform
	Matrix    geom.Matrix4 // TRS built from the three parts
	Inverse   geom.Matrix4 // SRT of the three inverses
	Stacked   bool         // the transform stack produced the same pair

	Local  bounds.AABB
	Global bounds.AABB

	SegmentStart, SegmentEnd geom.Vec3
	LocalStart, LocalEnd     geom.Vec3
	Hit                      geom.Vec3
	Hits                     bool

	KernelBounds bounds.AABB // bounds of the placed unit cube reported by the kernel
	CubeBounds   bounds.AABB // the same, computed analytically
	MeshBounds   bounds.AABB
	Triangles    int
}

// Demo places a box with a scale, rotation and translation, intersects a
// world-space segment with it in local space, and cross-checks the
// analytic bounds against the solid kernel.
func (a *App) Demo() (*DemoReport, error) {
	r := &DemoReport{
		Transform:    geom.NewTransform(geom.Zero3, geom.Vec3{Z: -90}, geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}),
		SegmentStart: geom.Vec3{X: -1, Y: -0.25},
		SegmentEnd:   geom.Vec3{X: 6, Y: -0.25},
	}

	translation := geom.Translation(r.Transform.Translation)
	rotation, err := geom.RotationAxisAngle(-90, geom.ZAxis)
	if err != nil {
		return nil, fmt.Errorf("demo: rotation: %w", err)
	}
	scale := geom.UniformScale(0.5)
	invScale, err := scale.InverseScale()
	if err != nil {
		return nil, fmt.Errorf("demo: inverse scale: %w", err)
	}
	r.Matrix = geom.TRS(translation, rotation, scale)
	r.Inverse = geom.SRT(invScale, rotation.InverseRotation(), translation.InverseTranslation())

	var stack geom.Stack
	if err := stack.Push(r.Transform); err != nil {
		return nil, fmt.Errorf("demo: push transform: %w", err)
	}
	r.Stacked = stack.World().ApproxEqual(r.Matrix, geom.Epsilon) &&
		stack.Inverse().ApproxEqual(r.Inverse, geom.Epsilon)

	vertices := []geom.Vec3{{X: 1, Y: 1}, geom.Zero3}
	placed := make([]geom.Vec3, len(vertices))
	for i, v := range vertices {
		placed[i] = r.Matrix.TransformPoint(v)
	}
	if r.Global, err = bounds.NewAABB(placed...); err != nil {
		return nil, fmt.Errorf("demo: global bounds: %w", err)
	}
	if r.Local, err = bounds.NewAABB(vertices...); err != nil {
		return nil, fmt.Errorf("demo: local bounds: %w", err)
	}

	r.LocalStart = r.Inverse.TransformPoint(r.SegmentStart)
	r.LocalEnd = r.Inverse.TransformPoint(r.SegmentEnd)
	if hit, ok := r.Local.IntersectSegment(r.LocalStart, r.LocalEnd); ok {
		r.Hit, r.Hits = r.Matrix.TransformPoint(hit), true
	}

	// The oriented box performs the same round trip internally.
	obb := bounds.OrientedBox{Local: r.Local, Transform: r.Transform}
	obbHit, obbHits, err := obb.IntersectSegment(r.SegmentStart, r.SegmentEnd)
	if err != nil {
		return nil, fmt.Errorf("demo: oriented box: %w", err)
	}
	if obbHits != r.Hits || !obbHit.ApproxEqual(r.Hit, geom.Epsilon) {
		a.log.Warn("oriented box disagrees with manual round trip",
			zap.Stringer("manual", r.Hit), zap.Stringer("oriented", obbHit))
	}

	if err := a.crossCheck(r); err != nil {
		return nil, err
	}

	a.log.Info("demo finished",
		zap.Bool("hits", r.Hits),
		zap.Stringer("hit", r.Hit),
		zap.Int("triangles", r.Triangles))
	return r, nil
}

// crossCheck places a unit cube with the demo transform in the kernel and
// records its bounds next to the analytic ones.
func (a *App) crossCheck(r *DemoReport) error {
	unit := bounds.AABB{Min: geom.Zero3, Max: geom.One3}

	cube, err := a.kernel.Box(unit.Size())
	if err != nil {
		return fmt.Errorf("demo: kernel box: %w", err)
	}
	r.KernelBounds = a.kernel.Transform(cube, r.Transform).Bounds()

	parts, err := tessellate.Tessellate(a.kernel, &tessellate.Node{Name: "cube", Transform: r.Transform, Volume: unit})
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	cubePart := parts[0]
	r.CubeBounds = cubePart.Bounds
	if r.MeshBounds, err = cubePart.Mesh.Bounds(); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	r.Triangles = cubePart.Mesh.TriangleCount()
	return nil
}

// WriteTo prints the report in the order it was computed.
func (r *DemoReport) WriteTo(w io.Writer) (int64, error) {
	var n int64
	p := func(format string, args ...any) error {
		k, err := fmt.Fprintf(w, format, args...)
		n += int64(k)
		return err
	}
	steps := []func() error{
		func() error { return p("transform: %v\n", r.Transform) },
		func() error { return p("transform matrix:\n%v\n", r.Matrix) },
		func() error { return p("inverse transform matrix:\n%v\n", r.Inverse) },
		func() error { return p("stack agrees: %t\n", r.Stacked) },
		func() error { return p("global box: %v\n", r.Global) },
		func() error { return p("local box:  %v\n", r.Local) },
		func() error { return p("global: %v -> %v\n", r.SegmentStart, r.SegmentEnd) },
		func() error { return p("local:  %v -> %v\n", r.LocalStart, r.LocalEnd) },
		func() error {
			if r.Hits {
				return p("intersection found: %v\n", r.Hit)
			}
			return p("no intersection\n")
		},
		func() error { return p("kernel bounds:   %v\n", r.KernelBounds) },
		func() error { return p("analytic bounds: %v\n", r.CubeBounds) },
		func() error { return p("mesh bounds:     %v (%d triangles)\n", r.MeshBounds, r.Triangles) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return n, err
		}
	}
	return n, nil
}
