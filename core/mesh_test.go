package core

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

func TestBuildFacetMesh_DerivesFacetGeometry(t *testing.T) {
	// Unit square split along the diagonal.
	pc := model.PointCloud{
		X: []float64{0, 1, 1, 0},
		Y: []float64{0, 0, 1, 1},
		Z: []float64{0, 0, 0, 0},
	}
	types := []model.SurfaceType{model.SurfaceLead, model.SurfaceSeaIce, model.SurfaceMeltPond, model.SurfaceSeaIce}

	m, err := BuildFacetMesh(pc, types, fixedTriangles([][3]int{{1, 2, 0}, {2, 3, 0}}))
	if err != nil {
		t.Fatalf("BuildFacetMesh: %v", err)
	}
	if m.FacetCount() != 2 {
		t.Fatalf("FacetCount = %d, want 2", m.FacetCount())
	}

	for f := 0; f < 2; f++ {
		if !within(m.AreaM2[f], 0.5, 1e-15) {
			t.Errorf("facet %d area = %v, want 0.5", f, m.AreaM2[f])
		}
		if m.NormalX[f] != 0 || m.NormalY[f] != 0 || !within(m.NormalZ[f], 1, 1e-15) {
			t.Errorf("facet %d normal = (%v %v %v), want (0 0 1)",
				f, m.NormalX[f], m.NormalY[f], m.NormalZ[f])
		}
	}
	if !within(m.CentroidX[0], 2.0/3, 1e-15) || !within(m.CentroidY[0], 1.0/3, 1e-15) {
		t.Errorf("facet 0 centroid = (%v %v), want (2/3 1/3)", m.CentroidX[0], m.CentroidY[0])
	}

	// Each facet inherits the label of its first listed vertex, not a vote.
	if m.Types[0] != model.SurfaceSeaIce {
		t.Errorf("facet 0 type = %v, want sea_ice from vertex 1", m.Types[0])
	}
	if m.Types[1] != model.SurfaceMeltPond {
		t.Errorf("facet 1 type = %v, want melt_pond from vertex 2", m.Types[1])
	}
}

// Vertex winding must not flip the surface orientation: normals always point
// up so incidence angles are measured against the sky side.
func TestBuildFacetMesh_NormalsPointUp(t *testing.T) {
	pc := model.PointCloud{
		X: []float64{0, 1, 0},
		Y: []float64{0, 0, 1},
		Z: []float64{0, 0, 0},
	}

	// Clockwise winding; the raw cross product points down.
	m, err := BuildFacetMesh(pc, nil, fixedTriangles([][3]int{{0, 2, 1}}))
	if err != nil {
		t.Fatalf("BuildFacetMesh: %v", err)
	}
	if m.NormalZ[0] <= 0 {
		t.Fatalf("NormalZ = %v, want > 0 after orientation fix", m.NormalZ[0])
	}
	if m.Types != nil {
		t.Fatalf("unlabelled mesh has Types = %v, want nil", m.Types)
	}
}

// A degenerate triangle keeps a zero normal and zero area instead of failing;
// downstream weighting removes its contribution.
func TestBuildFacetMesh_DegenerateFacet(t *testing.T) {
	pc := model.PointCloud{
		X: []float64{0, 1, 2},
		Y: []float64{0, 0, 0},
		Z: []float64{0, 0, 0},
	}

	m, err := BuildFacetMesh(pc, nil, fixedTriangles([][3]int{{0, 1, 2}}))
	if err != nil {
		t.Fatalf("BuildFacetMesh: %v", err)
	}
	if m.AreaM2[0] != 0 {
		t.Errorf("degenerate area = %v, want 0", m.AreaM2[0])
	}
	if m.normal(0) != (Vec3{}) {
		t.Errorf("degenerate normal = %+v, want zero", m.normal(0))
	}
}

func TestBuildFacetMesh_InputValidation(t *testing.T) {
	valid := model.PointCloud{
		X: []float64{0, 1, 0, 1},
		Y: []float64{0, 0, 1, 1},
		Z: []float64{0, 0, 0, 0},
	}
	labels := make([]model.SurfaceType, 4)

	tests := []struct {
		name  string
		pc    model.PointCloud
		types []model.SurfaceType
		tri   Triangulator
	}{
		{
			name: "coordinate length mismatch",
			pc:   model.PointCloud{X: []float64{0, 1, 2}, Y: []float64{0, 1}, Z: []float64{0, 1, 2}},
		},
		{
			name: "too few points",
			pc:   model.PointCloud{X: []float64{0, 1}, Y: []float64{0, 1}, Z: []float64{0, 0}},
		},
		{
			name:  "label count mismatch",
			pc:    valid,
			types: labels[:2],
		},
		{
			name: "triangle index out of range",
			pc:   valid,
			tri:  fixedTriangles([][3]int{{0, 1, 7}}),
		},
		{
			name: "triangulator failure",
			pc:   valid,
			tri: func(x, y []float64) ([][3]int, error) {
				return nil, errors.New("boom")
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildFacetMesh(tc.pc, tc.types, tc.tri); err == nil {
				t.Fatalf("BuildFacetMesh(%s) = nil error, want failure", tc.name)
			}
		})
	}
}

func TestDelaunayTriangulate_CoversConvexGrid(t *testing.T) {
	// 3x3 grid: 9 points, 8 hull vertices, so Delaunay yields 8 triangles.
	var x, y []float64
	for iy := 0; iy < 3; iy++ {
		for ix := 0; ix < 3; ix++ {
			x = append(x, float64(ix))
			y = append(y, float64(iy))
		}
	}

	tris, err := DelaunayTriangulate(x, y)
	if err != nil {
		t.Fatalf("DelaunayTriangulate: %v", err)
	}
	if len(tris) != 8 {
		t.Fatalf("triangle count = %d, want 8", len(tris))
	}
	seen := make(map[int]bool)
	for _, tri := range tris {
		for _, v := range tri {
			if v < 0 || v >= len(x) {
				t.Fatalf("vertex index %d out of range", v)
			}
			seen[v] = true
		}
	}
	if len(seen) != len(x) {
		t.Fatalf("triangulation references %d of %d vertices", len(seen), len(x))
	}
}
