package core

import (
	"fmt"

	"github.com/fogleman/delaunay"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// Triangulator turns a planar point set into a triangle index list. The
// simulator only depends on this signature; the default is Delaunay
// triangulation of the horizontal point locations.
type Triangulator func(x, y []float64) ([][3]int, error)

// DelaunayTriangulate is the default Triangulator.
func DelaunayTriangulate(x, y []float64) ([][3]int, error) {
	pts := make([]delaunay.Point, len(x))
	for i := range pts {
		pts[i] = delaunay.Point{X: x[i], Y: y[i]}
	}
	tr, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("delaunay triangulation: %w", err)
	}
	tris := make([][3]int, len(tr.Triangles)/3)
	for i := range tris {
		tris[i] = [3]int{tr.Triangles[3*i], tr.Triangles[3*i+1], tr.Triangles[3*i+2]}
	}
	return tris, nil
}

// FacetMesh is a triangulated surface with the per-facet quantities the echo
// model consumes. Normals are unit length and oriented upward; degenerate
// facets keep a zero normal and zero area, which weights them out of the
// returned power downstream.
type FacetMesh struct {
	X, Y, Z []float64

	Triangles [][3]int

	CentroidX []float64
	CentroidY []float64
	CentroidZ []float64

	NormalX []float64
	NormalY []float64
	NormalZ []float64

	AreaM2 []float64

	// Types labels each facet with the surface type of its first vertex.
	// Nil for meshes without vertex labels, such as the snow interface.
	Types []model.SurfaceType
}

// FacetCount returns the number of triangles in the mesh.
func (m *FacetMesh) FacetCount() int { return len(m.Triangles) }

func (m *FacetMesh) normal(f int) Vec3 {
	return Vec3{X: m.NormalX[f], Y: m.NormalY[f], Z: m.NormalZ[f]}
}

// BuildFacetMesh triangulates the cloud's horizontal locations and derives
// centroid, normal, and planar area for every facet. When types is non-nil it
// must label every vertex; each facet inherits the label of its first vertex.
func BuildFacetMesh(pc model.PointCloud, types []model.SurfaceType, tri Triangulator) (*FacetMesh, error) {
	n := pc.Len()
	if len(pc.Y) != n || len(pc.Z) != n {
		return nil, fmt.Errorf("point cloud coordinate lengths differ: x=%d y=%d z=%d", len(pc.X), len(pc.Y), len(pc.Z))
	}
	if n < 3 {
		return nil, fmt.Errorf("point cloud has %d points, need at least 3", n)
	}
	if types != nil && len(types) != n {
		return nil, fmt.Errorf("surface type labels cover %d of %d vertices", len(types), n)
	}
	if tri == nil {
		tri = DelaunayTriangulate
	}

	tris, err := tri(pc.X, pc.Y)
	if err != nil {
		return nil, err
	}

	m := &FacetMesh{
		X:         pc.X,
		Y:         pc.Y,
		Z:         pc.Z,
		Triangles: tris,
		CentroidX: make([]float64, len(tris)),
		CentroidY: make([]float64, len(tris)),
		CentroidZ: make([]float64, len(tris)),
		NormalX:   make([]float64, len(tris)),
		NormalY:   make([]float64, len(tris)),
		NormalZ:   make([]float64, len(tris)),
		AreaM2:    make([]float64, len(tris)),
	}
	if types != nil {
		m.Types = make([]model.SurfaceType, len(tris))
	}

	for f, t := range tris {
		for _, v := range t {
			if v < 0 || v >= n {
				return nil, fmt.Errorf("triangle %d references vertex %d outside cloud of %d points", f, v, n)
			}
		}
		a := Vec3{X: pc.X[t[0]], Y: pc.Y[t[0]], Z: pc.Z[t[0]]}
		b := Vec3{X: pc.X[t[1]], Y: pc.Y[t[1]], Z: pc.Z[t[1]]}
		c := Vec3{X: pc.X[t[2]], Y: pc.Y[t[2]], Z: pc.Z[t[2]]}

		m.CentroidX[f] = (a.X + b.X + c.X) / 3
		m.CentroidY[f] = (a.Y + b.Y + c.Y) / 3
		m.CentroidZ[f] = (a.Z + b.Z + c.Z) / 3

		cr := b.Sub(a).Cross(c.Sub(a))
		m.AreaM2[f] = cr.Norm() / 2

		nrm := cr.Unit()
		if nrm.Z < 0 {
			nrm = Vec3{X: -nrm.X, Y: -nrm.Y, Z: -nrm.Z}
		}
		m.NormalX[f] = nrm.X
		m.NormalY[f] = nrm.Y
		m.NormalZ[f] = nrm.Z

		if types != nil {
			m.Types[f] = types[t[0]]
		}
	}
	return m, nil
}
