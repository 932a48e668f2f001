package model

import "fmt"

// SurfaceType classifies what an ice-surface vertex is made of. Facets inherit
// the type of their first vertex.
type SurfaceType int

const (
	SurfaceSeaIce SurfaceType = iota
	SurfaceLead               // open water in a lead or the ocean
	SurfaceMeltPond
)

// String returns the stable name used in scenario files.
func (t SurfaceType) String() string {
	switch t {
	case SurfaceSeaIce:
		return "sea_ice"
	case SurfaceLead:
		return "lead"
	case SurfaceMeltPond:
		return "melt_pond"
	}
	return fmt.Sprintf("surface_type(%d)", int(t))
}

// ParseSurfaceType maps a scenario-file name back to its SurfaceType.
func ParseSurfaceType(s string) (SurfaceType, error) {
	switch s {
	case "sea_ice", "ice":
		return SurfaceSeaIce, nil
	case "lead", "ocean", "water":
		return SurfaceLead, nil
	case "melt_pond", "pond":
		return SurfaceMeltPond, nil
	}
	return 0, fmt.Errorf("unknown surface type %q", s)
}

// PointCloud holds scattered surface samples in the track-relative frame:
// x along-track, y across-track, z up, all metres, origin at nadir.
type PointCloud struct {
	X []float64
	Y []float64
	Z []float64
}

// Len returns the number of points in the cloud.
func (pc PointCloud) Len() int { return len(pc.X) }

// SurfaceModel bundles the two sampled interfaces of a snow-covered ice scene.
// Snow and ice clouds sample the same horizontal locations so their
// triangulations produce facet-aligned meshes; IceTypes labels each ice vertex.
type SurfaceModel struct {
	Snow     PointCloud
	Ice      PointCloud
	IceTypes []SurfaceType
}
