package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/signalsfoundry/altimeter-simulator/model"
)

// internal JSON shapes - kept unexported so the file format can evolve
// without touching the model types.
type scenarioJSON struct {
	Radar       radarJSON    `json:"radar"`
	TimeGridS   []float64    `json:"time_grid_s"`
	SnowSurface surfaceJSON  `json:"snow_surface"`
	IceSurface  surfaceJSON  `json:"ice_surface"`
	Curves      curveSetJSON `json:"curves"`
}

type radarJSON struct {
	WavelengthM        float64 `json:"wavelength_m"`
	BandwidthHz        float64 `json:"bandwidth_hz"`
	TxPowerW           float64 `json:"tx_power_w"`
	AltitudeM          float64 `json:"altitude_m"`
	VelocityMps        float64 `json:"velocity_mps"`
	PRFHz              float64 `json:"prf_hz"`
	PitchRad           float64 `json:"pitch_rad"`
	RollRad            float64 `json:"roll_rad"`
	BoresightGain      float64 `json:"boresight_gain"`
	BeamwidthAlongRad  float64 `json:"beamwidth_along_rad"`
	BeamwidthAcrossRad float64 `json:"beamwidth_across_rad"`
	BeamCount          int     `json:"beam_count"`
	SnowDepthM         float64 `json:"snow_depth_m"`
	SnowSpeedMps       float64 `json:"snow_speed_mps"`
	SnowExtinctionNpM  float64 `json:"snow_extinction_npm"`
	Mode               string  `json:"mode"`   // "sar" | "pulse-limited"
	Window             string  `json:"window"` // optional; defaults to rectangular
}

type surfaceJSON struct {
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Z     []float64 `json:"z"`
	Types []string  `json:"types,omitempty"` // ice surface only
}

type curveSetJSON struct {
	SnowSurface      *tableJSON `json:"snow_surface"`
	SnowVolume       *tableJSON `json:"snow_volume"`
	IceSurface       *tableJSON `json:"ice_surface"`
	Lead             *tableJSON `json:"lead"`
	MeltPond         *tableJSON `json:"melt_pond"`
	SnowTransmission *tableJSON `json:"snow_transmission"`
}

type tableJSON struct {
	AngleRad []float64 `json:"angle_rad"`
	Value    []float64 `json:"value"`
}

// LoadScenario reads a JSON scenario from r and fits its response tables into
// spline curves. It fails on JSON, structural, and curve-fitting errors;
// physical consistency is checked by Simulator.Simulate so that scenarios
// built in code and scenarios loaded from disk go through the same gate.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	sc := &Scenario{
		Radar: model.RadarConfig{
			WavelengthM:        payload.Radar.WavelengthM,
			BandwidthHz:        payload.Radar.BandwidthHz,
			TxPowerW:           payload.Radar.TxPowerW,
			AltitudeM:          payload.Radar.AltitudeM,
			VelocityMps:        payload.Radar.VelocityMps,
			PRFHz:              payload.Radar.PRFHz,
			PitchRad:           payload.Radar.PitchRad,
			RollRad:            payload.Radar.RollRad,
			BoresightGain:      payload.Radar.BoresightGain,
			BeamwidthAlongRad:  payload.Radar.BeamwidthAlongRad,
			BeamwidthAcrossRad: payload.Radar.BeamwidthAcrossRad,
			BeamCount:          payload.Radar.BeamCount,
			SnowDepthM:         payload.Radar.SnowDepthM,
			SnowSpeedMps:       payload.Radar.SnowSpeedMps,
			SnowExtinctionNpM:  payload.Radar.SnowExtinctionNpM,
			Mode:               model.Mode(payload.Radar.Mode),
			Window:             model.BeamWindow(payload.Radar.Window),
		},
		TimeGridS: payload.TimeGridS,
		Surface: model.SurfaceModel{
			Snow: model.PointCloud{X: payload.SnowSurface.X, Y: payload.SnowSurface.Y, Z: payload.SnowSurface.Z},
			Ice:  model.PointCloud{X: payload.IceSurface.X, Y: payload.IceSurface.Y, Z: payload.IceSurface.Z},
		},
	}

	if len(payload.IceSurface.Types) > 0 {
		sc.Surface.IceTypes = make([]model.SurfaceType, len(payload.IceSurface.Types))
		for i, name := range payload.IceSurface.Types {
			st, err := model.ParseSurfaceType(name)
			if err != nil {
				return nil, fmt.Errorf("LoadScenario: ice surface point %d: %w", i, err)
			}
			sc.Surface.IceTypes[i] = st
		}
	}

	var err error
	if sc.Curves.SnowSurface, err = fitCurve("snow_surface", payload.Curves.SnowSurface); err != nil {
		return nil, err
	}
	if sc.Curves.SnowVolume, err = fitCurve("snow_volume", payload.Curves.SnowVolume); err != nil {
		return nil, err
	}
	if sc.Curves.IceSurface, err = fitCurve("ice_surface", payload.Curves.IceSurface); err != nil {
		return nil, err
	}
	if sc.Curves.Lead, err = fitCurve("lead", payload.Curves.Lead); err != nil {
		return nil, err
	}
	if sc.Curves.MeltPond, err = fitCurve("melt_pond", payload.Curves.MeltPond); err != nil {
		return nil, err
	}
	if sc.Curves.SnowTransmission, err = fitCurve("snow_transmission", payload.Curves.SnowTransmission); err != nil {
		return nil, err
	}

	return sc, nil
}

// LoadScenarioFile opens path and loads the scenario it contains.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadScenarioFile: %w", err)
	}
	defer f.Close()
	return LoadScenario(f)
}

func fitCurve(name string, table *tableJSON) (Curve, error) {
	if table == nil {
		return nil, fmt.Errorf("LoadScenario: missing %q curve", name)
	}
	c, err := NewSplineCurve(model.ResponseTable{AngleRad: table.AngleRad, Value: table.Value})
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: %q curve: %w", name, err)
	}
	return c, nil
}
