package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit           bool           `json:"hit"`
	MaterialType  string         `json:"materialType,omitempty"`
	MaterialIndex int            `json:"materialIndex"`
	Point         [3]float64     `json:"point"`
	Normal        [3]float64     `json:"normal"`
	Distance      float64        `json:"distance"`
	Bounces       int            `json:"bounces"`
	Color         [3]uint8       `json:"color"` // Final pixel color, as written to the frame buffer
	Properties    map[string]any `json:"properties,omitempty"`
}

// extractMaterialInfo extracts material parameters with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := mat.(type) {
	case *material.SolidColor:
		properties["color"] = hexColor(m.Color)
		return "solid", properties

	case *material.Lambertian:
		properties["color"] = hexColor(m.DiffuseColor)
		properties["kd"] = m.DiffuseReflectance
		return "lambert", properties

	case *material.LambertPhong:
		properties["color"] = hexColor(m.DiffuseColor)
		properties["kd"] = m.DiffuseReflectance
		properties["ks"] = m.SpecularReflectance
		properties["exponent"] = m.PhongExponent
		return "lambert-phong", properties

	case *material.CookTorrance:
		properties["color"] = hexColor(m.Albedo)
		properties["metalness"] = m.Metalness
		properties["roughness"] = m.Roughness
		properties["reflectivity"] = m.Reflectivity()
		return "cook-torrance", properties

	default:
		return "unknown", properties
	}
}

func hexColor(c core.Vec3) string {
	r, g, b := renderer.Quantize(c)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// handleInspect traces one pixel and reports what the primary ray hit
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	query := r.URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		writeError(w, http.StatusBadRequest, errors.New("x and y are required"))
		return
	}
	pixelX, err := parseIntParam(query, "x", 0, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pixelY, err := parseIntParam(query, "y", 0, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, err := s.loadScene(req.Scene)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errSceneNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	opts := req.Options
	opts.Background = sc.Background()
	result := integrator.NewIntegrator(sc, req.Width, req.Height, opts).TracePixel(pixelX, pixelY)

	red, green, blue := renderer.Quantize(result.Color.MaxToOne())
	response := InspectResponse{
		Hit:     result.Primary.DidHit,
		Bounces: result.Bounces,
		Color:   [3]uint8{red, green, blue},
	}

	if result.Primary.DidHit {
		hit := result.Primary
		response.MaterialIndex = hit.MaterialIndex
		response.Point = [3]float64{hit.Origin.X, hit.Origin.Y, hit.Origin.Z}
		response.Normal = [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z}
		response.Distance = hit.T
		response.MaterialType, response.Properties = extractMaterialInfo(sc.Materials()[hit.MaterialIndex])
	}

	writeJSON(w, http.StatusOK, response)
}
