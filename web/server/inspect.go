package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		switch albedo := m.Albedo.(type) {
		case *material.SolidColor:
			properties["albedo"] = vec(albedo.Color)
			properties["color"] = hexColor(albedo.Color)
		default:
			properties["texture"] = fmt.Sprintf("%T", albedo)
		}
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vec(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	case *material.Layered:
		outerType, outerProps := extractMaterialInfo(m.Outer)
		innerType, innerProps := extractMaterialInfo(m.Inner)
		properties["outer"] = map[string]interface{}{
			"type":       outerType,
			"properties": outerProps,
		}
		properties["inner"] = map[string]interface{}{
			"type":       innerType,
			"properties": innerProps,
		}
		return "layered", properties

	case *material.Mix:
		material1Type, material1Props := extractMaterialInfo(m.Material1)
		material2Type, material2Props := extractMaterialInfo(m.Material2)
		properties["material1"] = map[string]interface{}{
			"type":       material1Type,
			"properties": material1Props,
		}
		properties["material2"] = map[string]interface{}{
			"type":       material2Type,
			"properties": material2Props,
		}
		properties["ratio"] = m.Ratio
		properties["description"] = fmt.Sprintf("%.0f%% %s, %.0f%% %s",
			(1-m.Ratio)*100, material1Type, m.Ratio*100, material2Type)
		return "mixed", properties

	case nil:
		return "none", properties

	default:
		return "unknown", properties
	}
}

// InspectResult contains information about the surface an inspection ray hit
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Shape     geometry.Shape // The primitive that was hit, nil if not found
	FrontFace bool
}

// inspectPixel casts a ray through the center of a pixel (y = 0 is the top row)
// and returns the first surface hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	// Fixed sampler so the lens sample is the same for every request
	sampler := core.NewSeededSampler(0)
	s := (float64(pixelX) + 0.5) / float64(width)
	t := 1 - (float64(pixelY)+0.5)/float64(height)
	ray := sceneObj.Camera.GetRay(s, t, sampler)

	hit, isHit := sceneObj.World.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	return InspectResult{
		Hit:       true,
		HitRecord: hit,
		Shape:     findPrimitive(sceneObj.World, ray, hit.T),
		FrontFace: ray.Direction.Dot(hit.Normal) < 0,
	}
}

// findPrimitive walks the BVH for the leaf that produced the hit at t
// (the hit record does not carry the shape)
func findPrimitive(shape geometry.Shape, ray core.Ray, t float64) geometry.Shape {
	node, ok := shape.(*geometry.BVHNode)
	if !ok {
		if hit, isHit := shape.Hit(ray, 0.001, t+1e-9); isHit && hit.T == t {
			return shape
		}
		return nil
	}

	if !node.Box.Hit(ray, 0.001, t+1e-9) {
		return nil
	}
	if found := findPrimitive(node.Left, ray, t); found != nil {
		return found
	}
	return findPrimitive(node.Right, ray, t)
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius
		if geom.Radius < 0 {
			properties["hollow"] = true
		}
		return "sphere", properties

	case *geometry.MovingSphere:
		properties["center0"] = vec(geom.Center0)
		properties["center1"] = vec(geom.Center1)
		properties["time"] = [2]float64{geom.Time0, geom.Time1}
		properties["radius"] = geom.Radius
		return "moving_sphere", properties

	case *geometry.Triangle:
		properties["v0"] = vec(geom.V0)
		properties["v1"] = vec(geom.V1)
		properties["v2"] = vec(geom.V2)
		properties["normal"] = vec(geom.Normal())
		return "triangle", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	inspectReq, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	opts := scene.Options{Seed: inspectReq.Seed}
	if inspectReq.Height > 0 {
		opts.AspectRatio = float64(inspectReq.Width) / float64(inspectReq.Height)
	}
	sceneObj, err := s.createScene(inspectReq.Scene, opts)
	if err != nil {
		writeSceneError(w, inspectReq.Scene, err)
		return
	}
	if inspectReq.Height == 0 {
		inspectReq.Height = clampSize(int(math.Round(float64(inspectReq.Width) / sceneObj.CameraConfig.AspectRatio)))
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec(result.HitRecord.Point),
		Normal:       vec(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}

	writeJSON(w, http.StatusOK, response)
}
