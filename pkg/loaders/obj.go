package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// OBJData contains the triangle data read from a Wavefront OBJ file
type OBJData struct {
	Positions []core.Vec3 // Vertex positions
	Indices   []int       // Triangle indices, 3 per face, 0-based
	Normals   []core.Vec3 // One normal per face, from the winding
}

// TriangleCount returns the number of faces
func (d *OBJData) TriangleCount() int {
	return len(d.Indices) / 3
}

// LoadOBJ loads an OBJ file from disk
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads "v" and "f" records. Faces with more than three vertices are
// split into a triangle fan; "v/vt/vn" references use only the position index.
// Everything else (comments, normals, groups, materials) is skipped.
func ParseOBJ(r io.Reader) (*OBJData, error) {
	data := &OBJData{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNumber)
			}
			var coords [3]float64
			for i := range coords {
				value, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex coordinate %q: %w", lineNumber, fields[i+1], err)
				}
				coords[i] = value
			}
			data.Positions = append(data.Positions, core.NewVec3(coords[0], coords[1], coords[2]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNumber)
			}
			face := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := parseFaceIndex(ref, len(data.Positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				face = append(face, idx)
			}
			for i := 1; i+1 < len(face); i++ {
				data.Indices = append(data.Indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	data.Normals = faceNormals(data.Positions, data.Indices)
	return data, nil
}

// parseFaceIndex converts a 1-based (or negative, relative) OBJ reference to a 0-based index
func parseFaceIndex(ref string, vertexCount int) (int, error) {
	position, _, _ := strings.Cut(ref, "/")
	idx, err := strconv.Atoi(position)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q: %w", ref, err)
	}

	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += vertexCount
	default:
		return 0, fmt.Errorf("face index 0 is not valid in OBJ")
	}

	if idx < 0 || idx >= vertexCount {
		return 0, fmt.Errorf("face index %q out of range (%d vertices)", ref, vertexCount)
	}
	return idx, nil
}

func faceNormals(positions []core.Vec3, indices []int) []core.Vec3 {
	normals := make([]core.Vec3, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		v0 := positions[indices[i]]
		edge1 := positions[indices[i+1]].Subtract(v0)
		edge2 := positions[indices[i+2]].Subtract(v0)
		normals = append(normals, edge1.Cross(edge2).Normalize())
	}
	return normals
}
