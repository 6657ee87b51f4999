package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// createTestPLY creates a simple binary test PLY file for testing
func createTestPLY(t *testing.T, filename string, includeNormals bool, includeColors bool) {
	var buf bytes.Buffer

	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("comment Scene: Test Square\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")

	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}

	if includeColors {
		buf.WriteString("property uchar red\n")
		buf.WriteString("property uchar green\n")
		buf.WriteString("property uchar blue\n")
	}

	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	// 4 vertices forming a square
	vertices := []struct {
		x, y, z    float32
		nx, ny, nz float32
		r, g, b    uint8
	}{
		{0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 255, 0, 0},   // red
		{1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0, 255, 0},   // green
		{1.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0, 0, 255},   // blue
		{0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 255, 255, 0}, // yellow
	}

	for _, v := range vertices {
		binary.Write(&buf, binary.LittleEndian, v.x)
		binary.Write(&buf, binary.LittleEndian, v.y)
		binary.Write(&buf, binary.LittleEndian, v.z)

		if includeNormals {
			binary.Write(&buf, binary.LittleEndian, v.nx)
			binary.Write(&buf, binary.LittleEndian, v.ny)
			binary.Write(&buf, binary.LittleEndian, v.nz)
		}

		if includeColors {
			binary.Write(&buf, binary.LittleEndian, v.r)
			binary.Write(&buf, binary.LittleEndian, v.g)
			binary.Write(&buf, binary.LittleEndian, v.b)
		}
	}

	faces := []struct {
		count      uint8
		v1, v2, v3 int32
	}{
		{3, 0, 1, 2},
		{3, 0, 2, 3},
	}

	for _, f := range faces {
		binary.Write(&buf, binary.LittleEndian, f.count)
		binary.Write(&buf, binary.LittleEndian, f.v1)
		binary.Write(&buf, binary.LittleEndian, f.v2)
		binary.Write(&buf, binary.LittleEndian, f.v3)
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to create test PLY file: %v", err)
	}
}

var squareVertices = []core.Vec3{
	core.NewVec3(0.0, 0.0, 0.0),
	core.NewVec3(1.0, 0.0, 0.0),
	core.NewVec3(1.0, 1.0, 0.0),
	core.NewVec3(0.0, 1.0, 0.0),
}

func checkSquare(t *testing.T, data *PLYData) {
	t.Helper()

	if len(data.Vertices) != len(squareVertices) {
		t.Fatalf("Expected %d vertices, got %d", len(squareVertices), len(data.Vertices))
	}
	for i, expected := range squareVertices {
		if data.Vertices[i] != expected {
			t.Errorf("Vertex %d: expected %v, got %v", i, expected, data.Vertices[i])
		}
	}

	expectedFaces := []int{0, 1, 2, 0, 2, 3}
	if len(data.Faces) != len(expectedFaces) {
		t.Fatalf("Expected %d face indices, got %d", len(expectedFaces), len(data.Faces))
	}
	for i, expected := range expectedFaces {
		if data.Faces[i] != expected {
			t.Errorf("Face index %d: expected %d, got %d", i, expected, data.Faces[i])
		}
	}
}

func TestLoadPLY_Binary(t *testing.T) {
	tests := []struct {
		name           string
		includeNormals bool
		includeColors  bool
	}{
		{"Positions only", false, false},
		{"With normals", true, false},
		{"With colors", false, true},
		{"With normals and colors", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(t.TempDir(), "square.ply")
			createTestPLY(t, testFile, tt.includeNormals, tt.includeColors)

			data, err := LoadPLY(testFile)
			if err != nil {
				t.Fatalf("Failed to load PLY: %v", err)
			}
			checkSquare(t, data)

			if tt.includeColors {
				if len(data.Colors) != 4 {
					t.Fatalf("Expected 4 colors, got %d", len(data.Colors))
				}
				if data.Colors[3] != core.NewVec3(1, 1, 0) {
					t.Errorf("Expected yellow, got %v", data.Colors[3])
				}
			} else if len(data.Colors) != 0 {
				t.Errorf("Expected no colors, got %d", len(data.Colors))
			}
		})
	}
}

func TestReadPLY_ASCIIQuadIsFanTriangulated(t *testing.T) {
	ply := `ply
format ascii 1.0
comment square as one quad
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

	data, err := ReadPLY(strings.NewReader(ply))
	if err != nil {
		t.Fatalf("Failed to read PLY: %v", err)
	}
	checkSquare(t, data)
}

func TestReadPLY_Errors(t *testing.T) {
	header := "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
		"element face 1\nproperty list uchar int vertex_indices\nend_header\n"

	tests := []struct {
		name  string
		input string
	}{
		{"Missing magic", "format ascii 1.0\nend_header\n"},
		{"Big endian", "ply\nformat binary_big_endian 1.0\nend_header\n"},
		{"Unknown type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n"},
		{"Index out of range", header + "0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
		{"Degenerate face", header + "0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
		{"Truncated body", header + "0 0 0\n1 0 0\n"},
		{"Truncated header", "ply\nformat ascii 1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPLY(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadPLY_MissingFile(t *testing.T) {
	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
