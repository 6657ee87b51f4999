package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
	Comments    []string

	HasColors    bool
	ColorIndices [3]int // Indices of red, green, blue properties
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the occluder data loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle), polygons fan triangulated
	Colors   []core.Vec3 // Per-vertex colors normalized to [0,1] - empty if not present
}

// LoadPLY loads a PLY mesh in ASCII or binary little-endian format
func LoadPLY(filename string) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %v", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Loaded PLY data: %d vertices, %d triangles in %v\n",
		len(data.Vertices), len(data.Faces)/3, time.Since(startTime))

	return data, nil
}

// ReadPLY parses a PLY stream
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %v", err)
	}

	var plyData *PLYData
	switch header.Format {
	case "binary_little_endian":
		plyData, err = readPLYBody(&binaryPLYReader{r: reader, order: binary.LittleEndian}, header)
	case "ascii":
		plyData, err = readPLYBody(&asciiPLYReader{r: reader}, header)
	case "binary_big_endian":
		return nil, fmt.Errorf("binary big-endian PLY format not yet implemented")
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %v", err)
	}
	return plyData, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{
		VertexProps: make([]PLYProperty, 0),
		FaceProps:   make([]PLYProperty, 0),
	}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	var currentElement string
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %v", err)
		}

		line := strings.TrimSpace(raw)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			header.Comments = append(header.Comments, strings.TrimSpace(strings.TrimPrefix(line, parts[0])))
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element definition: %s", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element: %s", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %v", err)
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				propIndex := len(header.VertexProps) - 1

				switch prop.Name {
				case "red", "r":
					header.HasColors = true
					header.ColorIndices[0] = propIndex
				case "green", "g":
					header.HasColors = true
					header.ColorIndices[1] = propIndex
				case "blue", "b":
					header.HasColors = true
					header.ColorIndices[2] = propIndex
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	if _, err := getTypeSize(prop.Type, prop.IsList); err != nil {
		return PLYProperty{}, err
	}
	return prop, nil
}

// scalarReader reads one typed PLY scalar from the body
type scalarReader interface {
	readScalar(dataType string) (float64, error)
}

// readPLYBody reads vertex and face elements in header order
func readPLYBody(sr scalarReader, header *PLYHeader) (*PLYData, error) {
	vertices := make([]core.Vec3, 0, header.VertexCount)
	faces := make([]int, 0, header.FaceCount*3)
	var colors []core.Vec3
	if header.HasColors {
		colors = make([]core.Vec3, 0, header.VertexCount)
	}

	values := make([]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		var position core.Vec3
		for j, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(sr, prop); err != nil {
					return nil, fmt.Errorf("failed to skip vertex list %s at vertex %d: %v", prop.Name, i, err)
				}
				continue
			}
			value, err := sr.readScalar(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("failed to read vertex %d property %s: %v", i, prop.Name, err)
			}
			values[j] = value
			switch prop.Name {
			case "x":
				position.X = value
			case "y":
				position.Y = value
			case "z":
				position.Z = value
			}
		}
		vertices = append(vertices, position)

		if header.HasColors {
			maxValue := colorRange(header.VertexProps[header.ColorIndices[0]].Type)
			colors = append(colors, core.NewVec3(
				values[header.ColorIndices[0]]/maxValue,
				values[header.ColorIndices[1]]/maxValue,
				values[header.ColorIndices[2]]/maxValue,
			))
		}
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(sr, prop); err != nil {
					return nil, fmt.Errorf("failed to skip face property %s at face %d: %v", prop.Name, i, err)
				}
				continue
			}

			count, err := sr.readScalar(prop.ListType)
			if err != nil {
				return nil, fmt.Errorf("failed to read face vertex count at face %d: %v", i, err)
			}
			if count < 3 {
				return nil, fmt.Errorf("face %d has %d vertices, need at least 3", i, int(count))
			}

			polygon := make([]int, int(count))
			for k := range polygon {
				index, err := sr.readScalar(prop.DataType)
				if err != nil {
					return nil, fmt.Errorf("failed to read face indices at face %d: %v", i, err)
				}
				if index < 0 || int(index) >= len(vertices) {
					return nil, fmt.Errorf("face %d references vertex %d of %d", i, int(index), len(vertices))
				}
				polygon[k] = int(index)
			}

			// Fan triangulation around the first vertex
			for k := 1; k+1 < len(polygon); k++ {
				faces = append(faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}

	return &PLYData{
		Vertices: vertices,
		Faces:    faces,
		Colors:   colors,
	}, nil
}

// colorRange returns the stored value that maps to full intensity
func colorRange(dataType string) float64 {
	switch dataType {
	case "float", "float32", "double", "float64":
		return 1
	case "ushort", "uint16":
		return 65535
	default:
		return 255
	}
}

func skipProperty(sr scalarReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(sr, prop)
	}
	_, err := sr.readScalar(prop.Type)
	return err
}

func skipList(sr scalarReader, prop PLYProperty) error {
	count, err := sr.readScalar(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := sr.readScalar(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// getTypeSize returns the size in bytes of a PLY data type
func getTypeSize(dataType string, isList bool) (int, error) {
	if isList {
		return 0, nil
	}
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4, nil
	case "double", "float64":
		return 8, nil
	case "short", "int16", "ushort", "uint16":
		return 2, nil
	case "char", "int8", "uchar", "uint8":
		return 1, nil
	default:
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
}

// binaryPLYReader decodes scalars from a binary body
type binaryPLYReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (br *binaryPLYReader) readScalar(dataType string) (float64, error) {
	size, err := getTypeSize(dataType, false)
	if err != nil {
		return 0, err
	}
	b := br.buf[:size]
	if _, err := io.ReadFull(br.r, b); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(br.order.Uint32(b))), nil
	case "double", "float64":
		return math.Float64frombits(br.order.Uint64(b)), nil
	case "int", "int32":
		return float64(int32(br.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(br.order.Uint32(b)), nil
	case "short", "int16":
		return float64(int16(br.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(br.order.Uint16(b)), nil
	case "char", "int8":
		return float64(int8(b[0])), nil
	default: // uchar, uint8
		return float64(b[0]), nil
	}
}

// asciiPLYReader reads whitespace-separated tokens
type asciiPLYReader struct {
	r *bufio.Reader
}

func (ar *asciiPLYReader) readScalar(dataType string) (float64, error) {
	token, err := ar.nextToken()
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, token)
	}
	return value, nil
}

func (ar *asciiPLYReader) nextToken() (string, error) {
	var sb strings.Builder
	for {
		c, err := ar.r.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(c)
	}
}
