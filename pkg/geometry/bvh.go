package geometry

import (
	"sort"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Triangles   []*Triangle // Triangles for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy over triangles
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer triangles, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of triangles
func NewBVH(triangles []*Triangle) *BVH {
	if len(triangles) == 0 {
		return &BVH{Root: nil}
	}

	// Sorting happens in place, keep the caller's order intact
	trianglesCopy := make([]*Triangle, len(triangles))
	copy(trianglesCopy, triangles)

	return &BVH{Root: buildBVH(trianglesCopy)}
}

// buildBVH recursively builds the BVH with a median split along the longest axis
func buildBVH(triangles []*Triangle) *BVHNode {
	boundingBox := triangles[0].BoundingBox()
	for _, tri := range triangles[1:] {
		boundingBox = boundingBox.Union(tri.BoundingBox())
	}

	if len(triangles) <= leafThreshold {
		return &BVHNode{
			BoundingBox: boundingBox,
			Triangles:   triangles,
		}
	}

	axis := boundingBox.LongestAxis()
	sortTrianglesByAxis(triangles, axis)

	mid := len(triangles) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(triangles[:mid]),
		Right:       buildBVH(triangles[mid:]),
	}
}

// sortTrianglesByAxis sorts triangles by their bounding box center along the specified axis
func sortTrianglesByAxis(triangles []*Triangle, axis int) {
	sort.Slice(triangles, func(i, j int) bool {
		centerI := triangles[i].BoundingBox().Center()
		centerJ := triangles[j].BoundingBox().Center()

		switch axis {
		case 0:
			return centerI.X < centerJ.X
		case 1:
			return centerI.Y < centerJ.Y
		default:
			return centerI.Z < centerJ.Z
		}
	})
}

// Intersect returns the closest triangle hit along the ray within [tMin, tMax]
func (bvh *BVH) Intersect(ray core.Ray, tMin, tMax float64) (*Triangle, float64, bool) {
	if bvh.Root == nil {
		return nil, 0, false
	}
	return bvh.intersectNode(bvh.Root, ray, tMin, tMax)
}

func (bvh *BVH) intersectNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*Triangle, float64, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, 0, false
	}

	var closest *Triangle
	closestSoFar := tMax
	hitAnything := false

	if node.Triangles != nil {
		for _, tri := range node.Triangles {
			if t, ok := tri.Intersect(ray, tMin, closestSoFar); ok {
				hitAnything = true
				closestSoFar = t
				closest = tri
			}
		}
		return closest, closestSoFar, hitAnything
	}

	if node.Left != nil {
		if tri, t, ok := bvh.intersectNode(node.Left, ray, tMin, closestSoFar); ok {
			hitAnything = true
			closestSoFar = t
			closest = tri
		}
	}
	if node.Right != nil {
		if tri, t, ok := bvh.intersectNode(node.Right, ray, tMin, closestSoFar); ok {
			hitAnything = true
			closestSoFar = t
			closest = tri
		}
	}

	return closest, closestSoFar, hitAnything
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes     int
	LeafNodes      int
	MaxDepth       int
	TotalTriangles int
}

// Stats walks the tree and returns its shape
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	if bvh.Root != nil {
		bvh.collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.Triangles != nil {
		stats.LeafNodes++
		stats.TotalTriangles += len(node.Triangles)
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
