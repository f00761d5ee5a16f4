package geometry

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode is an internal node of the Bounding Volume Hierarchy.
// Leaves are the shapes themselves; a node always owns exactly two children.
type BVHNode struct {
	Left  Shape
	Right Shape
	Box   core.AABB // Union of both children's boxes
}

// BuildBVH constructs a BVH over the given shapes and returns its root.
// A single shape is returned as-is. Every shape must have a bounding box
// over [time0, time1]. A nil random uses a fixed seed.
func BuildBVH(shapes []Shape, time0, time1 float64, random *rand.Rand) (Shape, error) {
	if len(shapes) == 0 {
		return nil, core.ErrEmptyScene
	}
	if random == nil {
		random = rand.New(rand.NewSource(1))
	}

	// Sort in place on a private copy so callers can share the input across builds
	items := make([]bvhItem, len(shapes))
	for i, shape := range shapes {
		box, ok := shape.BoundingBox(time0, time1)
		if !ok {
			return nil, fmt.Errorf("shape %d (%T): %w", i, shape, core.ErrNoBoundingBox)
		}
		items[i] = bvhItem{shape: shape, box: box}
	}

	root, _ := buildBVH(items, random)
	return root, nil
}

// bvhItem pairs a shape with its precomputed box so sorting never re-queries it
type bvhItem struct {
	shape Shape
	box   core.AABB
}

// buildBVH recursively partitions items by the box minimum along a random axis
func buildBVH(items []bvhItem, random *rand.Rand) (Shape, core.AABB) {
	switch len(items) {
	case 1:
		return items[0].shape, items[0].box
	case 2:
		return newBVHNode(items[0].shape, items[0].box, items[1].shape, items[1].box)
	}

	axis := random.Intn(3)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].box.Min.Axis(axis) < items[j].box.Min.Axis(axis)
	})

	mid := len(items) / 2
	left, leftBox := buildBVH(items[:mid], random)
	right, rightBox := buildBVH(items[mid:], random)

	return newBVHNode(left, leftBox, right, rightBox)
}

func newBVHNode(left Shape, leftBox core.AABB, right Shape, rightBox core.AABB) (*BVHNode, core.AABB) {
	box := core.SurroundingBox(leftBox, rightBox)
	return &BVHNode{Left: left, Right: right, Box: box}, box
}

// Hit tests the node's box, then queries both children with the same window
// and keeps the nearer hit
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax)
	rightHit, hitRight := n.Right.Hit(ray, tMin, tMax)

	switch {
	case hitLeft && hitRight:
		if leftHit.T <= rightHit.T {
			return leftHit, true
		}
		return rightHit, true
	case hitLeft:
		return leftHit, true
	case hitRight:
		return rightHit, true
	}

	return nil, false
}

// BoundingBox returns the cached union of the children's boxes
func (n *BVHNode) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return n.Box, true
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	TotalNodes int     // Internal nodes
	LeafNodes  int     // Shapes referenced by the tree
	MaxDepth   int     // Deepest leaf, root is depth 0
	AvgDepth   float64 // Mean leaf depth
}

// CollectBVHStats walks a tree returned by BuildBVH
func CollectBVHStats(root Shape) BVHStats {
	stats := BVHStats{}
	if root == nil {
		return stats
	}

	collectStats(root, 0, &stats)

	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

func collectStats(shape Shape, depth int, stats *BVHStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	node, ok := shape.(*BVHNode)
	if !ok {
		stats.LeafNodes++
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}

	stats.TotalNodes++
	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
