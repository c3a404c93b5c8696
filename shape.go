// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"log/slog"
	"math"

	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// ColliderKind names a primitive collider leaf a game object can carry.
type ColliderKind int

const (
	ColliderSphere ColliderKind = iota
	ColliderBox
	ColliderCylinder
	ColliderCapsule
	ColliderConvexHull
	ColliderMesh
	ColliderHeightField
)

// Collider is one entry the Collision Shape Builder walks off the
// owning game object: a primitive kind plus its local offset from the
// object's origin.
type Collider struct {
	Kind ColliderKind
	Pos  geom.Vec3
	Rot  geom.Quat

	Radius      float64
	HalfHeight  float64
	HalfExtents geom.Vec3
	Points      []geom.Vec3
	MeshParts   []solver.CompoundPart // pre-built for ColliderMesh/HeightField

	// MeshVertices/MeshIndices retain the same triangle soup MeshParts
	// was built from, kept alongside it the way Points is kept alongside
	// a convex hull's solver.Shape: MeshParts is opaque to this package
	// once built, so the Debug Geometry Gatherer walks these instead
	// (§4.8).
	MeshVertices []geom.Vec3
	MeshIndices  []int32

	// CropMin/CropMax bound a height field's debug-draw box in local
	// space, set by NewHeightField (§4.2 "Height field").
	CropMin geom.Vec3
	CropMax geom.Vec3
}

func (c Collider) hasOffset() bool { return !c.Pos.Zero() || !c.Rot.IsIdentity() }

// ScalingMode constrains the legal scale axis set for a composed
// shape, derived once at composition time from the collider kinds it
// contains.
type ScalingMode int

const (
	ScaleNonUniform ScalingMode = iota
	ScaleUniformXZ
	ScaleUniform
)

// BuiltShape is the Collision Shape Builder's output: a reference-
// counted root shape and the scaling mode derived from its leaves. The
// shape carries no applied world scale; that is layered per-instance
// by ScaledShape.
type BuiltShape struct {
	Root  solver.Shape
	Mode  ScalingMode
	empty bool
}

// BuildShape walks colliders and composes them into a single shape
// tree: a bare primitive, a rotate+translate wrapper around one
// offset primitive, or a static compound around two or more. When
// allowConcave is false, mesh and height-field colliders are skipped.
// Returns ok=false if no collider remains (the "empty shape" error
// case, §7).
func BuildShape(s solver.Solver, colliders []Collider, allowConcave bool) (BuiltShape, bool) {
	if !allowConcave {
		convex := make([]Collider, 0, len(colliders))
		for _, c := range colliders {
			if c.Kind != ColliderMesh && c.Kind != ColliderHeightField {
				convex = append(convex, c)
			}
		}
		colliders = convex
	}
	if len(colliders) == 0 {
		return BuiltShape{empty: true}, false
	}

	mode := deriveScalingMode(colliders)

	leaves := make([]solver.Shape, len(colliders))
	for i, c := range colliders {
		leaves[i] = buildLeaf(s, c, allowConcave)
	}

	if len(leaves) == 1 {
		c := colliders[0]
		if c.hasOffset() {
			return BuiltShape{Root: s.NewRotatedTranslated(leaves[0], c.Pos, c.Rot), Mode: mode}, true
		}
		return BuiltShape{Root: leaves[0], Mode: mode}, true
	}

	parts := make([]solver.CompoundPart, len(leaves))
	for i, leaf := range leaves {
		parts[i] = solver.CompoundPart{Shape: leaf, Position: colliders[i].Pos, Rotation: colliders[i].Rot}
	}
	return BuiltShape{Root: s.NewStaticCompound(parts), Mode: mode}, true
}

func buildLeaf(s solver.Solver, c Collider, allowConcave bool) solver.Shape {
	switch c.Kind {
	case ColliderSphere:
		return s.NewSphere(c.Radius)
	case ColliderBox:
		return s.NewBox(c.HalfExtents)
	case ColliderCylinder:
		return s.NewCylinder(c.HalfHeight, c.Radius)
	case ColliderCapsule:
		return s.NewCapsule(c.HalfHeight, c.Radius)
	case ColliderConvexHull:
		return s.NewConvexHull(c.Points)
	case ColliderMesh, ColliderHeightField:
		_ = allowConcave // concave permission already applied by the caller filtering colliders
		return s.NewStaticCompound(c.MeshParts)
	default:
		return s.NewConvexHull(nil)
	}
}

// deriveScalingMode computes the Scaling Mode per §4.1: start at
// non-uniform, mesh/sphere/capsule forces uniform, an axis-aligned
// cylinder permits uniform-XZ, a rotated cylinder forces uniform.
func deriveScalingMode(colliders []Collider) ScalingMode {
	mode := ScaleNonUniform
	for _, c := range colliders {
		switch c.Kind {
		case ColliderMesh, ColliderHeightField, ColliderSphere, ColliderCapsule:
			return ScaleUniform
		case ColliderCylinder:
			if !c.Rot.IsIdentity() {
				return ScaleUniform
			}
			if mode == ScaleNonUniform {
				mode = ScaleUniformXZ
			}
		}
	}
	return mode
}

// ScaledShape derives a per-instance scaled shape from a base shape
// and its scaling mode, degrading the requested scale to the nearest
// legal value and logging a warning when the request is illegal for
// the mode (§4.1 "Scaled shape derivation", §7 "Illegal scaling").
func ScaledShape(s solver.Solver, base solver.Shape, mode ScalingMode, scale geom.Vec3, log *slog.Logger) solver.Shape {
	if log == nil {
		log = slog.Default()
	}
	if scale == (geom.Vec3{X: 1, Y: 1, Z: 1}) {
		return base
	}
	if mode == ScaleNonUniform || scale.Uniform() {
		return s.NewScaled(base, scale)
	}
	if mode == ScaleUniformXZ {
		if scale.X != scale.Z {
			log.Warn("physx: non-uniform XZ scale on a cylinder-constrained shape, collapsing to max(Sx,Sz)",
				"sx", scale.X, "sz", scale.Z)
		}
		m := math.Max(scale.X, scale.Z)
		return s.NewScaled(base, geom.Vec3{X: m, Y: scale.Y, Z: m})
	}
	m := math.Max(scale.X, math.Max(scale.Y, scale.Z))
	log.Warn("physx: non-uniform scale on a uniform-only shape, collapsing to max axis", "scale", scale, "collapsed", m)
	return s.NewScaled(base, geom.Vec3{X: m, Y: m, Z: m})
}
