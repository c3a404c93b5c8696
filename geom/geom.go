// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package geom holds the small set of math primitives the physics
// integration layer needs to move values across the game-object/solver
// boundary. Full vector/matrix/quaternion libraries are a different
// subsystem; this package stays intentionally thin.
package geom

import "math"

// Vec3 is a 3 element vector used for positions, scales and forces.
type Vec3 struct{ X, Y, Z float64 }

// Zero reports whether every component of v is zero.
func (v Vec3) Zero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v scaled uniformly by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Uniform reports whether all three axes carry the same value.
func (v Vec3) Uniform() bool { return v.X == v.Y && v.Y == v.Z }

// Quat is a unit quaternion rotation. The identity is {0,0,0,1} (see
// Identity); the zero value is not the identity.
type Quat struct{ X, Y, Z, W float64 }

// Identity returns the zero-rotation quaternion.
func Identity() Quat { return Quat{0, 0, 0, 1} }

// IsIdentity reports whether q is the identity rotation.
func (q Quat) IsIdentity() bool { return q == Identity() }

// Transform is a world position + orientation pair, the data a game
// object exposes to the physics layer and the solver hands back after
// each step.
type Transform struct {
	Pos Vec3
	Rot Quat
}
