// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"math"

	"github.com/greywind-games/physx/geom"
)

// Tessellation constants, fixed regardless of shape size (§4.8).
const (
	sphereSlices   = 8
	sphereStacks   = 12
	cylinderSlices = 8
	capsuleSlices  = 6
	capsuleStacks  = 8
)

// Triangle is one wireframe triangle pushed to the Debug Renderer
// collaborator.
type Triangle struct{ A, B, C geom.Vec3 }

// DebugRenderer is the external debug-draw rendering backend (§1
// out-of-scope collaborators, §4.8 sink).
type DebugRenderer interface {
	DrawTriangles(tris []Triangle)
}

// GatherWorld walks every live body whose kind's console variable is
// enabled and pushes its collision geometry to sink (§4.8). Called
// once per PostTransform tick by the owning application, not by the
// Tick Pipeline itself (debug drawing is not part of the fixed-step
// contract).
func (w *World) GatherWorld(sink DebugRenderer) {
	if sink == nil {
		return
	}
	for _, rec := range w.records {
		if !rec.Live() {
			continue
		}
		if !w.shouldDraw(rec) {
			continue
		}
		pos, rot := rec.Object.Position(), rec.Object.Rotation()
		tris := gatherColliders(rec.Colliders, pos, rot, rec.WorldScale)
		if len(tris) > 0 {
			sink.DrawTriangles(tris)
		}
	}
}

func (w *World) shouldDraw(rec *BodyRecord) bool {
	switch rec.ObjectType {
	case ComponentTrigger:
		return w.config.DrawTriggers
	case ComponentHeightField:
		return w.config.DrawCollisionModel
	default:
		return w.config.DrawCollisionShape || w.config.DrawCollisionModel
	}
}

// gatherColliders emits a triangle soup for each collider leaf, placed
// at the owner's world position plus the collider's local position
// scaled by the current instance scale. Rotations are not applied:
// neither the owner's world rotation (rot) nor a collider's local Rot
// affects the emitted triangles, so every shape is drawn axis-aligned.
func gatherColliders(colliders []Collider, pos geom.Vec3, rot geom.Quat, scale geom.Vec3) []Triangle {
	var tris []Triangle
	for _, c := range colliders {
		local := c.Pos.Mul(scale)
		origin := pos.Add(local)
		switch c.Kind {
		case ColliderSphere:
			tris = append(tris, sphereTriangles(origin, c.Radius*avgAxis(scale))...)
		case ColliderBox:
			tris = append(tris, boxTriangles(origin, c.HalfExtents.Mul(scale))...)
		case ColliderCylinder:
			tris = append(tris, cylinderTriangles(origin, c.HalfHeight*scale.Y, c.Radius*avgAxis(scale))...)
		case ColliderCapsule:
			tris = append(tris, capsuleTriangles(origin, c.HalfHeight*scale.Y, c.Radius*avgAxis(scale))...)
		case ColliderConvexHull:
			tris = append(tris, hullTriangles(c.Points, origin, scale)...)
		case ColliderMesh:
			tris = append(tris, meshTriangles(c.MeshVertices, c.MeshIndices, origin, scale)...)
		case ColliderHeightField:
			tris = append(tris, heightFieldTriangles(origin, c.CropMin, c.CropMax, scale)...)
		}
	}
	return tris
}

func avgAxis(s geom.Vec3) float64 { return (s.X + s.Y + s.Z) / 3 }

// sphereTriangles tessellates a UV sphere at 8x12 (slices x stacks),
// scaled by radius.
func sphereTriangles(center geom.Vec3, radius float64) []Triangle {
	var tris []Triangle
	ring := func(stack, slice int) geom.Vec3 {
		phi := math.Pi * float64(stack) / sphereStacks
		theta := 2 * math.Pi * float64(slice) / sphereSlices
		return geom.Vec3{
			X: center.X + radius*math.Sin(phi)*math.Cos(theta),
			Y: center.Y + radius*math.Cos(phi),
			Z: center.Z + radius*math.Sin(phi)*math.Sin(theta),
		}
	}
	for stack := 0; stack < sphereStacks; stack++ {
		for slice := 0; slice < sphereSlices; slice++ {
			a := ring(stack, slice)
			b := ring(stack, slice+1)
			c := ring(stack+1, slice)
			d := ring(stack+1, slice+1)
			tris = append(tris, Triangle{a, b, c}, Triangle{b, d, c})
		}
	}
	return tris
}

// boxTriangles emits the 12 triangles of an axis-aligned box.
func boxTriangles(center, halfExtents geom.Vec3) []Triangle {
	h := halfExtents
	corners := [8]geom.Vec3{
		{center.X - h.X, center.Y - h.Y, center.Z - h.Z},
		{center.X + h.X, center.Y - h.Y, center.Z - h.Z},
		{center.X + h.X, center.Y + h.Y, center.Z - h.Z},
		{center.X - h.X, center.Y + h.Y, center.Z - h.Z},
		{center.X - h.X, center.Y - h.Y, center.Z + h.Z},
		{center.X + h.X, center.Y - h.Y, center.Z + h.Z},
		{center.X + h.X, center.Y + h.Y, center.Z + h.Z},
		{center.X - h.X, center.Y + h.Y, center.Z + h.Z},
	}
	faces := [6][4]int{
		{0, 1, 2, 3}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{2, 3, 7, 6}, {1, 2, 6, 5}, {0, 3, 7, 4},
	}
	var tris []Triangle
	for _, f := range faces {
		a, b, c, d := corners[f[0]], corners[f[1]], corners[f[2]], corners[f[3]]
		tris = append(tris, Triangle{a, b, c}, Triangle{a, c, d})
	}
	return tris
}

// cylinderTriangles tessellates a cylinder's side wall at 8 slices; no
// end caps are emitted.
func cylinderTriangles(center geom.Vec3, halfHeight, radius float64) []Triangle {
	var tris []Triangle
	point := func(slice int, top bool) geom.Vec3 {
		theta := 2 * math.Pi * float64(slice) / cylinderSlices
		y := -halfHeight
		if top {
			y = halfHeight
		}
		return geom.Vec3{X: center.X + radius*math.Cos(theta), Y: center.Y + y, Z: center.Z + radius*math.Sin(theta)}
	}
	for slice := 0; slice < cylinderSlices; slice++ {
		b0, b1 := point(slice, false), point(slice+1, false)
		t0, t1 := point(slice, true), point(slice+1, true)
		tris = append(tris, Triangle{b0, b1, t0}, Triangle{b1, t1, t0})
	}
	return tris
}

// capsuleTriangles tessellates a capsule's cylindrical body plus
// hemispherical caps at 6x8 subdivisions, scaled by radius.
func capsuleTriangles(center geom.Vec3, halfHeight, radius float64) []Triangle {
	var tris []Triangle
	tris = append(tris, cylinderTriangles(center, halfHeight, radius)...)
	top := geom.Vec3{X: center.X, Y: center.Y + halfHeight, Z: center.Z}
	bottom := geom.Vec3{X: center.X, Y: center.Y - halfHeight, Z: center.Z}
	for stack := 0; stack < capsuleStacks/2; stack++ {
		for slice := 0; slice < capsuleSlices; slice++ {
			phi0 := math.Pi / 2 * float64(stack) / (capsuleStacks / 2)
			phi1 := math.Pi / 2 * float64(stack+1) / (capsuleStacks / 2)
			theta0 := 2 * math.Pi * float64(slice) / capsuleSlices
			theta1 := 2 * math.Pi * float64(slice+1) / capsuleSlices
			hemi := func(phi, theta float64, apex geom.Vec3, up float64) geom.Vec3 {
				return geom.Vec3{
					X: apex.X + radius*math.Sin(phi)*math.Cos(theta),
					Y: apex.Y + up*radius*math.Cos(phi),
					Z: apex.Z + radius*math.Sin(phi)*math.Sin(theta),
				}
			}
			a := hemi(phi0, theta0, top, 1)
			b := hemi(phi0, theta1, top, 1)
			c := hemi(phi1, theta0, top, 1)
			d := hemi(phi1, theta1, top, 1)
			tris = append(tris, Triangle{a, b, c}, Triangle{b, d, c})
			a, b, c, d = hemi(phi0, theta0, bottom, -1), hemi(phi0, theta1, bottom, -1), hemi(phi1, theta0, bottom, -1), hemi(phi1, theta1, bottom, -1)
			tris = append(tris, Triangle{a, c, b}, Triangle{b, c, d})
		}
	}
	return tris
}

// hullTriangles fans a convex hull's points into triangles around the
// first vertex, a cheap approximation adequate for wireframe debug
// drawing (an exact hull face list is solver-internal state this
// layer never inspects).
func hullTriangles(points []geom.Vec3, origin geom.Vec3, scale geom.Vec3) []Triangle {
	if len(points) < 3 {
		return nil
	}
	p := make([]geom.Vec3, len(points))
	for i, v := range points {
		p[i] = origin.Add(v.Mul(scale))
	}
	var tris []Triangle
	for i := 2; i < len(p); i++ {
		tris = append(tris, Triangle{p[0], p[i-1], p[i]})
	}
	return tris
}

// meshTriangles walks a mesh collider's raw triangle soup (the
// vertex/index pair retained alongside its opaque, already-built
// MeshParts, the same way a convex hull keeps Points around for this
// gatherer) and emits one Triangle per index triple, the flat-array
// equivalent of the original's quad-tree/SOA-triangle walk.
func meshTriangles(verts []geom.Vec3, indices []int32, origin, scale geom.Vec3) []Triangle {
	var tris []Triangle
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(verts) || int(b) >= len(verts) || int(c) >= len(verts) {
			continue
		}
		tris = append(tris, Triangle{
			origin.Add(verts[a].Mul(scale)),
			origin.Add(verts[b].Mul(scale)),
			origin.Add(verts[c].Mul(scale)),
		})
	}
	return tris
}

// heightFieldTriangles draws a height field's cropped debug bound as a
// box rather than walking the full field (§4.2 "Height field", §4.8),
// reusing boxTriangles with the crop box's center/half-extents.
func heightFieldTriangles(origin, cropMin, cropMax, scale geom.Vec3) []Triangle {
	center := cropMin.Add(cropMax).Scale(0.5)
	half := cropMax.Sub(cropMin).Scale(0.5)
	return boxTriangles(origin.Add(center.Mul(scale)), half.Mul(scale))
}
