// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// WaterVolume is a supplemental component, not in the distilled data
// model but implied by tick step 8 and scenario (f): a thin AABB-only
// volume that owns no solver body, grounded on
// original_source/.../Components/WaterVolumeComponent.h.
type WaterVolume struct {
	Object      GameObject
	HalfExtents geom.Vec3
	Layer       uint8
	torn        bool
}

// NewWaterVolume registers a water volume for the next tick's water
// pass (§4.6 step 8). Volumes own no solver body; there is nothing to
// defer-add.
func (w *World) NewWaterVolume(owner GameObject, halfExtents geom.Vec3, layer uint8) *WaterVolume {
	v := &WaterVolume{Object: owner, HalfExtents: halfExtents, Layer: layer}
	w.waters = append(w.waters, v)
	return v
}

// EndPlay removes the volume from the world's water list.
func (v *WaterVolume) EndPlay(w *World) {
	if v.torn {
		return
	}
	v.torn = true
	for i, other := range w.waters {
		if other == v {
			w.waters = append(w.waters[:i], w.waters[i+1:]...)
			return
		}
	}
}

// degenerate reports whether the volume's half-extents are too small
// to form a usable AABB, the "filter/config inconsistency" error case
// (§7 error 5): such a volume is skipped for the tick rather than
// treated as an error.
func (v *WaterVolume) degenerate() bool {
	const epsilon = 1e-6
	return v.HalfExtents.X <= epsilon || v.HalfExtents.Y <= epsilon || v.HalfExtents.Z <= epsilon
}

// worldAABB returns the volume's axis-aligned bounds in world space,
// assuming an unrotated box (matching the original's water-volume
// semantics: surface is always the top face with +Y normal).
func (v *WaterVolume) worldAABB() (min, max geom.Vec3) {
	c := v.Object.Position()
	return c.Sub(v.HalfExtents), c.Add(v.HalfExtents)
}

// surface returns the world-space point on the volume's top face
// directly above center, and the +Y surface normal.
func (v *WaterVolume) surface() (pos, normal geom.Vec3) {
	c := v.Object.Position()
	return geom.Vec3{X: c.X, Y: c.Y + v.HalfExtents.Y, Z: c.Z}, geom.Vec3{Y: 1}
}

// applyWaterBuoyancy implements §4.6 step 8: for every non-degenerate
// water volume, collide its world AABB against the Dynamic broadphase
// layer under the volume's object-layer filter, then apply the
// solver's buoyancy impulse to every active dynamic body hit.
func (w *World) applyWaterBuoyancy(dt float64) {
	gravity := w.solver.Gravity()
	for _, v := range w.waters {
		if v.degenerate() {
			w.log.Warn("physx: water volume has a degenerate half-extent, skipping this tick")
			continue
		}
		min, max := v.worldAABB()
		objectLayerMask := uint32(1) << v.Layer
		hits := w.solver.CollideAABox(min, max, solver.Bit(solver.BroadphaseDynamic), objectLayerMask)
		surfacePos, surfaceNormal := v.surface()
		for _, id := range hits {
			h := w.resolveBySolverID(id)
			rec, ok := w.lookup(h)
			if !ok || rec.Motion != solver.MotionDynamic || !w.active.has(h) {
				continue
			}
			w.solver.ApplyBuoyancyImpulse(id, surfacePos, surfaceNormal,
				w.config.FluidDensity, w.config.LinearDrag, w.config.AngularDrag,
				geom.Vec3{}, gravity, dt)
		}
	}
}
