// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"sort"

	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// QueryFilter narrows a cast/overlap query to a broadphase mask and
// object-layer mask, with optional back-face/normal/sort flags (§4.7).
type QueryFilter = solver.QueryFilter

// RayHit is one ray or shape cast result (§4.7 "Shape-cast result").
type RayHit struct {
	Body     BodyHandle
	P1, P2   geom.Vec3
	Axis     geom.Vec3
	Depth    float64
	Fraction float64
	BackFace bool
}

func (w *World) toHit(h solver.CastHit) RayHit {
	return RayHit{
		Body:     w.resolveBySolverID(h.Body),
		P1:       h.P1,
		P2:       h.P2,
		Axis:     h.Axis,
		Depth:    h.Depth,
		Fraction: h.Fraction,
		BackFace: h.BackFace,
	}
}

// CastRayClosest returns the closest ray hit, if any.
func (w *World) CastRayClosest(origin, direction geom.Vec3, f QueryFilter) (RayHit, bool) {
	hit, ok := w.solver.CastRayClosest(solver.RayCastInput{Origin: origin, Direction: direction}, f)
	if !ok {
		return RayHit{}, false
	}
	return w.toHit(hit), true
}

// CastRayAll returns every ray hit, optionally sorted by fraction per
// the filter.
func (w *World) CastRayAll(origin, direction geom.Vec3, f QueryFilter) []RayHit {
	hits := w.solver.CastRayAll(solver.RayCastInput{Origin: origin, Direction: direction}, f)
	out := make([]RayHit, len(hits))
	for i, h := range hits {
		out[i] = w.toHit(h)
	}
	if f.SortByDistance {
		sort.Slice(out, func(i, j int) bool { return out[i].Fraction < out[j].Fraction })
	}
	return out
}

// ShapeCastInput mirrors solver.ShapeCastInput with a physx Shape
// reference for the caller's convenience.
type ShapeCastInput struct {
	Shape     solver.Shape
	Start     geom.Vec3
	Rotation  geom.Quat
	Direction geom.Vec3
}

// CastShapeClosest sweeps a synthetic shape (box, sphere, capsule, or
// cylinder, with or without rotation) and returns the closest hit.
func (w *World) CastShapeClosest(in ShapeCastInput, f QueryFilter) (RayHit, bool) {
	hit, ok := w.solver.CastShapeClosest(solver.ShapeCastInput{
		Shape: in.Shape, Start: in.Start, Rotation: in.Rotation, Direction: in.Direction,
	}, f)
	if !ok {
		return RayHit{}, false
	}
	return w.toHit(hit), true
}

// CastShapeAll sweeps a synthetic shape and returns every hit.
func (w *World) CastShapeAll(in ShapeCastInput, f QueryFilter) []RayHit {
	hits := w.solver.CastShapeAll(solver.ShapeCastInput{
		Shape: in.Shape, Start: in.Start, Rotation: in.Rotation, Direction: in.Direction,
	}, f)
	out := make([]RayHit, len(hits))
	for i, h := range hits {
		out[i] = w.toHit(h)
	}
	return out
}

// OverlapShape returns every body handle whose shape overlaps the
// given synthetic shape at pos/rot.
func (w *World) OverlapShape(shape solver.Shape, pos geom.Vec3, rot geom.Quat, f QueryFilter) []BodyHandle {
	ids := w.solver.OverlapShape(shape, pos, rot, f)
	out := make([]BodyHandle, 0, len(ids))
	for _, id := range ids {
		if h := w.resolveBySolverID(id); h != InvalidHandle {
			out = append(out, h)
		}
	}
	return out
}

// OverlapAABox returns every body handle whose broadphase bounds
// overlap the given world-space box, restricted to mask/layerMask.
func (w *World) OverlapAABox(min, max geom.Vec3, mask solver.BroadphaseMask, layerMask uint32) []BodyHandle {
	ids := w.solver.CollideAABox(min, max, mask, layerMask)
	out := make([]BodyHandle, 0, len(ids))
	for _, id := range ids {
		if h := w.resolveBySolverID(id); h != InvalidHandle {
			out = append(out, h)
		}
	}
	return out
}
