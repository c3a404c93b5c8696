// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import "github.com/greywind-games/physx/solver"

// Static is a non-moving, non-sensor body component: motion=Static,
// convex or concave shape allowed, added to the solver in the
// sleeping list (§4.2 "Static body"), grounded on
// original_source/.../Components/StaticBodyComponent.cpp.
type Static struct {
	world  *World
	record *BodyRecord
}

// NewStatic composes colliders (concave shapes permitted) and queues
// the body for the next tick's sleeping-list add.
func (w *World) NewStatic(owner GameObject, ownerHandle ComponentHandle, colliders []Collider, layer uint8, mat solver.Material) (*Static, bool) {
	built, ok := BuildShape(w.solver, colliders, true)
	if !ok {
		return nil, false
	}
	rec, ok := w.beginBody(owner, ownerHandle, ComponentStatic, built, colliders, solver.MotionStatic, layer, ClassStatic, mat, BodyFlags{AllowSleep: true, CanPushCharacter: true}, false)
	if !ok {
		return nil, false
	}
	return &Static{world: w, record: rec}, true
}

// EndPlay tears the body down per the common end-play contract.
func (s *Static) EndPlay() { s.world.endBody(s.record) }

// Handle returns the body's handle, InvalidHandle if torn down.
func (s *Static) Handle() BodyHandle {
	if s.record.State == StateDead {
		return InvalidHandle
	}
	return s.record.Handle
}
