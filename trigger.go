// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import "github.com/greywind-games/physx/solver"

// Trigger is a sensor body component: motion=Kinematic (so contacts
// stay alive across sleep), sensor flag set, any shape kind; if the
// owner's transform can change at runtime it also joins the
// Movable-Triggers set (§4.2 "Trigger"), grounded on
// original_source/.../TriggerComponent.cpp.
type Trigger struct {
	world  *World
	record *BodyRecord
}

// NewTrigger composes colliders (concave permitted, a sensor never
// drives solver-level response) and queues the body for the next
// tick's activate-list add.
func (w *World) NewTrigger(owner GameObject, ownerHandle ComponentHandle, colliders []Collider, layer uint8) (*Trigger, bool) {
	built, ok := BuildShape(w.solver, colliders, true)
	if !ok {
		return nil, false
	}
	flags := BodyFlags{AllowSleep: false}
	rec, ok := w.beginBody(owner, ownerHandle, ComponentTrigger, built, colliders, solver.MotionKinematic, layer, ClassTrigger, solver.Material{}, flags, true)
	if !ok {
		return nil, false
	}
	if owner.IsDynamic() {
		w.movableTriggers.insert(rec.Handle)
	}
	return &Trigger{world: w, record: rec}, true
}

// EndPlay tears the body down per the common end-play contract.
func (t *Trigger) EndPlay() { t.world.endBody(t.record) }

// Handle returns the body's handle, InvalidHandle if torn down.
func (t *Trigger) Handle() BodyHandle {
	if t.record.State == StateDead {
		return InvalidHandle
	}
	return t.record.Handle
}
