// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// dynamicMessageKind tags a Dynamic Body Message variant (§3).
type dynamicMessageKind int

const (
	msgAddForce dynamicMessageKind = iota
	msgAddForceAtPosition
	msgAddTorque
	msgAddForceAndTorque
	msgAddImpulse
	msgAddImpulseAtPosition
	msgAddAngularImpulse
)

// dynamicMessage is one queued force/impulse application, carrying up
// to two vector payloads and the target body's handle. Applied in
// tick.go step 7, never immediately.
type dynamicMessage struct {
	kind   dynamicMessageKind
	target BodyHandle
	v1, v2 geom.Vec3
}

// Dynamic is a solver-driven or kinematic body component: motion is
// Dynamic or Kinematic, shape must be convex-only (§4.2 "Dynamic
// body"), grounded on original_source/.../DynamicBodyComponent.cpp and
// gazed-vu/body.go's body manager.
type Dynamic struct {
	world  *World
	record *BodyRecord
}

// NewDynamic composes a convex-only shape and queues the body for the
// next tick's activate-list add. massOverride is stored on the record
// as MassOverride only: it is not placed in the body-creation
// descriptor, so the solver derives both mass and inertia from the
// shape whatever its value.
func (w *World) NewDynamic(owner GameObject, ownerHandle ComponentHandle, colliders []Collider, layer uint8, mat solver.Material, kinematic bool, massOverride float64) (*Dynamic, bool) {
	built, ok := BuildShape(w.solver, colliders, false)
	if !ok {
		return nil, false
	}
	motion := solver.MotionDynamic
	if kinematic {
		motion = solver.MotionKinematic
	}
	flags := BodyFlags{AllowSleep: true, DispatchContactEvents: true, CanPushCharacter: true}
	rec, ok := w.beginBody(owner, ownerHandle, ComponentDynamic, built, colliders, motion, layer, ClassDynamic, mat, flags, true)
	if !ok {
		return nil, false
	}
	rec.MassOverride = massOverride
	if kinematic {
		w.kinematic.insert(rec.Handle)
	}
	return &Dynamic{world: w, record: rec}, true
}

// EndPlay tears the body down per the common end-play contract.
func (d *Dynamic) EndPlay() { d.world.endBody(d.record) }

// Handle returns the body's handle, InvalidHandle if torn down.
func (d *Dynamic) Handle() BodyHandle {
	if d.record.State == StateDead {
		return InvalidHandle
	}
	return d.record.Handle
}

// SetKinematic switches the body's motion type and Kinematic
// ancillary-set membership, and locks/unlocks the owner's world
// transform accordingly: dynamic bodies are driven by the solver,
// kinematic bodies by gameplay (§4.2).
func (d *Dynamic) SetKinematic(b bool) {
	if b {
		d.record.Motion = solver.MotionKinematic
		d.world.kinematic.insert(d.record.Handle)
		d.record.Object.SetTransformLocked(false)
	} else {
		d.record.Motion = solver.MotionDynamic
		d.world.kinematic.remove(d.record.Handle)
		d.record.Object.SetTransformLocked(true)
	}
}

// SetDynamicScaling toggles membership in the Dynamic-Scaling
// ancillary set, which the tick pipeline watches for world-scale
// changes each step (§4.6 step 4).
func (d *Dynamic) SetDynamicScaling(b bool) {
	d.record.Flags.DynamicScaling = b
	if b {
		d.world.dynamicScaling.insert(d.record.Handle)
	} else {
		d.world.dynamicScaling.remove(d.record.Handle)
	}
}

// SetCanPushCharacter toggles whether contacts between this body and a
// Character Controller report canPushCharacter=true to the character's
// contact listener (§4.5 "Character-body listener").
func (d *Dynamic) SetCanPushCharacter(b bool) {
	d.record.Flags.CanPushCharacter = b
}

// SetGravityFactor mutates the body's gravity scale at runtime.
func (d *Dynamic) SetGravityFactor(factor float64) {
	d.record.GravityFactor = factor
	d.world.solver.SetGravityFactor(d.record.Handle.solverID(), factor)
}

func (w *World) queue(kind dynamicMessageKind, target BodyHandle, v1, v2 geom.Vec3) {
	w.messages = append(w.messages, dynamicMessage{kind: kind, target: target, v1: v1, v2: v2})
}

// AddForce queues a continuous force, applied at the body's center of
// mass in the next tick's step 7.
func (d *Dynamic) AddForce(force geom.Vec3) {
	d.world.queue(msgAddForce, d.record.Handle, force, geom.Vec3{})
}

// AddForceAtPosition queues a continuous force applied at a world
// position.
func (d *Dynamic) AddForceAtPosition(force, pos geom.Vec3) {
	d.world.queue(msgAddForceAtPosition, d.record.Handle, force, pos)
}

// AddTorque queues a continuous torque.
func (d *Dynamic) AddTorque(torque geom.Vec3) {
	d.world.queue(msgAddTorque, d.record.Handle, torque, geom.Vec3{})
}

// AddForceAndTorque queues both in one message.
func (d *Dynamic) AddForceAndTorque(force, torque geom.Vec3) {
	d.world.queue(msgAddForceAndTorque, d.record.Handle, force, torque)
}

// AddImpulse queues an instantaneous linear impulse at the center of mass.
func (d *Dynamic) AddImpulse(impulse geom.Vec3) {
	d.world.queue(msgAddImpulse, d.record.Handle, impulse, geom.Vec3{})
}

// AddImpulseAtPosition queues an instantaneous linear impulse at a
// world position.
func (d *Dynamic) AddImpulseAtPosition(impulse, pos geom.Vec3) {
	d.world.queue(msgAddImpulseAtPosition, d.record.Handle, impulse, pos)
}

// AddAngularImpulse queues an instantaneous angular impulse.
func (d *Dynamic) AddAngularImpulse(impulse geom.Vec3) {
	d.world.queue(msgAddAngularImpulse, d.record.Handle, impulse, geom.Vec3{})
}

// applyMessages drains the Dynamic Body Message Queue: resolve the
// target, skip kinematic or invalid bodies, apply the corresponding
// solver call, then clear the queue (§4.6 step 7).
func (w *World) applyMessages() {
	for _, m := range w.messages {
		rec, ok := w.lookup(m.target)
		if !ok || rec.Motion == solver.MotionKinematic {
			continue
		}
		id := rec.Handle.solverID()
		switch m.kind {
		case msgAddForce:
			w.solver.AddForce(id, m.v1)
		case msgAddForceAtPosition:
			w.solver.AddForceAtPosition(id, m.v1, m.v2)
		case msgAddTorque:
			w.solver.AddTorque(id, m.v1)
		case msgAddForceAndTorque:
			w.solver.AddForceAndTorque(id, m.v1, m.v2)
		case msgAddImpulse:
			w.solver.AddImpulse(id, m.v1)
		case msgAddImpulseAtPosition:
			w.solver.AddImpulseAtPosition(id, m.v1, m.v2)
		case msgAddAngularImpulse:
			w.solver.AddAngularImpulse(id, m.v1)
		}
	}
	w.messages = w.messages[:0]
}
