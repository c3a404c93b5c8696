// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import "github.com/greywind-games/physx/solver"

// RegisterTicks hooks the Tick Pipeline into both scheduler groups:
// PhysicsUpdate (steps 1-10) and PostTransform (steps 11-13), both
// with "tick even when paused" set so a paused PhysicsUpdate still
// drains the deferred queue and checks the pause flag itself (§4.6),
// grounded on original_source/.../PhysicsInterface::Initialize and
// gazed-vu/eng.go's fixed-step Action loop.
func (w *World) RegisterTicks(sched TickScheduler) {
	sched.Register(GroupPhysicsUpdate, true, w.physicsUpdate)
	sched.Register(GroupPostTransform, true, w.postTransform)
}

// physicsUpdate runs PhysicsUpdate steps 1-10 of §4.6.
func (w *World) physicsUpdate(state TickState) {
	w.drainDeferred() // step 1

	if state.IsPaused { // step 2
		return
	}

	w.updateCharacters(state.FixedTimeStep, w.solver.Gravity(), state.FixedFrameNum) // step 3

	w.rebuildDynamicScaling()                  // step 4
	w.syncMovableTriggers()                    // step 5
	w.moveKinematicBodies(state.FixedTimeStep) // step 6
	w.applyMessages()                          // step 7
	w.applyWaterBuoyancy(state.FixedTimeStep)  // step 8

	w.solver.Step(state.FixedTimeStep, 1) // step 9

	w.captureTransforms() // step 10
}

// postTransform runs PostTransform steps 11-13 of §4.6.
func (w *World) postTransform(state TickState) {
	w.drainTriggerEvents() // step 11
	w.drainContactEvents() // step 12
	// step 13 (clearing) happens inside drainContactEvents
}

// rebuildDynamicScaling implements step 4: for each body in the
// Dynamic-Scaling set, rebuild a scaled wrapper if the owner's world
// scale changed, install it without a mass-properties recompute, and
// reactivate.
func (w *World) rebuildDynamicScaling() {
	for _, h := range w.dynamicScaling.items {
		rec, ok := w.lookup(h)
		if !ok {
			continue
		}
		scale := rec.Object.Scale()
		if scale == rec.WorldScale {
			continue
		}
		rec.WorldScale = scale
		scaled := ScaledShape(w.solver, rec.Shape, rec.ShapeMode, scale, w.log)
		w.solver.SetShape(h.solverID(), scaled, false, solver.Activate)
	}
}

// syncMovableTriggers implements step 5: copy each movable trigger's
// owner transform into its body.
func (w *World) syncMovableTriggers() {
	for _, h := range w.movableTriggers.items {
		rec, ok := w.lookup(h)
		if !ok {
			continue
		}
		w.solver.SetPositionAndRotation(h.solverID(), rec.Object.Position(), rec.Object.Rotation(), solver.Activate)
	}
}

// moveKinematicBodies implements step 6: issue a kinematic move with
// the owner's target transform and the fixed dt for every kinematic
// body.
func (w *World) moveKinematicBodies(dt float64) {
	for _, h := range w.kinematic.items {
		rec, ok := w.lookup(h)
		if !ok {
			continue
		}
		w.solver.MoveKinematic(h.solverID(), rec.Object.Position(), rec.Object.Rotation(), dt)
	}
}

// captureTransforms implements step 10: write solver-owned positions
// back into the owning game objects for every active dynamic body and
// every body that deactivated this tick, then clear the
// just-deactivated set.
func (w *World) captureTransforms() {
	for _, h := range w.active.items {
		rec, ok := w.lookup(h)
		if !ok || rec.Motion != solver.MotionDynamic {
			continue
		}
		pos, rot := w.solver.GetPositionAndRotation(h.solverID())
		rec.Object.SetTransform(pos, rot)
	}
	for _, h := range w.justDeactivated.items {
		rec, ok := w.lookup(h)
		if !ok {
			continue
		}
		pos, rot := w.solver.GetPositionAndRotation(h.solverID())
		rec.Object.SetTransform(pos, rot)
	}
	w.justDeactivated.clear()
}
