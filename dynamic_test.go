// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"testing"

	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

func TestQueuedImpulseAppliesOnNextApplyMessages(t *testing.T) {
	w, fs := newTestWorld()
	owner := newTestObject()
	owner.dynamic = true
	d, ok := w.NewDynamic(owner, 1, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	if !ok {
		t.Fatal("NewDynamic failed")
	}
	w.drainDeferred()

	d.AddImpulse(geom.Vec3{X: 5})
	if len(w.messages) != 1 {
		t.Fatalf("expected one queued message, got %d", len(w.messages))
	}

	w.applyMessages()

	body := fs.bodies[d.Handle().solverID()]
	if body.vel.X != 5 {
		t.Fatalf("expected impulse applied, got velocity %v", body.vel)
	}
	if len(w.messages) != 0 {
		t.Fatal("expected message queue cleared after apply")
	}
}

func TestApplyMessagesSkipsKinematicTargets(t *testing.T) {
	w, fs := newTestWorld()
	owner := newTestObject()
	d, _ := w.NewDynamic(owner, 1, sphereCollider(0.5), 0, solver.Material{}, true, 0)
	w.drainDeferred()

	d.AddForce(geom.Vec3{X: 1})
	w.applyMessages()

	body := fs.bodies[d.Handle().solverID()]
	if body.vel != (geom.Vec3{}) {
		t.Fatalf("expected kinematic target to ignore queued force, got %v", body.vel)
	}
}

func TestSetKinematicLocksOwnerTransform(t *testing.T) {
	w, _ := newTestWorld()
	owner := newTestObject()
	d, _ := w.NewDynamic(owner, 1, sphereCollider(0.5), 0, solver.Material{}, false, 0)

	d.SetKinematic(true)
	if owner.locked {
		t.Fatal("expected owner transform unlocked while kinematic")
	}
	if !w.kinematic.has(d.Handle()) {
		t.Fatal("expected body in kinematic set")
	}

	d.SetKinematic(false)
	if !owner.locked {
		t.Fatal("expected owner transform locked once solver-driven")
	}
	if w.kinematic.has(d.Handle()) {
		t.Fatal("expected body removed from kinematic set")
	}
}

func TestSetGravityFactorAppliesToSolver(t *testing.T) {
	w, fs := newTestWorld()
	owner := newTestObject()
	d, _ := w.NewDynamic(owner, 1, sphereCollider(0.5), 0, solver.Material{}, false, 0)

	d.SetGravityFactor(0.25)

	body := fs.bodies[d.Handle().solverID()]
	if body.gravityFac != 0.25 {
		t.Fatalf("expected gravity factor 0.25, got %v", body.gravityFac)
	}
}
