// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"testing"

	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

func TestCanonicalKeyIsOrderSymmetric(t *testing.T) {
	a, b := BodyHandle(1), BodyHandle(2)
	if canonicalKey(a, b) != canonicalKey(b, a) {
		t.Fatal("expected canonicalKey(a,b) == canonicalKey(b,a)")
	}
	c := BodyHandle(3)
	if canonicalKey(a, b) == canonicalKey(a, c) {
		t.Fatal("expected distinct pairs to produce distinct keys")
	}
}

func TestTriggerBeginAndEndOverlapDeduped(t *testing.T) {
	w, fs := newTestWorld()
	triggerOwner := newTestObject()
	bodyOwner := newTestObject()
	bodyOwner.dynamic = true

	trig, _ := w.NewTrigger(triggerOwner, 1, sphereCollider(1), 0)
	dyn, _ := w.NewDynamic(bodyOwner, 2, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	w.drainDeferred()

	m := solver.ContactManifold{}
	fs.contactListener.OnContactAdded(trig.Handle().solverID(), dyn.Handle().solverID(), m, &solver.ContactSettings{})
	// a second overlapping shape pair on the same body pair must not
	// re-emit begin-overlap (count goes 1->2, not 0->1)
	fs.contactListener.OnContactAdded(trig.Handle().solverID(), dyn.Handle().solverID(), m, &solver.ContactSettings{})

	w.drainTriggerEvents()
	if len(triggerOwner.beginOverlaps) != 1 {
		t.Fatalf("expected exactly one begin-overlap dispatch, got %d", len(triggerOwner.beginOverlaps))
	}

	fs.contactListener.OnContactRemoved(trig.Handle().solverID(), dyn.Handle().solverID())
	w.drainTriggerEvents()
	if len(triggerOwner.endOverlaps) != 0 {
		t.Fatal("expected no end-overlap yet, count should have dropped from 2 to 1")
	}

	fs.contactListener.OnContactRemoved(trig.Handle().solverID(), dyn.Handle().solverID())
	w.drainTriggerEvents()
	if len(triggerOwner.endOverlaps) != 1 {
		t.Fatalf("expected end-overlap once count reaches zero, got %d", len(triggerOwner.endOverlaps))
	}
}

func TestBodyContactDispatchesOnlyToFlaggedSides(t *testing.T) {
	w, fs := newTestWorld()
	ownerA := newTestObject()
	ownerA.dynamic = true
	ownerB := newTestObject()
	ownerB.dynamic = true

	a, _ := w.NewDynamic(ownerA, 1, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	// a static body never carries DispatchContactEvents
	b, _ := w.NewStatic(ownerB, 2, sphereCollider(0.5), 0, solver.Material{})
	w.drainDeferred()

	m := solver.ContactManifold{Normal: geom.Vec3{X: 1}, PointsOn1: oneZeroPoint(), PointsOn2: oneZeroPoint()}
	fs.contactListener.OnContactAdded(a.Handle().solverID(), b.Handle().solverID(), m, &solver.ContactSettings{})

	w.drainContactEvents()
	if len(ownerA.beginContacts) != 1 {
		t.Fatalf("expected dynamic side to receive begin-contact, got %d", len(ownerA.beginContacts))
	}
	if len(ownerB.beginContacts) != 0 {
		t.Fatal("expected static side (no DispatchContactEvents) to receive nothing")
	}
}

func TestBodyContactPersistedEmitsUpdateNotBegin(t *testing.T) {
	w, fs := newTestWorld()
	ownerA := newTestObject()
	ownerB := newTestObject()

	a, _ := w.NewDynamic(ownerA, 1, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	b, _ := w.NewDynamic(ownerB, 2, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	w.drainDeferred()

	m := solver.ContactManifold{PointsOn1: oneZeroPoint(), PointsOn2: oneZeroPoint()}
	fs.contactListener.OnContactAdded(a.Handle().solverID(), b.Handle().solverID(), m, &solver.ContactSettings{})
	fs.contactListener.OnContactPersisted(a.Handle().solverID(), b.Handle().solverID(), m, &solver.ContactSettings{})
	w.drainContactEvents()

	if len(ownerA.beginContacts) != 1 {
		t.Fatalf("expected exactly one begin-contact, got %d", len(ownerA.beginContacts))
	}
	if len(ownerA.updContacts) != 1 {
		t.Fatalf("expected exactly one update-contact, got %d", len(ownerA.updContacts))
	}
}

func TestDropBodyRemovesContactEntries(t *testing.T) {
	w, fs := newTestWorld()
	ownerA := newTestObject()
	ownerB := newTestObject()
	a, _ := w.NewDynamic(ownerA, 1, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	b, _ := w.NewDynamic(ownerB, 2, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	w.drainDeferred()

	m := solver.ContactManifold{}
	fs.contactListener.OnContactAdded(a.Handle().solverID(), b.Handle().solverID(), m, &solver.ContactSettings{})

	key := canonicalKey(a.Handle(), b.Handle())
	if _, ok := w.contacts.bodies[key]; !ok {
		t.Fatal("expected contact entry to exist before end-play")
	}

	a.EndPlay()
	if _, ok := w.contacts.bodies[key]; ok {
		t.Fatal("expected dropBody to remove the contact entry on end-play")
	}
}

func oneZeroPoint() []geom.Vec3 { return make([]geom.Vec3, 1) }
