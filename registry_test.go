// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"testing"

	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

func newTestWorld() (*World, *fakeSolver) {
	fs := newFakeSolver()
	w := NewWorld(fs, NewConfig(), nil)
	return w, fs
}

func TestNewWorldPanicsOnNilSolver(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil solver")
		}
	}()
	NewWorld(nil, nil, nil)
}

func TestNewStaticBeginsPending(t *testing.T) {
	w, _ := newTestWorld()
	owner := newTestObject()
	st, ok := w.NewStatic(owner, 1, sphereCollider(1), 0, solver.Material{})
	if !ok {
		t.Fatal("NewStatic failed")
	}
	rec, ok := w.records[st.Handle()]
	if !ok {
		t.Fatal("record not registered")
	}
	if rec.State != StatePending {
		t.Fatalf("expected StatePending before first tick, got %v", rec.State)
	}
}

func TestDeferredAddGoesLiveAfterDrain(t *testing.T) {
	w, fs := newTestWorld()
	owner := newTestObject()
	owner.dynamic = true
	owner.pos = geom.Vec3{Y: 10}
	d, ok := w.NewDynamic(owner, 1, sphereCollider(0.5), 0, solver.Material{}, false, 0)
	if !ok {
		t.Fatal("NewDynamic failed")
	}

	w.drainDeferred()

	rec, ok := w.records[d.Handle()]
	if !ok || rec.State != StateLive {
		t.Fatalf("expected body live after drain, got %+v", rec)
	}
	if fs.prepareCalls == 0 || fs.finalizeCalls == 0 {
		t.Fatal("expected prepare/finalize to be called")
	}
	if !w.active.has(d.Handle()) {
		t.Fatal("expected dynamic body in the active set after activation")
	}
}

func TestEndBodyTearsDownCompletely(t *testing.T) {
	w, fs := newTestWorld()
	owner := newTestObject()
	st, _ := w.NewStatic(owner, 1, sphereCollider(1), 0, solver.Material{})
	w.drainDeferred()

	h := st.Handle()
	st.EndPlay()

	if st.Handle() != InvalidHandle {
		t.Fatal("expected Handle() to report invalid after EndPlay")
	}
	if _, ok := w.records[h]; ok {
		t.Fatal("expected record removed from world")
	}
	body := fs.bodies[h.solverID()]
	if body == nil || !body.destroyed {
		t.Fatal("expected solver body destroyed")
	}
}

func TestLookupRejectsStaleGeneration(t *testing.T) {
	w, _ := newTestWorld()
	owner := newTestObject()
	st, _ := w.NewStatic(owner, 1, sphereCollider(1), 0, solver.Material{})
	h := st.Handle()
	st.EndPlay()

	if _, ok := w.lookup(h); ok {
		t.Fatal("expected lookup of a torn-down handle to fail")
	}
}

func TestBeginBodyRejectsEmptyShape(t *testing.T) {
	w, _ := newTestWorld()
	owner := newTestObject()
	if _, ok := w.NewStatic(owner, 1, nil, 0, solver.Material{}); ok {
		t.Fatal("expected begin-play with no colliders to fail")
	}
}
