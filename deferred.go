// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import "github.com/greywind-games/physx/solver"

// deferredQueue batches new bodies for an atomic broadphase add at the
// start of the next fixed tick, two parallel lists indexed by
// start-active vs start-sleeping (§3 "Deferred Add Queue", §4.3).
type deferredQueue struct {
	activate []BodyHandle
	sleep    []BodyHandle
}

func (q *deferredQueue) enqueue(h BodyHandle, startActive bool) {
	if startActive {
		q.activate = append(q.activate, h)
	} else {
		q.sleep = append(q.sleep, h)
	}
}

// drain runs the solver's prepare/finalize two-phase add protocol so
// each list is inserted into the broadphase in a single batch, then
// marks the drained records live and clears both lists. Bodies
// enqueued during this call (there should be none, begin-play only
// runs outside tick) are left for the next tick.
func (w *World) drainDeferred() {
	w.drainList(w.deferred.activate, solver.Activate)
	w.drainList(w.deferred.sleep, solver.DontActivate)
	w.deferred.activate = w.deferred.activate[:0]
	w.deferred.sleep = w.deferred.sleep[:0]
}

func (w *World) drainList(ids []BodyHandle, activation solver.Activation) {
	if len(ids) == 0 {
		return
	}
	solverIDs := make([]solver.BodyID, len(ids))
	for i, h := range ids {
		solverIDs[i] = h.solverID()
	}
	w.solver.AddBodiesPrepare(solverIDs, activation)
	w.solver.AddBodiesFinalize(solverIDs, activation)
	for _, h := range ids {
		if rec, ok := w.records[h]; ok && rec.State == StatePending {
			rec.State = StateLive
			if activation == solver.Activate && rec.Motion == solver.MotionDynamic {
				w.active.insert(h)
			}
		}
	}
}
