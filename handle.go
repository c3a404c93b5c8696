// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"log/slog"

	"github.com/greywind-games/physx/solver"
)

// BodyHandle identifies one physics body component. It packs the
// solver's own BodyID (low 32 bits) with a locally minted 32-bit
// generation token (high 32 bits), the same index+edition idiom the
// teacher uses for entity handles, applied here to physics bodies
// instead of game entities so a stale handle from a destroyed body can
// never alias a freshly created one at the same solver slot.
type BodyHandle uint64

// InvalidHandle is never returned by a successful creation.
const InvalidHandle BodyHandle = 0

func newHandle(id solver.BodyID, generation uint32) BodyHandle {
	return BodyHandle(uint64(generation)<<32 | uint64(uint32(id)))
}

func (h BodyHandle) solverID() solver.BodyID { return solver.BodyID(uint32(h)) }
func (h BodyHandle) generation() uint32      { return uint32(h >> 32) }

// Valid reports whether h is non-zero. It does not by itself prove the
// body is still live; callers resolve through a registry to confirm
// the generation still matches.
func (h BodyHandle) Valid() bool { return h != InvalidHandle }

// handleTable mints and recycles generation tokens, mirroring
// gazed-vu/entity.go's eID allocator. Unlike the teacher, the index
// namespace is not ours to hand out: the solver assigns its own
// BodyID per CreateBody call, so generations are keyed by that id
// directly rather than by a locally allocated free-list slot.
type handleTable struct {
	generations map[uint32]uint32
	log         *slog.Logger
}

func newHandleTable(log *slog.Logger) *handleTable {
	if log == nil {
		log = slog.Default()
	}
	return &handleTable{generations: make(map[uint32]uint32), log: log}
}

// bind mints (or bumps, if the solver recycled this id) the generation
// for a freshly created body and returns it.
func (t *handleTable) bind(id uint32) uint32 {
	g := t.generations[id] + 1
	if g == 0 {
		g = 1 // skip the zero generation, it collides with InvalidHandle
	}
	t.generations[id] = g
	return g
}

// release records that id's body is gone. The generation is left in
// place so a future bind() of the same solver id (recycled by the
// solver itself) bumps past it rather than restarting at 1.
func (t *handleTable) release(id uint32) {
	if _, ok := t.generations[id]; !ok {
		t.log.Warn("physx: release of unbound handle id", "id", id)
	}
}

// currentGeneration returns the generation currently valid for id, or
// ok=false if it was never bound.
func (t *handleTable) currentGeneration(id uint32) (generation uint32, ok bool) {
	g, ok := t.generations[id]
	return g, ok
}
