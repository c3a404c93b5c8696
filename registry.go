// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"log/slog"
	"sort"

	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// RecordState is where a Body Record sits in its one-way lifecycle:
// pending (queued for add), live (in the solver), or dead (handle
// invalid).
type RecordState int

const (
	StatePending RecordState = iota
	StateLive
	StateDead
)

// BodyFlags are the per-body behavior toggles carried on a Body
// Record.
type BodyFlags struct {
	AllowSleep            bool
	UseCCD                bool
	DispatchContactEvents bool
	CanPushCharacter      bool
	DynamicScaling        bool
}

// BodyRecord is the common fields every body kind fills in on
// begin-play, generalizing gazed-vu/body.go's single-kind `bodies`
// manager to the four body kinds of §4.2 (static, dynamic, trigger,
// height field). Characters and water volumes do not use a BodyRecord.
type BodyRecord struct {
	Handle BodyHandle
	State  RecordState

	Object      GameObject
	ObjectOwned ComponentHandle
	ObjectType  ComponentTypeID

	Shape      solver.Shape
	ShapeMode  ScalingMode
	WorldScale geom.Vec3
	Colliders  []Collider // retained for the Debug Geometry Gatherer; never re-walked for simulation

	Layer    uint8
	Class    BroadphaseClass
	Motion   solver.MotionType
	Material solver.Material
	Flags    BodyFlags

	GravityFactor float64
	MassOverride  float64

	dataSlot uint32
}

// Live reports whether the record's handle currently resolves to a
// body the solver knows about.
func (r *BodyRecord) Live() bool { return r.State == StateLive }

// userDataSlot is one record in the User Data Arena, one per body; its
// index is handed to the solver as BodyCreateDesc.UserData. The
// listener callbacks in contact.go resolve bodies through
// resolveBySolverID and do not read these slots.
type userDataSlot struct {
	handle ComponentHandle
	typ    ComponentTypeID
	inUse  bool
}

// userDataArena is a slice-backed free-list pool, the same id+edition
// idiom as handleTable but without a generation (slots are freed and
// reallocated strictly at end-play/begin-play boundaries, never mid-
// tick, so no staleness window exists to guard against).
type userDataArena struct {
	slots []userDataSlot
	free  []uint32
}

func (a *userDataArena) alloc(h ComponentHandle, t ComponentTypeID) uint32 {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx] = userDataSlot{handle: h, typ: t, inUse: true}
		return idx
	}
	a.slots = append(a.slots, userDataSlot{handle: h, typ: t, inUse: true})
	return uint32(len(a.slots) - 1)
}

func (a *userDataArena) release(idx uint32) {
	if int(idx) >= len(a.slots) || !a.slots[idx].inUse {
		return
	}
	a.slots[idx] = userDataSlot{}
	a.free = append(a.free, idx)
}

func (a *userDataArena) get(idx uint32) (ComponentHandle, ComponentTypeID, bool) {
	if int(idx) >= len(a.slots) || !a.slots[idx].inUse {
		return 0, 0, false
	}
	s := a.slots[idx]
	return s.handle, s.typ, true
}

// handleSet is a sorted-on-insert set of body handles, mirroring the
// teacher's dense-array style in gazed-vu/body.go (`bodies.solids`,
// `bodies.bods`) generalized into a reusable ancillary-set type shared
// by the Active/JustDeactivated/Kinematic/DynamicScaling/
// MovableTriggers sets in §3.
type handleSet struct {
	items []BodyHandle
}

func (s *handleSet) search(h BodyHandle) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= h })
	return i, i < len(s.items) && s.items[i] == h
}

// insert adds h if not already present. Returns true if it was added.
func (s *handleSet) insert(h BodyHandle) bool {
	i, found := s.search(h)
	if found {
		return false
	}
	s.items = append(s.items, 0)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = h
	return true
}

// remove drops h if present. Returns true if it was removed.
func (s *handleSet) remove(h BodyHandle) bool {
	i, found := s.search(h)
	if !found {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *handleSet) has(h BodyHandle) bool { _, found := s.search(h); return found }
func (s *handleSet) clear()                { s.items = s.items[:0] }

// World owns every Body Record and the ancillary state the Tick
// Pipeline drains each fixed step. It is the root orchestrator,
// generalizing gazed-vu/app.go's `application` (which owned `bodies`
// alongside the other component managers) down to just the physics
// slice of that role.
type World struct {
	solver solver.Solver
	config *Config
	log    *slog.Logger

	handles *handleTable
	data    userDataArena
	records map[BodyHandle]*BodyRecord

	active          handleSet
	justDeactivated handleSet
	kinematic       handleSet
	dynamicScaling  handleSet
	movableTriggers handleSet

	deferred deferredQueue
	messages []dynamicMessage
	contacts *contactTracker

	characters      []*Character
	nextCharacterID uint32
	waters          []*WaterVolume
}

// NewWorld constructs a World driving s. A nil Solver is a programmer
// error and panics, matching the teacher's "design error to be caught
// during development" treatment of similar construction-time mistakes
// in entity.go.
func NewWorld(s solver.Solver, cfg *Config, log *slog.Logger) *World {
	if s == nil {
		panic("physx: NewWorld called with a nil Solver")
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	s.SetGravity(cfg.Gravity)
	w := &World{
		solver:  s,
		config:  cfg,
		log:     log,
		handles: newHandleTable(log),
		records: make(map[BodyHandle]*BodyRecord),
	}
	w.contacts = newContactTracker(w, log)
	s.SetContactListener(w.contacts)
	s.SetActivationListener(w)
	return w
}

// beginBody implements the common begin-play contract of §4.2: derive
// or reuse a shape, fill a creation descriptor, create the body
// (without adding it), enqueue it in the Deferred Add Queue, and
// register it in the ancillary sets the kind requires.
func (w *World) beginBody(owner GameObject, ownerHandle ComponentHandle, ownerType ComponentTypeID,
	built BuiltShape, colliders []Collider, motion solver.MotionType, layer uint8, class BroadphaseClass,
	mat solver.Material, flags BodyFlags, startActive bool) (*BodyRecord, bool) {

	if built.Root == nil {
		w.log.Warn("physx: begin-play with empty shape", "componentType", ownerType)
		return nil, false
	}

	slot := w.data.alloc(ownerHandle, ownerType)

	built.Root.Retain()
	desc := solver.BodyCreateDesc{
		Shape:       built.Root,
		Position:    owner.Position(),
		Rotation:    owner.Rotation(),
		Motion:      motion,
		ObjectLayer: EncodeLayer(layer, class),
		Material:    mat,
		Sensor:      class == ClassTrigger,
		AllowSleep:  flags.AllowSleep,
		UseCCD:      flags.UseCCD,
		UserData:    uint64(slot),
	}
	sid := w.solver.CreateBody(desc)
	generation := w.handles.bind(uint32(sid))
	handle := newHandle(sid, generation)

	rec := &BodyRecord{
		Handle:        handle,
		State:         StatePending,
		Object:        owner,
		ObjectOwned:   ownerHandle,
		ObjectType:    ownerType,
		Shape:         built.Root,
		ShapeMode:     built.Mode,
		WorldScale:    owner.Scale(),
		Colliders:     colliders,
		Layer:         layer,
		Class:         class,
		Motion:        motion,
		Material:      mat,
		Flags:         flags,
		GravityFactor: 1,
		dataSlot:      slot,
	}
	w.records[handle] = rec
	w.deferred.enqueue(handle, startActive)
	return rec, true
}

// endBody implements the common end-play contract: remove from
// ancillary sets, drop any contact/trigger entries referencing the
// body, remove/destroy it in the solver if live, release the shape
// reference, and free the user-data slot.
func (w *World) endBody(rec *BodyRecord) {
	if rec == nil || rec.State == StateDead {
		return
	}
	w.active.remove(rec.Handle)
	w.justDeactivated.remove(rec.Handle)
	w.kinematic.remove(rec.Handle)
	w.dynamicScaling.remove(rec.Handle)
	w.movableTriggers.remove(rec.Handle)
	w.contacts.dropBody(rec.Handle)

	if rec.State == StateLive || rec.State == StatePending {
		w.solver.RemoveBody(rec.Handle.solverID())
		w.solver.DestroyBody(rec.Handle.solverID())
	}
	if rec.Shape != nil {
		rec.Shape.Release()
	}
	w.data.release(rec.dataSlot)
	w.handles.release(uint32(rec.Handle.solverID()))
	rec.State = StateDead
	delete(w.records, rec.Handle)
}

// lookup resolves a handle to its live record, or reports ok=false for
// an invalid/destroyed handle (§7 "Invalid handle").
func (w *World) lookup(h BodyHandle) (*BodyRecord, bool) {
	if !h.Valid() {
		return nil, false
	}
	rec, ok := w.records[h]
	if !ok || rec.State == StateDead {
		return nil, false
	}
	return rec, true
}
