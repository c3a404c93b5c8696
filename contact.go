// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"log/slog"
	"sync"

	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// contactKey canonically identifies a body pair: the lower-numbered
// handle occupies the low word, so key(A,B) == key(B,A) (§3 "Contact
// Key", invariant 7), grounded on g3n-engine/physics/collision's
// triangular Matrix.Set/Get canonical-order swap.
type contactKey uint64

// canonicalKey orders two handles (low, high) and packs them into one
// 64-bit value. Only the low 32 bits of each handle (its solver id)
// are kept; the generation is dropped, so a key does not tell a
// destroyed body from a later one with the same solver id. endBody
// removes every entry naming a destroyed body (dropBody), so no entry
// outlives the body it refers to.
func canonicalKey(a, b BodyHandle) contactKey {
	if a > b {
		a, b = b, a
	}
	lo := uint64(uint32(a))
	hi := uint64(uint32(b))
	return contactKey(hi<<32 | lo)
}

// ContactPoint is one point copied into the per-tick arena (§3
// "Contact Point").
type ContactPoint struct {
	PosSelf, PosOther geom.Vec3
	VelSelf, VelOther geom.Vec3
	Impulse           float64
}

// Collision is the descriptor passed to OnBeginContact/OnUpdateContact
// with a slice of points from the per-tick arena.
type Collision struct {
	Normal           geom.Vec3
	PenetrationDepth float64
	Points           []ContactPoint
}

// bodyContactEntry is symmetric, stored once per pair (§3 "Body
// Contact Entry").
type bodyContactEntry struct {
	body1, body2         BodyHandle
	dispatch1, dispatch2 bool
	beganEmitted         bool
	lastFrame            uint64 // character-contact entries only
	character            bool
}

// triggerContactEntry counts active shape pairs for body-body sensors,
// or frame-stamps for character-sensor pairs (§3 "Trigger Contact
// Entry").
type triggerContactEntry struct {
	trigger, target BodyHandle
	count           int
	lastFrame       uint64
	character       bool
}

// contactTracker implements solver.ContactListener and owns every
// piece of state the spec requires be protected by a single mutex:
// the body-contact and trigger-contact maps, the event lists, and the
// contact-point arena (§4.5, §5).
type contactTracker struct {
	world *World
	log   *slog.Logger

	mu       sync.Mutex
	bodies   map[contactKey]*bodyContactEntry
	triggers map[contactKey]*triggerContactEntry

	arena         []ContactPoint
	triggerEvents []TriggerEvent
	contactEvents []ContactEvent
}

func newContactTracker(w *World, log *slog.Logger) *contactTracker {
	return &contactTracker{
		world:    w,
		log:      log,
		bodies:   make(map[contactKey]*bodyContactEntry),
		triggers: make(map[contactKey]*triggerContactEntry),
	}
}

// TriggerEventKind tags a trigger event variant.
type TriggerEventKind int

const (
	EventBeginOverlap TriggerEventKind = iota
	EventEndOverlap
)

// TriggerEvent is one queued trigger transition (§3 "Event").
type TriggerEvent struct {
	Kind    TriggerEventKind
	Trigger BodyHandle
	Target  BodyHandle
}

// ContactEventKind tags a contact event variant.
type ContactEventKind int

const (
	EventBeginContact ContactEventKind = iota
	EventUpdateContact
	EventEndContact
)

// ContactEvent is one queued body-body contact transition (§3 "Event").
type ContactEvent struct {
	Kind             ContactEventKind
	Self, Other      BodyHandle
	Normal           geom.Vec3
	PenetrationDepth float64
	PointsStart      int
	PointsCount      int
}

func (t *contactTracker) isSensor(h BodyHandle) bool {
	rec, ok := t.world.lookup(h)
	return ok && rec.Class == ClassTrigger
}

// OnContactAdded implements solver.ContactListener: trigger-vs-body
// branch first, then the regular body-body response-estimation path
// (§4.5 "Body-body listener").
func (t *contactTracker) OnContactAdded(b1, b2 solver.BodyID, m solver.ContactManifold, s *solver.ContactSettings) {
	t.onContact(b1, b2, m, true)
}

func (t *contactTracker) OnContactPersisted(b1, b2 solver.BodyID, m solver.ContactManifold, s *solver.ContactSettings) {
	t.onContact(b1, b2, m, false)
}

func (t *contactTracker) onContact(b1id, b2id solver.BodyID, m solver.ContactManifold, isAdd bool) {
	h1 := t.world.resolveBySolverID(b1id)
	h2 := t.world.resolveBySolverID(b2id)
	if h1 == InvalidHandle || h2 == InvalidHandle {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isSensor(h1) || t.isSensor(h2) {
		t.onTriggerAddLocked(h1, h2, isAdd)
		return
	}
	t.onBodyContactLocked(h1, h2, m, isAdd)
}

func (t *contactTracker) onTriggerAddLocked(h1, h2 BodyHandle, isAdd bool) {
	if !isAdd {
		return // persistence is a no-op for triggers (§4.5)
	}
	key := canonicalKey(h1, h2)
	trigger, target := h1, h2
	if t.isSensor(h2) {
		trigger, target = h2, h1
	}
	e, ok := t.triggers[key]
	if !ok {
		e = &triggerContactEntry{trigger: trigger, target: target}
		t.triggers[key] = e
	}
	e.count++
	if e.count == 1 {
		t.triggerEvents = append(t.triggerEvents, TriggerEvent{Kind: EventBeginOverlap, Trigger: trigger, Target: target})
	}
}

func (t *contactTracker) onBodyContactLocked(h1, h2 BodyHandle, m solver.ContactManifold, isAdd bool) {
	key := canonicalKey(h1, h2)
	e, ok := t.bodies[key]
	if !ok {
		rec1, _ := t.world.lookup(h1)
		rec2, _ := t.world.lookup(h2)
		e = &bodyContactEntry{
			body1: h1, body2: h2,
			dispatch1: rec1 != nil && rec1.Flags.DispatchContactEvents,
			dispatch2: rec2 != nil && rec2.Flags.DispatchContactEvents,
		}
		t.bodies[key] = e
	}

	estimate := t.world.solver.EstimateCollisionResponse(h1.solverID(), h2.solverID(), m,
		0, 0, t.world.config.RestitutionVelocityThreshold, t.world.config.CollisionResponseIterations)

	kind := EventUpdateContact
	if !e.beganEmitted {
		kind = EventBeginContact
		e.beganEmitted = true
	}

	if e.dispatch1 {
		t.appendContactEvent(kind, h1, h2, m, estimate, true)
	}
	if e.dispatch2 {
		t.appendContactEvent(kind, h2, h1, m, estimate, false)
	}
}

func (t *contactTracker) appendContactEvent(kind ContactEventKind, self, other BodyHandle, m solver.ContactManifold, est solver.CollisionEstimate, fromSide1 bool) {
	start := len(t.arena)
	pts, otherPts := m.PointsOn1, m.PointsOn2
	if !fromSide1 {
		pts, otherPts = m.PointsOn2, m.PointsOn1
	}
	velSelf := t.world.solver.GetLinearVelocity(self.solverID())
	velOther := t.world.solver.GetLinearVelocity(other.solverID())
	for i, p := range pts {
		var impulse float64
		if i < len(est.Impulses) {
			impulse = est.Impulses[i].ContactImpulse
		}
		var posOther geom.Vec3
		if i < len(otherPts) {
			posOther = otherPts[i]
		}
		t.arena = append(t.arena, ContactPoint{
			PosSelf: p, PosOther: posOther,
			VelSelf: velSelf, VelOther: velOther,
			Impulse: impulse,
		})
	}
	normal := m.Normal
	if !fromSide1 {
		normal = normal.Scale(-1) // normal points outward from self, per the ordering invariant
	}
	t.contactEvents = append(t.contactEvents, ContactEvent{
		Kind: kind, Self: self, Other: other,
		Normal: normal, PenetrationDepth: m.PenetrationDepth,
		PointsStart: start, PointsCount: len(t.arena) - start,
	})
}

// OnContactRemoved looks up the entry and, on last removal, emits end
// events on each dispatching side, or for a trigger pair, decrements
// the active count and emits end-overlap at 1->0 (§4.5).
func (t *contactTracker) OnContactRemoved(b1id, b2id solver.BodyID) {
	h1 := t.world.resolveBySolverID(b1id)
	h2 := t.world.resolveBySolverID(b2id)
	if h1 == InvalidHandle || h2 == InvalidHandle {
		return
	}
	key := canonicalKey(h1, h2)

	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.triggers[key]; ok {
		e.count--
		if e.count <= 0 {
			t.triggerEvents = append(t.triggerEvents, TriggerEvent{Kind: EventEndOverlap, Trigger: e.trigger, Target: e.target})
			delete(t.triggers, key)
		}
		return
	}
	if e, ok := t.bodies[key]; ok {
		if e.dispatch1 {
			t.contactEvents = append(t.contactEvents, ContactEvent{Kind: EventEndContact, Self: e.body1, Other: e.body2})
		}
		if e.dispatch2 {
			t.contactEvents = append(t.contactEvents, ContactEvent{Kind: EventEndContact, Self: e.body2, Other: e.body1})
		}
		delete(t.bodies, key)
	}
}

// OnCharacterContactAdded implements solver.CharacterContactListener:
// it is invoked by the backend mid-extended-update for every contact a
// character discovers, and sets canPushCharacter from the other body's
// own flag rather than anything the backend could know on its own
// (§4.5 "Character-body listener").
func (t *contactTracker) OnCharacterContactAdded(body solver.BodyID, normal geom.Vec3, sensor bool, s *solver.CharacterContactSettings) {
	h := t.world.resolveBySolverID(body)
	if h == InvalidHandle {
		return
	}
	rec, ok := t.world.lookup(h)
	s.CanPushCharacter = ok && rec.Flags.CanPushCharacter
}

// recordCharacterContacts implements the character-body listener
// (§4.5 "Character-body listener"), called once per character per
// tick after its extended update.
func (t *contactTracker) recordCharacterContacts(c *Character, frame uint64) {
	charHandle := c.handle
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, cc := range c.solverCharacter.ActiveContacts() {
		other := t.world.resolveBySolverID(cc.Body)
		if other == InvalidHandle {
			continue
		}
		key := canonicalKey(charHandle, other)
		if cc.Sensor {
			e, ok := t.triggers[key]
			if !ok {
				e = &triggerContactEntry{trigger: other, target: charHandle, character: true}
				t.triggers[key] = e
				t.triggerEvents = append(t.triggerEvents, TriggerEvent{Kind: EventBeginOverlap, Trigger: other, Target: charHandle})
			}
			e.lastFrame = frame
			continue
		}

		rec, ok := t.world.lookup(other)
		if !ok || !rec.Flags.DispatchContactEvents {
			continue
		}
		e, ok := t.bodies[key]
		kind := EventUpdateContact
		if !ok {
			e = &bodyContactEntry{body1: other, body2: charHandle, dispatch1: true, character: true}
			t.bodies[key] = e
			kind = EventBeginContact
			e.beganEmitted = true
		}
		e.lastFrame = frame
		t.contactEvents = append(t.contactEvents, ContactEvent{
			Kind: kind, Self: other, Other: charHandle, Normal: cc.Normal,
		})
	}
}

// sweepStaleCharacterEntries removes any character-linked contact or
// trigger entry whose last-stamped frame is older than the current
// frame, emitting the matching end event (§4.5, tail of §4.4).
func (t *contactTracker) sweepStaleCharacterEntries(frame uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, e := range t.triggers {
		if e.character && e.lastFrame < frame {
			t.triggerEvents = append(t.triggerEvents, TriggerEvent{Kind: EventEndOverlap, Trigger: e.trigger, Target: e.target})
			delete(t.triggers, key)
		}
	}
	for key, e := range t.bodies {
		if e.character && e.lastFrame < frame {
			t.contactEvents = append(t.contactEvents, ContactEvent{Kind: EventEndContact, Self: e.body1, Other: e.body2})
			delete(t.bodies, key)
		}
	}
}

// dropBody removes every contact/trigger entry referencing h, called
// from endBody so a destroyed body never leaves a dangling entry
// behind for a later sweep or removal callback to find.
func (t *contactTracker) dropBody(h BodyHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.bodies {
		if e.body1 == h || e.body2 == h {
			delete(t.bodies, key)
		}
	}
	for key, e := range t.triggers {
		if e.trigger == h || e.target == h {
			delete(t.triggers, key)
		}
	}
}

// drainTriggerEvents dispatches every queued trigger event to its
// owner and clears the list (§4.6 step 11).
func (w *World) drainTriggerEvents() {
	for _, e := range w.contacts.triggerEvents {
		rec, ok := w.lookup(e.Trigger)
		if !ok {
			continue
		}
		target, _ := w.lookup(e.Target)
		var targetObj GameObject
		if target != nil {
			targetObj = target.Object
		}
		switch e.Kind {
		case EventBeginOverlap:
			rec.Object.OnBeginOverlap(targetObj)
		case EventEndOverlap:
			rec.Object.OnEndOverlap(targetObj)
		}
	}
	w.contacts.triggerEvents = w.contacts.triggerEvents[:0]
}

// drainContactEvents dispatches every queued contact event, attaching
// the arena slice it references, then clears events and the arena
// (§4.6 steps 12-13).
func (w *World) drainContactEvents() {
	for _, e := range w.contacts.contactEvents {
		rec, ok := w.lookup(e.Self)
		if !ok {
			continue
		}
		other, _ := w.lookup(e.Other)
		var otherObj GameObject
		if other != nil {
			otherObj = other.Object
		}
		c := &Collision{
			Normal:           e.Normal,
			PenetrationDepth: e.PenetrationDepth,
			Points:           w.contacts.arena[e.PointsStart : e.PointsStart+e.PointsCount],
		}
		switch e.Kind {
		case EventBeginContact:
			rec.Object.OnBeginContact(otherObj, c)
		case EventUpdateContact:
			rec.Object.OnUpdateContact(otherObj, c)
		case EventEndContact:
			rec.Object.OnEndContact(otherObj)
		}
	}
	w.contacts.contactEvents = w.contacts.contactEvents[:0]
	w.contacts.arena = w.contacts.arena[:0]
}

// OnBodyActivated/OnBodyDeactivated satisfy solver.ActivationListener,
// keeping the Active/JustDeactivated ancillary sets in sync with the
// solver's own sleep state.
func (w *World) OnBodyActivated(id solver.BodyID) {
	h := w.resolveBySolverID(id)
	if h != InvalidHandle {
		w.active.insert(h)
	}
}

func (w *World) OnBodyDeactivated(id solver.BodyID) {
	h := w.resolveBySolverID(id)
	if h != InvalidHandle {
		w.active.remove(h)
		w.justDeactivated.insert(h)
	}
}

// resolveBySolverID recovers a BodyHandle from a solver.BodyID by
// scanning the user-data it points to... in practice the solver hands
// callbacks the BodyID it was given at CreateBody, and since this
// module mints one BodyHandle per CreateBody call with the solver id
// packed into its low bits, reconstructing the handle only requires
// knowing the slot's current generation.
func (w *World) resolveBySolverID(id solver.BodyID) BodyHandle {
	gen, ok := w.handles.currentGeneration(uint32(id))
	if !ok {
		return InvalidHandle
	}
	h := newHandle(id, gen)
	if _, live := w.records[h]; !live {
		return InvalidHandle
	}
	return h
}
