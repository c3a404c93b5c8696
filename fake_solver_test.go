// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// fakeShape is a minimal solver.Shape for tests that never need to
// inspect a shape's internal composition.
type fakeShape struct {
	kind solver.ShapeKind
	refs int
}

func (s *fakeShape) Kind() solver.ShapeKind { return s.kind }
func (s *fakeShape) Retain()                { s.refs++ }
func (s *fakeShape) Release()               { s.refs-- }

// fakeBody is the fake solver's record of one created body.
type fakeBody struct {
	desc       solver.BodyCreateDesc
	pos        geom.Vec3
	rot        geom.Quat
	vel        geom.Vec3
	gravityFac float64
	active     bool
	destroyed  bool
}

// fakeSolver is an in-memory stand-in for solver.Solver, letting
// package tests drive the registry/contact/tick logic without a real
// Jolt backend. It records every call a test might want to assert on.
type fakeSolver struct {
	nextID  uint32
	bodies  map[solver.BodyID]*fakeBody
	gravity geom.Vec3

	contactListener solver.ContactListener
	activeListener  solver.ActivationListener

	prepareCalls  int
	finalizeCalls int

	collideHits []solver.BodyID
	estimate    solver.CollisionEstimate
	characters  []*fakeCharacter
}

func newFakeSolver() *fakeSolver {
	return &fakeSolver{bodies: make(map[solver.BodyID]*fakeBody)}
}

func (s *fakeSolver) NewSphere(radius float64) solver.Shape {
	return &fakeShape{kind: solver.ShapeSphere}
}
func (s *fakeSolver) NewBox(he geom.Vec3) solver.Shape { return &fakeShape{kind: solver.ShapeBox} }
func (s *fakeSolver) NewCylinder(hh, r float64) solver.Shape {
	return &fakeShape{kind: solver.ShapeCylinder}
}
func (s *fakeSolver) NewCapsule(hh, r float64) solver.Shape {
	return &fakeShape{kind: solver.ShapeCapsule}
}
func (s *fakeSolver) NewConvexHull(pts []geom.Vec3) solver.Shape {
	return &fakeShape{kind: solver.ShapeConvexHull}
}
func (s *fakeSolver) NewStaticCompound(parts []solver.CompoundPart) solver.Shape {
	return &fakeShape{kind: solver.ShapeMesh}
}
func (s *fakeSolver) NewRotatedTranslated(inner solver.Shape, pos geom.Vec3, rot geom.Quat) solver.Shape {
	return inner
}
func (s *fakeSolver) NewScaled(inner solver.Shape, scale geom.Vec3) solver.Shape { return inner }

func (s *fakeSolver) CreateBody(desc solver.BodyCreateDesc) solver.BodyID {
	s.nextID++
	id := solver.BodyID(s.nextID)
	s.bodies[id] = &fakeBody{desc: desc, pos: desc.Position, rot: desc.Rotation, gravityFac: 1}
	return id
}

func (s *fakeSolver) DestroyBody(id solver.BodyID) {
	if b, ok := s.bodies[id]; ok {
		b.destroyed = true
	}
}
func (s *fakeSolver) RemoveBody(id solver.BodyID) {}

func (s *fakeSolver) AddBodiesPrepare(ids []solver.BodyID, a solver.Activation) { s.prepareCalls++ }
func (s *fakeSolver) AddBodiesFinalize(ids []solver.BodyID, a solver.Activation) {
	s.finalizeCalls++
	for _, id := range ids {
		if b, ok := s.bodies[id]; ok && a == solver.Activate {
			b.active = true
		}
	}
}

func (s *fakeSolver) SetPositionAndRotation(id solver.BodyID, pos geom.Vec3, rot geom.Quat, a solver.Activation) {
	if b, ok := s.bodies[id]; ok {
		b.pos, b.rot = pos, rot
	}
}
func (s *fakeSolver) MoveKinematic(id solver.BodyID, pos geom.Vec3, rot geom.Quat, dt float64) {
	if b, ok := s.bodies[id]; ok {
		b.pos, b.rot = pos, rot
	}
}
func (s *fakeSolver) SetShape(id solver.BodyID, shape solver.Shape, updateMass bool, a solver.Activation) {
}
func (s *fakeSolver) SetGravityFactor(id solver.BodyID, factor float64) {
	if b, ok := s.bodies[id]; ok {
		b.gravityFac = factor
	}
}
func (s *fakeSolver) GetPositionAndRotation(id solver.BodyID) (geom.Vec3, geom.Quat) {
	if b, ok := s.bodies[id]; ok {
		return b.pos, b.rot
	}
	return geom.Vec3{}, geom.Identity()
}
func (s *fakeSolver) GetLinearVelocity(id solver.BodyID) geom.Vec3 {
	if b, ok := s.bodies[id]; ok {
		return b.vel
	}
	return geom.Vec3{}
}
func (s *fakeSolver) IsActive(id solver.BodyID) bool {
	b, ok := s.bodies[id]
	return ok && b.active
}

func (s *fakeSolver) AddForce(id solver.BodyID, force geom.Vec3) {
	if b, ok := s.bodies[id]; ok {
		b.vel = b.vel.Add(force)
	}
}
func (s *fakeSolver) AddForceAtPosition(id solver.BodyID, force, pos geom.Vec3) {
	s.AddForce(id, force)
}
func (s *fakeSolver) AddTorque(id solver.BodyID, torque geom.Vec3) {}
func (s *fakeSolver) AddForceAndTorque(id solver.BodyID, force, torque geom.Vec3) {
	s.AddForce(id, force)
}
func (s *fakeSolver) AddImpulse(id solver.BodyID, impulse geom.Vec3) {
	if b, ok := s.bodies[id]; ok {
		b.vel = b.vel.Add(impulse)
	}
}
func (s *fakeSolver) AddImpulseAtPosition(id solver.BodyID, impulse, pos geom.Vec3) {
	s.AddImpulse(id, impulse)
}
func (s *fakeSolver) AddAngularImpulse(id solver.BodyID, impulse geom.Vec3) {}

func (s *fakeSolver) ApplyBuoyancyImpulse(id solver.BodyID, surfacePos, surfaceNormal geom.Vec3, fluidDensity, linearDrag, angularDrag float64, fluidVelocity, gravity geom.Vec3, dt float64) {
	if b, ok := s.bodies[id]; ok {
		b.vel = b.vel.Add(surfaceNormal.Scale(fluidDensity * dt))
	}
}

func (s *fakeSolver) CastRayClosest(r solver.RayCastInput, f solver.QueryFilter) (solver.CastHit, bool) {
	return solver.CastHit{}, false
}
func (s *fakeSolver) CastRayAll(r solver.RayCastInput, f solver.QueryFilter) []solver.CastHit {
	return nil
}
func (s *fakeSolver) CastShapeClosest(sc solver.ShapeCastInput, f solver.QueryFilter) (solver.CastHit, bool) {
	return solver.CastHit{}, false
}
func (s *fakeSolver) CastShapeAll(sc solver.ShapeCastInput, f solver.QueryFilter) []solver.CastHit {
	return nil
}
func (s *fakeSolver) CollideAABox(min, max geom.Vec3, mask solver.BroadphaseMask, layerMask uint32) []solver.BodyID {
	return s.collideHits
}
func (s *fakeSolver) OverlapShape(sh solver.Shape, pos geom.Vec3, rot geom.Quat, f solver.QueryFilter) []solver.BodyID {
	return nil
}

func (s *fakeSolver) EstimateCollisionResponse(b1, b2 solver.BodyID, m solver.ContactManifold, friction, restitution, minVel float64, iterations int) solver.CollisionEstimate {
	return s.estimate
}

func (s *fakeSolver) SetContactListener(l solver.ContactListener)       { s.contactListener = l }
func (s *fakeSolver) SetActivationListener(l solver.ActivationListener) { s.activeListener = l }

func (s *fakeSolver) Gravity() geom.Vec3     { return s.gravity }
func (s *fakeSolver) SetGravity(g geom.Vec3) { s.gravity = g }

func (s *fakeSolver) Step(dt float64, numCollisionSteps int) {}

// fakeCharacter is a minimal solver.Character double.
type fakeCharacter struct {
	pos       geom.Vec3
	vel       geom.Vec3
	ground    solver.GroundState
	contacts  []solver.CharacterContact
	listener  solver.CharacterContactListener
	destroyed bool
}

func (c *fakeCharacter) ExtendedUpdate(dt float64, settings solver.CharacterUpdateSettings, gravity geom.Vec3, f solver.QueryFilter) {
}
func (c *fakeCharacter) GroundState() solver.GroundState                      { return c.ground }
func (c *fakeCharacter) Position() geom.Vec3                                  { return c.pos }
func (c *fakeCharacter) SetPosition(p geom.Vec3)                              { c.pos = p }
func (c *fakeCharacter) LinearVelocity() geom.Vec3                            { return c.vel }
func (c *fakeCharacter) SetLinearVelocity(v geom.Vec3)                        { c.vel = v }
func (c *fakeCharacter) ActiveContacts() []solver.CharacterContact            { return c.contacts }
func (c *fakeCharacter) SetContactListener(l solver.CharacterContactListener) { c.listener = l }
func (c *fakeCharacter) Destroy()                                             { c.destroyed = true }

func (s *fakeSolver) CreateCharacter(shape solver.Shape, position geom.Vec3, rotation geom.Quat, layer uint16, maxSlopeRadians float64) solver.Character {
	c := &fakeCharacter{pos: position, ground: solver.GroundInAir}
	s.characters = append(s.characters, c)
	return c
}

// testObject is a minimal GameObject double recording every callback
// it receives, so tests can assert dispatch without a real game-object
// framework.
type testObject struct {
	pos, rot, scale geom.Vec3
	rotQ            geom.Quat
	dynamic         bool
	locked          bool

	beginOverlaps []GameObject
	endOverlaps   []GameObject
	beginContacts []GameObject
	updContacts   []GameObject
	endContacts   []GameObject
	lastCollision *Collision
}

func newTestObject() *testObject {
	return &testObject{scale: geom.Vec3{X: 1, Y: 1, Z: 1}, rotQ: geom.Identity()}
}

func (o *testObject) Position() geom.Vec3 { return o.pos }
func (o *testObject) Rotation() geom.Quat { return o.rotQ }
func (o *testObject) Scale() geom.Vec3    { return o.scale }
func (o *testObject) SetTransform(pos geom.Vec3, rot geom.Quat) {
	o.pos, o.rotQ = pos, rot
}
func (o *testObject) SetTransformLocked(locked bool) { o.locked = locked }
func (o *testObject) IsDynamic() bool                { return o.dynamic }

func (o *testObject) OnBeginOverlap(target GameObject) {
	o.beginOverlaps = append(o.beginOverlaps, target)
}
func (o *testObject) OnEndOverlap(target GameObject) { o.endOverlaps = append(o.endOverlaps, target) }
func (o *testObject) OnBeginContact(other GameObject, c *Collision) {
	o.beginContacts = append(o.beginContacts, other)
	o.lastCollision = c
}
func (o *testObject) OnUpdateContact(other GameObject, c *Collision) {
	o.updContacts = append(o.updContacts, other)
	o.lastCollision = c
}
func (o *testObject) OnEndContact(other GameObject) { o.endContacts = append(o.endContacts, other) }

// sphereCollider is a convenience single-sphere collider list shared by
// tests that don't care about shape composition.
func sphereCollider(radius float64) []Collider {
	return []Collider{{Kind: ColliderSphere, Radius: radius}}
}
