// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package solver declares the rigid-body solver contract the physics
// integration layer drives every tick, and the shapes/tags it trades in.
// The solver itself — narrow-phase, constraint solving, integration — is
// someone else's problem; this package only describes the boundary and
// adapts it to a concrete backend (see jolt.go).
package solver

import "github.com/greywind-games/physx/geom"

// BodyID is the solver's own identifier for a body: an index packed
// with a sequence number so stale handles can be detected after reuse.
type BodyID uint32

// Invalid is the sentinel returned for bodies that were never created
// or have since been destroyed.
const Invalid BodyID = 0xffffffff

// Valid reports whether id is not the invalid sentinel. It does not by
// itself guarantee the body is still alive in the solver.
func (id BodyID) Valid() bool { return id != Invalid }

// ShapeKind tags a primitive collider leaf.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCylinder
	ShapeCapsule
	ShapeConvexHull
	ShapeMesh
	ShapeHeightField
)

// MotionType mirrors Jolt's EMotionType.
type MotionType int

const (
	MotionStatic MotionType = iota
	MotionKinematic
	MotionDynamic
)

// BroadphaseLayer is the coarse broadphase bucket a body is placed in.
type BroadphaseLayer uint8

const (
	BroadphaseStatic BroadphaseLayer = iota
	BroadphaseDynamic
	BroadphaseTrigger
	BroadphaseCharacter
)

// BroadphaseMask is a bitset of BroadphaseLayer values used to filter
// queries and the character controller's collide pass.
type BroadphaseMask uint32

// Bit returns the mask bit for layer l.
func Bit(l BroadphaseLayer) BroadphaseMask { return 1 << BroadphaseMask(l) }

// Activation controls whether a newly added body starts awake.
type Activation int

const (
	Activate Activation = iota
	DontActivate
)

// Material holds the surface properties combined during collision
// response.
type Material struct {
	Friction    float64
	Restitution float64
}

// Shape is an opaque, reference-counted solver shape handle. It is
// returned by shape composition and consumed by body creation and
// scaled-shape rebuilds; its concrete representation belongs to the
// backend.
type Shape interface {
	Kind() ShapeKind
	Retain()
	Release()
}

// BodyCreateDesc is the descriptor passed to CreateBody. ObjectLayer is
// the pre-encoded (collision layer | broadphase class<<8) value from
// EncodeLayer.
type BodyCreateDesc struct {
	Shape         Shape
	Position      geom.Vec3
	Rotation      geom.Quat
	Motion        MotionType
	ObjectLayer   uint16
	Material      Material
	Sensor        bool
	AllowSleep    bool
	UseCCD        bool
	GravityFactor float64
	MassOverride  float64 // <=0 means "calculate from shape"
	UserData      uint64  // opaque handle back to the owning user-data slot
}

// RayCastInput describes a ray query.
type RayCastInput struct {
	Origin, Direction geom.Vec3
}

// ShapeCastInput describes a synthetic-shape sweep query.
type ShapeCastInput struct {
	Shape     Shape
	Start     geom.Vec3
	Rotation  geom.Quat
	Direction geom.Vec3
}

// QueryFilter narrows a cast/overlap query.
type QueryFilter struct {
	BroadphaseMask  BroadphaseMask
	ObjectLayerMask uint32
	IgnoreBackFaces bool
	CalcNormal      bool
	SortByDistance  bool
}

// CastHit is one result of a ray or shape cast.
type CastHit struct {
	Body     BodyID
	P1, P2   geom.Vec3
	Axis     geom.Vec3
	Depth    float64
	Fraction float64
	BackFace bool
}

// ContactManifold is the narrow-phase output handed to the contact
// listener for one colliding pair.
type ContactManifold struct {
	Body1, Body2         BodyID
	Normal               geom.Vec3
	PenetrationDepth     float64
	PointsOn1, PointsOn2 []geom.Vec3
}

// ContactSettings are the (mutable) per-pair settings a contact
// listener may adjust before the solver resolves the manifold.
type ContactSettings struct {
	CombinedFriction    float64
	CombinedRestitution float64
	CanPushCharacter    bool
}

// ContactListener receives body-body contact callbacks from solver
// worker threads. Implementations must be safe to call concurrently
// with the tick thread and with each other.
type ContactListener interface {
	OnContactAdded(b1, b2 BodyID, m ContactManifold, s *ContactSettings)
	OnContactPersisted(b1, b2 BodyID, m ContactManifold, s *ContactSettings)
	OnContactRemoved(b1, b2 BodyID)
}

// ActivationListener receives body sleep/wake callbacks.
type ActivationListener interface {
	OnBodyActivated(b BodyID)
	OnBodyDeactivated(b BodyID)
}

// EstimatedImpulse is one contact point's estimated collision response,
// produced by EstimateCollisionResponse.
type EstimatedImpulse struct {
	ContactImpulse                     float64
	FrictionImpulse1, FrictionImpulse2 float64
}

// CollisionEstimate is the full per-manifold output of
// EstimateCollisionResponse.
type CollisionEstimate struct {
	Tangent1, Tangent2 geom.Vec3
	Impulses           []EstimatedImpulse
}

// Solver is the contract the tick pipeline drives every fixed step. A
// concrete adapter (jolt.go) implements it against a real backend.
type Solver interface {
	// Shape composition.
	NewSphere(radius float64) Shape
	NewBox(halfExtents geom.Vec3) Shape
	NewCylinder(halfHeight, radius float64) Shape
	NewCapsule(halfHeight, radius float64) Shape
	NewConvexHull(points []geom.Vec3) Shape
	NewStaticCompound(parts []CompoundPart) Shape
	NewRotatedTranslated(inner Shape, pos geom.Vec3, rot geom.Quat) Shape
	NewScaled(inner Shape, scale geom.Vec3) Shape

	// Body lifecycle.
	CreateBody(desc BodyCreateDesc) BodyID
	DestroyBody(id BodyID)
	AddBodiesPrepare(ids []BodyID, activation Activation)
	AddBodiesFinalize(ids []BodyID, activation Activation)
	RemoveBody(id BodyID)

	// Per-tick mutation.
	SetPositionAndRotation(id BodyID, pos geom.Vec3, rot geom.Quat, activation Activation)
	MoveKinematic(id BodyID, pos geom.Vec3, rot geom.Quat, dt float64)
	SetShape(id BodyID, shape Shape, updateMassProperties bool, activation Activation)
	SetGravityFactor(id BodyID, factor float64)
	GetPositionAndRotation(id BodyID) (geom.Vec3, geom.Quat)
	GetLinearVelocity(id BodyID) geom.Vec3
	IsActive(id BodyID) bool

	AddForce(id BodyID, force geom.Vec3)
	AddForceAtPosition(id BodyID, force, pos geom.Vec3)
	AddTorque(id BodyID, torque geom.Vec3)
	AddForceAndTorque(id BodyID, force, torque geom.Vec3)
	AddImpulse(id BodyID, impulse geom.Vec3)
	AddImpulseAtPosition(id BodyID, impulse, pos geom.Vec3)
	AddAngularImpulse(id BodyID, impulse geom.Vec3)

	ApplyBuoyancyImpulse(id BodyID, surfacePos, surfaceNormal geom.Vec3, fluidDensity, linearDrag, angularDrag float64, fluidVelocity, gravity geom.Vec3, dt float64)

	// Queries.
	CastRayClosest(r RayCastInput, f QueryFilter) (CastHit, bool)
	CastRayAll(r RayCastInput, f QueryFilter) []CastHit
	CastShapeClosest(s ShapeCastInput, f QueryFilter) (CastHit, bool)
	CastShapeAll(s ShapeCastInput, f QueryFilter) []CastHit
	CollideAABox(min, max geom.Vec3, mask BroadphaseMask, layerMask uint32) []BodyID
	OverlapShape(s Shape, pos geom.Vec3, rot geom.Quat, f QueryFilter) []BodyID

	EstimateCollisionResponse(b1, b2 BodyID, m ContactManifold, friction, restitution, minVelocityForRestitution float64, iterations int) CollisionEstimate

	SetContactListener(l ContactListener)
	SetActivationListener(l ActivationListener)

	Gravity() geom.Vec3
	SetGravity(g geom.Vec3)

	// Step advances the simulation once. numCollisionSteps is normally 1;
	// the job system/temp allocator are backend-owned scratch resources.
	Step(dt float64, numCollisionSteps int)
}

// CompoundPart is one sub-shape placed inside a static compound.
type CompoundPart struct {
	Shape    Shape
	Position geom.Vec3
	Rotation geom.Quat
}

// GroundState mirrors Jolt's CharacterBase::EGroundState.
type GroundState int

const (
	GroundOnGround GroundState = iota
	GroundOnSteepGround
	GroundNotSupported
	GroundInAir
)

// CharacterUpdateSettings configures one extended-update call (§4.4
// step 1).
type CharacterUpdateSettings struct {
	StickToFloorStepDown     geom.Vec3 // zero vector if stick-to-floor disabled
	WalkStairsStepUp         geom.Vec3 // zero vector if walk-stairs disabled
	WalkStairsMinStepForward float64
	BroadphaseMask           BroadphaseMask
}

// CharacterContact is one contact the character's extended update
// recorded against the world this tick.
type CharacterContact struct {
	Body             BodyID
	Normal           geom.Vec3
	Sensor           bool
	CanPushCharacter bool
}

// CharacterContactSettings are the (mutable) per-contact settings a
// character contact listener may adjust while the extended update is
// in progress, mirroring ContactSettings' role for body-body pairs.
type CharacterContactSettings struct {
	CanPushCharacter bool
}

// CharacterContactListener receives a callback for every contact a
// character's extended update discovers against the world, before the
// character resolves its velocity against it (§4.5 "Character-body
// listener").
type CharacterContactListener interface {
	OnCharacterContactAdded(body BodyID, normal geom.Vec3, sensor bool, s *CharacterContactSettings)
}

// Character is a solver-backed kinematic character controller (Jolt's
// CharacterVirtual), driven once per fixed tick by the Character
// Controller Driver.
type Character interface {
	ExtendedUpdate(dt float64, settings CharacterUpdateSettings, gravity geom.Vec3, f QueryFilter)
	GroundState() GroundState
	Position() geom.Vec3
	SetPosition(p geom.Vec3)
	LinearVelocity() geom.Vec3
	SetLinearVelocity(v geom.Vec3)
	ActiveContacts() []CharacterContact
	SetContactListener(l CharacterContactListener)
	Destroy()
}

// CreateCharacter is implemented alongside Solver so the character
// controller driver can mint new controllers against the same backend.
type CharacterFactory interface {
	CreateCharacter(shape Shape, position geom.Vec3, rotation geom.Quat, layer uint16, maxSlopeRadians float64) Character
}
