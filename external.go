// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import "github.com/greywind-games/physx/geom"

// GameObject is the component framework's view of the entity a body
// component rides on. The physics layer never stores one of these
// beyond the duration of a call; Body Records hold a weak ObjectRef
// instead (see registry.go).
type GameObject interface {
	Position() geom.Vec3
	Rotation() geom.Quat
	Scale() geom.Vec3
	SetTransform(pos geom.Vec3, rot geom.Quat)
	SetTransformLocked(locked bool)
	IsDynamic() bool

	OnBeginOverlap(target GameObject)
	OnEndOverlap(target GameObject)
	OnBeginContact(other GameObject, c *Collision)
	OnUpdateContact(other GameObject, c *Collision)
	OnEndContact(other GameObject)
}

// ComponentHandle is an opaque, type-erased reference to a component
// instance, minted and resolved by the ComponentManager. It carries no
// meaning inside this package beyond equality and the zero value
// meaning "none".
type ComponentHandle uint64

// ComponentTypeID identifies which component kind a ComponentHandle
// belongs to, so a recovered handle can be dispatched without a type
// switch on a pointer.
type ComponentTypeID uint8

// Component kinds known to the Body Registry's tagged user-data record.
const (
	ComponentStatic ComponentTypeID = iota
	ComponentDynamic
	ComponentTrigger
	ComponentHeightField
	ComponentCharacter
	ComponentWaterVolume
)

// ComponentManager resolves component handles back to live instances
// and enumerates components of a type. Owned by the excluded
// object/component framework.
type ComponentManager interface {
	Lookup(t ComponentTypeID, h ComponentHandle) (any, bool)
	TypeOf(t ComponentTypeID, h ComponentHandle) ComponentTypeID
	Each(t ComponentTypeID, fn func(h ComponentHandle))
}

// TickState is the read-only descriptor the Tick Scheduler exposes for
// the currently running tick, grounded on the teacher's window/app
// State struct, repurposed to describe a physics fixed step.
type TickState struct {
	IsPaused      bool
	FixedTimeStep float64
	FixedFrameNum uint64
}

// TickGroup names one of the two scheduler groups the Tick Pipeline
// registers callbacks into.
type TickGroup string

const (
	GroupPhysicsUpdate TickGroup = "PhysicsUpdate"
	GroupPostTransform TickGroup = "PostTransform"
)

// TickScheduler lets the Tick Pipeline register its per-group callbacks
// and read the current tick descriptor. Owned by the excluded
// component/object framework.
type TickScheduler interface {
	Register(group TickGroup, tickEvenWhenPaused bool, fn func(TickState))
	State() TickState
}
