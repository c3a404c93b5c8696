// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

const (
	stickToFloorStepDown     = 0.5
	walkStairsStepUp         = 0.4
	walkStairsMinStepForward = 0.2
)

// Character drives one kinematic character controller per fixed tick:
// extended update, ground-state check, and post-contact overbounce
// velocity projection (§4.4), grounded on
// original_source/.../PhysicsInterface.cpp's
// PhysicsInterface::UpdateCharacterControllers.
type Character struct {
	world           *World
	solverCharacter solver.Character
	handle          BodyHandle // synthetic identity, never a real solver body, used only as a contact-key namespace
	Object          GameObject

	Layer           uint8
	StickToFloor    bool
	WalkStairs      bool
	MaxSlopeRadians float64
}

// characterIDBase marks the synthetic solver.BodyID namespace reserved
// for characters, disjoint from any id CreateBody hands out.
const characterIDBase uint32 = 0x80000000

// NewCharacter mints a character controller against shape and
// registers it with the world for per-tick updates.
func (w *World) NewCharacter(owner GameObject, shape solver.Shape, layer uint8, stickToFloor, walkStairs bool, maxSlopeRadians float64) (*Character, bool) {
	factory, ok := w.solver.(solver.CharacterFactory)
	if !ok {
		w.log.Warn("physx: solver does not implement CharacterFactory")
		return nil, false
	}
	objectLayer := EncodeLayer(layer, ClassCharacter)
	sc := factory.CreateCharacter(shape, owner.Position(), owner.Rotation(), objectLayer, maxSlopeRadians)
	sc.SetContactListener(w.contacts)
	c := &Character{
		world:           w,
		solverCharacter: sc,
		handle:          newHandle(solver.BodyID(characterIDBase+w.nextCharacterID), 1),
		Object:          owner,
		Layer:           layer,
		StickToFloor:    stickToFloor,
		WalkStairs:      walkStairs,
		MaxSlopeRadians: maxSlopeRadians,
	}
	w.characters = append(w.characters, c)
	w.nextCharacterID++
	return c, true
}

// EndPlay removes the controller from the world and destroys its
// solver-side state.
func (c *Character) EndPlay() {
	c.solverCharacter.Destroy()
	for i, other := range c.world.characters {
		if other == c {
			c.world.characters = append(c.world.characters[:i], c.world.characters[i+1:]...)
			return
		}
	}
}

// broadphaseMaskForCharacter is the fixed mask every character queries
// against: static, dynamic, trigger and other characters (§4.4 step 1).
func broadphaseMaskForCharacter() solver.BroadphaseMask {
	return solver.Bit(solver.BroadphaseStatic) | solver.Bit(solver.BroadphaseDynamic) |
		solver.Bit(solver.BroadphaseTrigger) | solver.Bit(solver.BroadphaseCharacter)
}

// updateCharacters runs every registered character's extended update
// for one fixed tick (§4.6 step 3 via §4.4).
func (w *World) updateCharacters(dt float64, gravity geom.Vec3, frame uint64) {
	for _, c := range w.characters {
		settings := solver.CharacterUpdateSettings{
			WalkStairsMinStepForward: walkStairsMinStepForward,
			BroadphaseMask:           broadphaseMaskForCharacter(),
		}
		if c.StickToFloor {
			settings.StickToFloorStepDown = geom.Vec3{Y: -stickToFloorStepDown}
		}
		if c.WalkStairs {
			settings.WalkStairsStepUp = geom.Vec3{Y: walkStairsStepUp}
		}

		filter := solver.QueryFilter{BroadphaseMask: settings.BroadphaseMask}
		c.solverCharacter.ExtendedUpdate(dt, settings, gravity, filter)

		c.Object.SetTransform(c.solverCharacter.Position(), c.Object.Rotation())

		ground := c.solverCharacter.GroundState()
		if ground != solver.GroundOnGround && ground != solver.GroundOnSteepGround {
			c.projectOverbounce()
		}

		w.contacts.recordCharacterContacts(c, frame)
	}
	w.contacts.sweepStaleCharacterEntries(frame)
}

// projectOverbounce eliminates residual into-surface velocity when the
// character is airborne, overbounce=1.0 against every active contact
// normal (§4.4 step 5). A contact whose other body has
// canPushCharacter=false is excluded: that body's flag says it should
// never constrain the character's velocity.
func (c *Character) projectOverbounce() {
	v := c.solverCharacter.LinearVelocity()
	for _, ct := range c.solverCharacter.ActiveContacts() {
		if !ct.CanPushCharacter {
			continue
		}
		d := v.Dot(ct.Normal)
		if d < 0 {
			v = v.Sub(ct.Normal.Scale(d)) // overbounce = 1.0: remove the full into-surface component
		}
	}
	c.solverCharacter.SetLinearVelocity(v)
}
