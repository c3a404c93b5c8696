// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import "github.com/greywind-games/physx/geom"

// Config holds the tunables the World is built with: fixed timestep,
// gravity, buoyancy coefficients, solver capacity limits, and the
// debug-draw console-variable booleans. Built with functional options,
// the same Attr pattern the teacher uses for window attributes
// (gazed-vu/config.go), repurposed here for physics tuning.
type Config struct {
	FixedTimeStep float64
	Gravity       geom.Vec3

	MaxBodies             int
	MaxBodyPairs          int
	MaxContactConstraints int

	FluidDensity float64
	LinearDrag   float64
	AngularDrag  float64

	RestitutionVelocityThreshold float64
	CollisionResponseIterations  int

	// com_Draw* console variables, default false.
	DrawCollisionModel      bool
	DrawCollisionShape      bool
	DrawTriggers            bool
	DrawCenterOfMass        bool
	DrawWaterVolume         bool
	DrawCharacterController bool
}

// Attr is a Config option, applied in NewConfig in the order given so
// later options win.
type Attr func(*Config)

// NewConfig builds a Config with sane defaults then applies attrs in
// order.
func NewConfig(attrs ...Attr) *Config {
	c := &Config{
		FixedTimeStep:                1.0 / 60.0,
		Gravity:                      geom.Vec3{Y: -9.81},
		MaxBodies:                    65536,
		MaxBodyPairs:                 65536,
		MaxContactConstraints:        10240,
		FluidDensity:                 1.1,
		LinearDrag:                   0.3,
		AngularDrag:                  0.05,
		RestitutionVelocityThreshold: 1.0,
		CollisionResponseIterations:  5,
	}
	for _, a := range attrs {
		a(c)
	}
	return c
}

// FixedTimeStep sets the fixed tick duration in seconds.
func FixedTimeStep(dt float64) Attr { return func(c *Config) { c.FixedTimeStep = dt } }

// Gravity sets the world gravity vector.
func Gravity(g geom.Vec3) Attr { return func(c *Config) { c.Gravity = g } }

// Capacity sets the solver's body/pair/contact-constraint limits.
func Capacity(maxBodies, maxBodyPairs, maxContactConstraints int) Attr {
	return func(c *Config) {
		c.MaxBodies = maxBodies
		c.MaxBodyPairs = maxBodyPairs
		c.MaxContactConstraints = maxContactConstraints
	}
}

// Buoyancy sets the fluid density and linear/angular drag coefficients
// used by the water pass.
func Buoyancy(fluidDensity, linearDrag, angularDrag float64) Attr {
	return func(c *Config) {
		c.FluidDensity = fluidDensity
		c.LinearDrag = linearDrag
		c.AngularDrag = angularDrag
	}
}

// DebugDraw toggles the com_Draw* console variables.
func DebugDraw(collisionModel, collisionShape, triggers, centerOfMass, waterVolume, characterController bool) Attr {
	return func(c *Config) {
		c.DrawCollisionModel = collisionModel
		c.DrawCollisionShape = collisionShape
		c.DrawTriggers = triggers
		c.DrawCenterOfMass = centerOfMass
		c.DrawWaterVolume = waterVolume
		c.DrawCharacterController = characterController
	}
}
