// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package physx bridges a component-based game world to the Jolt rigid
// body solver (wired through the solver subpackage). It owns body
// lifecycles, composed collision shapes, a fixed-step tick pipeline,
// character-controller driving, water buoyancy, and the contact/trigger
// event stream consumed by gameplay callbacks.
//
// The solver itself, the component/object framework, and unrelated
// engine subsystems (audio, rendering, asset loading) are external
// collaborators reached only through the interfaces in external.go.
package physx
