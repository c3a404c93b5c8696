// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"github.com/greywind-games/physx/geom"
	"github.com/greywind-games/physx/solver"
)

// HeightField is a static body wrapping a pre-built height-field
// shape; debug geometry gathering is cropped to a bounded
// axis-aligned box in local space rather than the whole field
// (§4.2 "Height field"), grounded on
// original_source/.../HeightFieldComponent.cpp.
type HeightField struct {
	world   *World
	record  *BodyRecord
	CropMin geom.Vec3
	CropMax geom.Vec3
}

func (w *World) NewHeightField(owner GameObject, ownerHandle ComponentHandle, field Collider, layer uint8, mat solver.Material, cropMin, cropMax geom.Vec3) (*HeightField, bool) {
	field.CropMin, field.CropMax = cropMin, cropMax // travels with the Collider for the Debug Geometry Gatherer
	built, ok := BuildShape(w.solver, []Collider{field}, true)
	if !ok {
		return nil, false
	}
	rec, ok := w.beginBody(owner, ownerHandle, ComponentHeightField, built, []Collider{field}, solver.MotionStatic, layer, ClassStatic, mat, BodyFlags{AllowSleep: true, CanPushCharacter: true}, false)
	if !ok {
		return nil, false
	}
	return &HeightField{world: w, record: rec, CropMin: cropMin, CropMax: cropMax}, true
}

// EndPlay tears the body down per the common end-play contract.
func (h *HeightField) EndPlay() { h.world.endBody(h.record) }

// Handle returns the body's handle, InvalidHandle if torn down.
func (h *HeightField) Handle() BodyHandle {
	if h.record.State == StateDead {
		return InvalidHandle
	}
	return h.record.Handle
}
