// Copyright © 2024 Greywind Games.
// Use is governed by a BSD-style license found in the LICENSE file.

package physx

import (
	"os"

	"github.com/greywind-games/physx/solver"
	"gopkg.in/yaml.v3"
)

// BroadphaseClass is the coarse bucket a body's object layer encodes,
// matching solver.BroadphaseLayer one-for-one.
type BroadphaseClass uint8

const (
	ClassStatic BroadphaseClass = iota
	ClassDynamic
	ClassTrigger
	ClassCharacter
)

func (c BroadphaseClass) broadphaseLayer() solver.BroadphaseLayer {
	return solver.BroadphaseLayer(c)
}

// EncodeLayer packs an 8-bit collision layer and a broadphase class
// into the 16-bit object-layer field the solver stores per body:
// bits 0-7 are the collision layer, bits 8-15 the broadphase class.
func EncodeLayer(layer uint8, class BroadphaseClass) uint16 {
	return uint16(layer) | uint16(class)<<8
}

// DecodeLayer splits an object-layer value back into its collision
// layer and broadphase class.
func DecodeLayer(objectLayer uint16) (layer uint8, class BroadphaseClass) {
	return uint8(objectLayer), BroadphaseClass(objectLayer >> 8)
}

// CollisionFilter answers whether two collision layers may collide, a
// symmetric 256x256 compatibility table loaded from YAML config
// (mirroring the teacher's gopkg.in/yaml.v3 use for structured
// scene/model data, repurposed here for the layer table).
type CollisionFilter struct {
	allowed [256][256]bool
}

// NewCollisionFilter returns a filter where every layer collides with
// every other layer, the solver's usual default.
func NewCollisionFilter() *CollisionFilter {
	f := &CollisionFilter{}
	for i := range f.allowed {
		for j := range f.allowed[i] {
			f.allowed[i][j] = true
		}
	}
	return f
}

// collisionFilterDoc is the on-disk shape for a layer compatibility
// table: a list of named layers and pairs explicitly disabled.
type collisionFilterDoc struct {
	Layers  []string `yaml:"layers"`
	Disable [][2]int `yaml:"disable"`
}

// LoadCollisionFilter reads a YAML layer-compatibility table from
// path. Layers not mentioned default to colliding with everything;
// pairs listed under "disable" are masked off in both directions.
func LoadCollisionFilter(path string) (*CollisionFilter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc collisionFilterDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	f := NewCollisionFilter()
	for _, pair := range doc.Disable {
		a, b := pair[0], pair[1]
		if a < 0 || a > 255 || b < 0 || b > 255 {
			continue
		}
		f.allowed[a][b] = false
		f.allowed[b][a] = false
	}
	return f, nil
}

// Allows reports whether layer a may collide with layer b.
func (f *CollisionFilter) Allows(a, b uint8) bool {
	return f.allowed[a][b]
}
