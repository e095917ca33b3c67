// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package trackphysics

import "errors"

// Sentinel errors returned by PhysicsEngine and LineRegistry precondition
// checks. None of these indicate a physics failure — the simulation
// itself never fails once an engine's state is valid — only a caller
// passing an id the engine does not recognize.
var (
	// ErrInvalidEntityId is returned by an entity mutation or removal
	// naming an id not in the registry.
	ErrInvalidEntityId = errors.New("trackphysics: invalid entity id")
	// ErrInvalidTemplateId is returned by AddEntity naming a template id
	// that was never registered.
	ErrInvalidTemplateId = errors.New("trackphysics: invalid template id")
	// ErrInvalidLineId is returned by ReplaceLine/RemoveLine naming an
	// id not in the grid. GetLine reports an unknown id with false
	// instead of an error.
	ErrInvalidLineId = errors.New("trackphysics: invalid line id")
)
