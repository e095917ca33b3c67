// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package entity

import "github.com/gazed/trackphysics/vec2"

// Entity is a registered rider: a reference to the template it was
// instantiated from, its world-space offset, and its initial velocity.
type Entity struct {
	Template        TemplateID
	Offset          vec2.Vec2
	InitialVelocity vec2.Vec2
}

// Registry owns every registered skeleton template and every entity
// instantiated from one. Templates are never removed once registered;
// entities may be added and removed freely. Ids for both are assigned in
// insertion order and are never reused, so a Registry's id spaces only
// grow.
type Registry struct {
	templates     map[TemplateID]*Template
	templateOrder []TemplateID

	entities     map[EntityID]*Entity
	entityOrder  []EntityID
	nextEntityID EntityID
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: map[TemplateID]*Template{},
		entities:  map[EntityID]*Entity{},
	}
}

// RegisterTemplate adds t to the registry and returns its id.
func (r *Registry) RegisterTemplate(t *Template) TemplateID {
	id := TemplateID(len(r.templates))
	r.templates[id] = t
	r.templateOrder = append(r.templateOrder, id)
	return id
}

// Template returns the template registered under id.
func (r *Registry) Template(id TemplateID) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// Templates returns every registered template id, in registration order.
func (r *Registry) Templates() []TemplateID { return r.templateOrder }

// AddEntity instantiates templateID at offset with the given initial
// velocity and returns its id. Reports false if templateID is not
// registered.
func (r *Registry) AddEntity(templateID TemplateID, offset, initialVelocity vec2.Vec2) (EntityID, bool) {
	if _, ok := r.templates[templateID]; !ok {
		return 0, false
	}
	// A counter, not len(r.entities): removals shrink the map, and a
	// length-derived id would collide with a still-live entity.
	id := r.nextEntityID
	r.nextEntityID++
	r.entities[id] = &Entity{Template: templateID, Offset: offset, InitialVelocity: initialVelocity}
	r.entityOrder = append(r.entityOrder, id)
	return id, true
}

// SetEntityOffset updates an existing entity's world-space offset.
// Reports false if id is not a live entity.
func (r *Registry) SetEntityOffset(id EntityID, offset vec2.Vec2) bool {
	e, ok := r.entities[id]
	if !ok {
		return false
	}
	e.Offset = offset
	return true
}

// SetEntityInitialVelocity updates an existing entity's initial
// velocity. Reports false if id is not a live entity.
func (r *Registry) SetEntityInitialVelocity(id EntityID, v vec2.Vec2) bool {
	e, ok := r.entities[id]
	if !ok {
		return false
	}
	e.InitialVelocity = v
	return true
}

// RemoveEntity removes id from the registry. Reports false if id was not
// a live entity.
func (r *Registry) RemoveEntity(id EntityID) bool {
	if _, ok := r.entities[id]; !ok {
		return false
	}
	delete(r.entities, id)
	for i, existing := range r.entityOrder {
		if existing == id {
			r.entityOrder = append(r.entityOrder[:i], r.entityOrder[i+1:]...)
			break
		}
	}
	return true
}

// Entity returns the entity registered under id.
func (r *Registry) Entity(id EntityID) (*Entity, bool) {
	e, ok := r.entities[id]
	return e, ok
}

// Entities returns every live entity id, in insertion order.
func (r *Registry) Entities() []EntityID { return r.entityOrder }

// InitialState builds the frame-0 State for entity id. Reports ok=false
// if id is not a live entity.
func (r *Registry) InitialState(id EntityID) (state *State, ok bool) {
	e, ok := r.entities[id]
	if !ok {
		return nil, false
	}
	t := r.templates[e.Template]
	return NewInitialState(t, e.Offset, e.InitialVelocity), true
}
