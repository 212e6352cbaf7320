// Package view turns race snapshots into terminal frames. It also holds
// the small collaborators a watched race reports to: the scene tracker
// and the announcement feed.
package view

import (
	"slices"

	"github.com/vovakirdan/tui-derby/internal/race"
)

// Scene records the objects a race has placed so the renderer can draw
// the ones a snapshot does not carry (bolts and fireworks).
// Not safe for concurrent use; it lives on the goroutine that steps the race.
type Scene struct {
	objects map[race.ObjectID]race.SceneObject
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{objects: make(map[race.ObjectID]race.SceneObject)}
}

// AddObject implements race.Scene.
func (s *Scene) AddObject(obj race.SceneObject) {
	s.objects[obj.ID] = obj
}

// RemoveObject implements race.Scene.
func (s *Scene) RemoveObject(id race.ObjectID) {
	delete(s.objects, id)
}

// Objects returns the live objects in placement order.
func (s *Scene) Objects() []race.SceneObject {
	out := make([]race.SceneObject, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b race.SceneObject) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// Count returns the number of live objects of kind k.
func (s *Scene) Count(k race.ObjectKind) int {
	n := 0
	for _, o := range s.objects {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// Len returns the number of live objects.
func (s *Scene) Len() int {
	return len(s.objects)
}
