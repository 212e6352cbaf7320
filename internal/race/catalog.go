package race

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-derby/internal/config"
)

// EventKind identifies a halfway map event.
type EventKind int

const (
	EventLightning EventKind = iota
	EventReverseGoal
	EventObstacleDrop
)

var eventKeys = map[EventKind]string{
	EventLightning:    "lightning",
	EventReverseGoal:  "reverse_goal",
	EventObstacleDrop: "obstacle_drop",
}

// String returns the configuration key of the event.
func (k EventKind) String() string {
	if s, ok := eventKeys[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// MarshalText encodes the event as its configuration key.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseEventKind converts a configuration key to an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "obstacle":
		key = "obstacle_drop"
	case "reverse":
		key = "reverse_goal"
	}
	for k, v := range eventKeys {
		if v == key {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event: %s (valid: lightning, reverse_goal, obstacle_drop)", s)
}

// EventSpec is the static description of a map event.
type EventSpec struct {
	Kind        EventKind `json:"kind"`
	Name        string    `json:"name"`
	Message     string    `json:"message"`
	TargetCount int       `json:"target_count,omitempty"`
	CameraTicks int       `json:"camera_ticks"`
}

// DefaultEventSpecs returns the spec of every built-in event.
func DefaultEventSpecs(cfg config.EventsConfig) []EventSpec {
	return []EventSpec{
		{
			Kind:        EventLightning,
			Name:        "Lightning",
			Message:     "Lightning is coming down from the sky!!!",
			TargetCount: cfg.Lightning.TargetCount,
			CameraTicks: cfg.Lightning.CameraTicks,
		},
		{
			Kind:        EventReverseGoal,
			Name:        "Reverse Goal",
			Message:     "REVERSE!! The finish line moves behind the start!!!",
			CameraTicks: cfg.ReverseGoal.CameraTicks,
		},
		{
			Kind:        EventObstacleDrop,
			Name:        "Obstacle Drop",
			Message:     "Rocks are falling from the sky!!!",
			CameraTicks: cfg.ObstacleDrop.CameraTicks,
		},
	}
}

// EventCatalog is the set of events a race may draw from.
type EventCatalog struct {
	specs []EventSpec
}

// NewEventCatalog creates an empty catalog. A race with an empty catalog
// never fires an event.
func NewEventCatalog() *EventCatalog {
	return &EventCatalog{}
}

// CatalogFromConfig registers the built-in events named in cfg.Enabled,
// in that order.
func CatalogFromConfig(cfg config.EventsConfig) (*EventCatalog, error) {
	specs := DefaultEventSpecs(cfg)
	c := NewEventCatalog()
	for _, name := range cfg.Enabled {
		kind, err := ParseEventKind(name)
		if err != nil {
			return nil, err
		}
		for _, s := range specs {
			if s.Kind == kind {
				c.Register(s)
			}
		}
	}
	return c, nil
}

// Register adds an event, replacing any spec of the same kind.
func (c *EventCatalog) Register(spec EventSpec) {
	for i := range c.specs {
		if c.specs[i].Kind == spec.Kind {
			c.specs[i] = spec
			return
		}
	}
	c.specs = append(c.specs, spec)
}

// Len returns the number of registered events.
func (c *EventCatalog) Len() int {
	return len(c.specs)
}

// Specs returns a copy of the registered specs.
func (c *EventCatalog) Specs() []EventSpec {
	out := make([]EventSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Spec returns the spec registered for kind.
func (c *EventCatalog) Spec(kind EventKind) (EventSpec, bool) {
	for _, s := range c.specs {
		if s.Kind == kind {
			return s, true
		}
	}
	return EventSpec{}, false
}
