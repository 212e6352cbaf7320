package view

// Broadcast keeps the most recent announcements for the HUD ticker.
type Broadcast struct {
	lines []string
	next  int
	full  bool
	total int
}

// NewBroadcast creates a feed that remembers up to capacity lines.
func NewBroadcast(capacity int) *Broadcast {
	if capacity < 1 {
		capacity = 1
	}
	return &Broadcast{lines: make([]string, capacity)}
}

// Announce implements race.Announcer.
func (b *Broadcast) Announce(msg string) {
	b.lines[b.next] = msg
	b.next = (b.next + 1) % len(b.lines)
	if b.next == 0 {
		b.full = true
	}
	b.total++
}

// Lines returns the remembered announcements, oldest first.
func (b *Broadcast) Lines() []string {
	if !b.full {
		return append([]string(nil), b.lines[:b.next]...)
	}
	out := make([]string, 0, len(b.lines))
	out = append(out, b.lines[b.next:]...)
	return append(out, b.lines[:b.next]...)
}

// Last returns the newest announcement, or "" if there is none.
func (b *Broadcast) Last() string {
	if b.total == 0 {
		return ""
	}
	i := (b.next - 1 + len(b.lines)) % len(b.lines)
	return b.lines[i]
}

// Total returns how many announcements were ever made.
func (b *Broadcast) Total() int {
	return b.total
}

// Reset forgets every announcement.
func (b *Broadcast) Reset() {
	clear(b.lines)
	b.next = 0
	b.full = false
	b.total = 0
}
