package session

import (
	"github.com/Fepozopo/pixedit/pkg/edit"
)

// History is an ordered stack of image snapshots, oldest first. Once seeded
// it always holds at least one entry. It is not safe for concurrent use;
// Session serializes access to it.
type History struct {
	entries    []*edit.PixelBuffer
	maxEntries int
}

// NewHistory returns an empty history. maxEntries caps the number of
// snapshots kept (oldest are evicted first); 0 means unlimited.
func NewHistory(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{maxEntries: maxEntries}
}

// Load discards every snapshot and seeds the history with img.
func (h *History) Load(img *edit.PixelBuffer) {
	h.entries = []*edit.PixelBuffer{img}
}

// Push appends img as the new current snapshot.
func (h *History) Push(img *edit.PixelBuffer) {
	h.entries = append(h.entries, img)
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		drop := len(h.entries) - h.maxEntries
		// release references so evicted buffers can be collected
		for i := 0; i < drop; i++ {
			h.entries[i] = nil
		}
		h.entries = append([]*edit.PixelBuffer(nil), h.entries[drop:]...)
	}
}

// Undo removes the current snapshot when more than one exists and reports
// whether it did. Undo on a single-entry history is a no-op.
func (h *History) Undo() bool {
	if len(h.entries) <= 1 {
		return false
	}
	h.entries[len(h.entries)-1] = nil
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Current returns the most recent snapshot, or nil if the history is empty.
func (h *History) Current() *edit.PixelBuffer {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[len(h.entries)-1]
}

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.entries) }

// At returns snapshot i, with 0 being the oldest.
func (h *History) At(i int) *edit.PixelBuffer {
	if i < 0 || i >= len(h.entries) {
		return nil
	}
	return h.entries[i]
}
