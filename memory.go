package softgpu

import "fmt"

// maxPressureRetries bounds the pressure hook calls per allocation.
const maxPressureRetries = 8

// memoryBudget tracks bytes held by device resources against an optional
// limit.
type memoryBudget struct {
	limit int64
	used  int64
	hook  func() bool
}

// reserve charges n bytes for what. Over the limit it calls the pressure
// hook and retries; it fails with ErrOutOfMemory when the hook gives up or
// the retries run out.
func (b *memoryBudget) reserve(n int64, what string) error {
	for attempt := 0; b.limit > 0 && b.used+n > b.limit; attempt++ {
		if b.hook == nil || attempt == maxPressureRetries {
			return b.exhausted(n, what)
		}
		Logger().Warn("softgpu: memory pressure",
			"what", what, "need", n, "used", b.used, "limit", b.limit, "attempt", attempt+1)
		if !b.hook() {
			return b.exhausted(n, what)
		}
	}
	b.used += n
	return nil
}

func (b *memoryBudget) exhausted(n int64, what string) error {
	return fmt.Errorf("%w: %s needs %d bytes, %d of %d in use", ErrOutOfMemory, what, n, b.used, b.limit)
}

// restore charges n bytes without checking the limit. It gives back bytes
// released for a replacement that could not be made.
func (b *memoryBudget) restore(n int64) { b.used += n }

func (b *memoryBudget) release(n int64) {
	b.used = max(b.used-n, 0)
}
