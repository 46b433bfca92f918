package platform

import (
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Owner wraps a single acquired platform handle with a release function
// that runs at most once, regardless of how many times Release is called
// or whether it is called from a deferred success path, an error path, or
// a recover()-equivalent cleanup.
type Owner struct {
	mu      sync.Mutex
	release func() error
	done    bool
	err     error
}

// NewOwner scopes release to a single Owner. release must be idempotent
// from the caller's perspective; Owner guarantees it only runs once.
func NewOwner(release func() error) *Owner {
	return &Owner{release: release}
}

// Release runs the owner's release function exactly once, memoizing and
// returning its result on every subsequent call.
func (o *Owner) Release() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.done {
		o.done = true
		if o.release != nil {
			o.err = o.release()
		}
	}
	return o.err
}

// NewMemoryOwner scopes an acquired mapping to release via Unmap.
func NewMemoryOwner(m Memory, h Handle, addr []byte) *Owner {
	return NewOwner(func() error { return m.Unmap(h, addr) })
}

// NewPipeOwner scopes an acquired pipe handle to release via ClosePipe.
func NewPipeOwner(ipc IPC, h Handle) *Owner {
	return NewOwner(func() error { return ipc.ClosePipe(h) })
}

// NewSharedMemoryOwner scopes an acquired shared-memory handle to release
// via CloseSharedMemory.
func NewSharedMemoryOwner(ipc IPC, h Handle) *Owner {
	return NewOwner(func() error { return ipc.CloseSharedMemory(h) })
}

// NewSyncOwner scopes an acquired mutex or semaphore handle to release via
// Close, destroying the handle (not merely releasing a held lock — callers
// still call ReleaseMutex/ReleaseSemaphore themselves before this runs).
func NewSyncOwner(s Sync, h Handle) *Owner {
	return NewOwner(func() error { return s.Close(h) })
}

// ReleaseAll releases every owner concurrently and aggregates every
// failure into a single error via errors.Join, rather than stopping at
// the first one: a bulk release must attempt each resource regardless of
// whether an earlier one failed.
func ReleaseAll(owners []*Owner) error {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		allErrs []error
	)
	for _, o := range owners {
		o := o
		g.Go(func() error {
			if err := o.Release(); err != nil {
				mu.Lock()
				allErrs = append(allErrs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(allErrs...)
}
