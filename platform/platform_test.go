package platform_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/barewire/platform"
)

func TestCurrentDefaultsToInMemory(t *testing.T) {
	p, err := platform.Current()
	require.NoError(t, err)
	require.NotNil(t, p.Memory)
	require.NotNil(t, p.IPC)
	require.NotNil(t, p.Sync)
}

func TestInMemoryMapAnonRoundTrip(t *testing.T) {
	p, err := platform.Current()
	require.NoError(t, err)

	h, buf, err := p.Memory.MapAnon(16, platform.Private, platform.ReadWrite)
	require.NoError(t, err)
	buf[0] = 0x42
	require.NoError(t, p.Memory.Unmap(h, buf))
}

func TestInMemorySharedMemoryVisibleAcrossHandles(t *testing.T) {
	p, err := platform.Current()
	require.NoError(t, err)

	h1, buf1, err := p.IPC.CreateSharedMemory("region-a", 8)
	require.NoError(t, err)
	buf1[0] = 9

	h2, buf2, err := p.IPC.OpenSharedMemory("region-a")
	require.NoError(t, err)
	require.Equal(t, byte(9), buf2[0])

	require.NoError(t, p.IPC.CloseSharedMemory(h1))
	require.NoError(t, p.IPC.CloseSharedMemory(h2))
}

func TestInMemoryMutexExclusion(t *testing.T) {
	p, err := platform.Current()
	require.NoError(t, err)

	h, err := p.Sync.CreateMutex("lock-a")
	require.NoError(t, err)

	ok, err := p.Sync.AcquireMutex(h, 0)
	require.NoError(t, err)
	require.True(t, ok)

	h2, err := p.Sync.OpenMutex("lock-a")
	require.NoError(t, err)
	ok, err = p.Sync.AcquireMutex(h2, 20*time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok, "second acquire should time out while first holder has not released")

	require.NoError(t, p.Sync.ReleaseMutex(h))
}

func TestInMemoryResourceExists(t *testing.T) {
	p, err := platform.Current()
	require.NoError(t, err)

	_, err = p.IPC.CreatePipe("greet")
	require.NoError(t, err)

	exists, err := p.IPC.ResourceExists("greet", platform.ResourceNamedPipe)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = p.IPC.ResourceExists("missing", platform.ResourceNamedPipe)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestOwnerReleaseRunsOnce(t *testing.T) {
	calls := 0
	o := platform.NewOwner(func() error {
		calls++
		return nil
	})
	require.NoError(t, o.Release())
	require.NoError(t, o.Release())
	require.Equal(t, 1, calls)
}

func TestOwnerMemoryRoundTrip(t *testing.T) {
	p, err := platform.Current()
	require.NoError(t, err)

	h, buf, err := p.Memory.MapAnon(8, platform.Private, platform.ReadWrite)
	require.NoError(t, err)

	o := platform.NewMemoryOwner(p.Memory, h, buf)
	require.NoError(t, o.Release())
	require.NoError(t, o.Release(), "second release must stay a no-op, not error on an already-unmapped handle")
}

func TestReleaseAllAggregatesEveryFailure(t *testing.T) {
	owners := []*platform.Owner{
		platform.NewOwner(func() error { return nil }),
		platform.NewOwner(func() error { return errFail1 }),
		platform.NewOwner(func() error { return errFail2 }),
	}
	err := platform.ReleaseAll(owners)
	require.Error(t, err)
	require.ErrorIs(t, err, errFail1)
	require.ErrorIs(t, err, errFail2)
}

var (
	errFail1 = fmt.Errorf("release one failed")
	errFail2 = fmt.Errorf("release two failed")
)
