// Package platform defines the four collaborator interface groups a host
// environment implements to give the library memory mapping, IPC,
// networking, and cross-process synchronization primitives. Only the
// InMemory tag ships a concrete provider in this module; real OS-backed
// providers are a collaborator's responsibility.
package platform

import (
	"fmt"
	"time"
)

// Access describes the read/write permission requested for a mapping.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// Visibility controls whether a mapping is private to this process or
// shared with others.
type Visibility int

const (
	Private Visibility = iota
	Shared
)

// Handle opaquely identifies a platform resource (a mapping, a pipe, a
// socket, a named mutex) for release via the owning provider.
type Handle uintptr

// Memory is the anonymous/file-backed memory mapping contract.
type Memory interface {
	MapAnon(size int, vis Visibility, access Access) (Handle, []byte, error)
	MapFile(path string, offset int64, size int, access Access) (Handle, []byte, error)
	Unmap(h Handle, addr []byte) error
	Flush(h Handle, addr []byte) error
	Lock(addr []byte) error
	Unlock(addr []byte) error
}

// ResourceKind discriminates the kind of named IPC resource.
type ResourceKind int

const (
	ResourceNamedPipe ResourceKind = iota
	ResourceSharedMemory
)

// IPC is the named-pipe and shared-memory contract.
type IPC interface {
	CreatePipe(name string) (Handle, error)
	ConnectPipe(name string) (Handle, error)
	ReadPipe(h Handle, buf []byte) (int, error)
	WritePipe(h Handle, buf []byte) (int, error)
	ClosePipe(h Handle) error

	CreateSharedMemory(name string, size int) (Handle, []byte, error)
	OpenSharedMemory(name string) (Handle, []byte, error)
	CloseSharedMemory(h Handle) error

	ResourceExists(name string, kind ResourceKind) (bool, error)
}

// Network is the raw socket contract. The transport package's adapters
// use the net package directly and do not go through it.
type Network interface {
	Create(family, sockType string) (Handle, error)
	Bind(h Handle, address string) error
	Listen(h Handle, backlog int) error
	Accept(h Handle) (Handle, string, error)
	Connect(h Handle, address string) error
	Send(h Handle, buf []byte) (int, error)
	Recv(h Handle, buf []byte) (int, error)
	Close(h Handle) error
	SetOpt(h Handle, name string, value any) error
	GetOpt(h Handle, name string) (any, error)
	Resolve(host string) ([]string, error)
}

// Sync is the named mutex/semaphore contract used to coordinate
// read-modify-write access to a shared-memory mapping across processes.
type Sync interface {
	CreateMutex(name string) (Handle, error)
	OpenMutex(name string) (Handle, error)
	AcquireMutex(h Handle, timeout time.Duration) (bool, error)
	ReleaseMutex(h Handle) error

	CreateSemaphore(name string, initial int) (Handle, error)
	OpenSemaphore(name string) (Handle, error)
	AcquireSemaphore(h Handle, timeout time.Duration) (bool, error)
	ReleaseSemaphore(h Handle) error

	Close(h Handle) error
}

// Provider bundles the four interface groups for one platform tag.
type Provider struct {
	Memory  Memory
	IPC     IPC
	Network Network
	Sync    Sync
}

// Tag names a platform a Provider targets.
type Tag string

const (
	Windows     Tag = "Windows"
	Linux       Tag = "Linux"
	MacOS       Tag = "MacOS"
	Android     Tag = "Android"
	IOS         Tag = "iOS"
	WebAssembly Tag = "WebAssembly"
	InMemoryTag Tag = "InMemory"
)

var (
	registry = map[Tag]Provider{}
	resolved *Provider
)

// Register installs p as the provider for tag. Intended to be called from
// a collaborator's init or main before any lookup.
func Register(tag Tag, p Provider) {
	registry[tag] = p
}

// Lookup returns the registered provider for tag.
func Lookup(tag Tag) (Provider, error) {
	p, ok := registry[tag]
	if !ok {
		return Provider{}, fmt.Errorf("platform: no provider registered for %q", tag)
	}
	return p, nil
}

// currentTag defaults to InMemory: this module ships no OS-backed
// provider, so a host that wants Windows/Linux/MacOS/Android/iOS/
// WebAssembly behavior must Register one under that Tag and set
// SetCurrentTag before the first Current call.
var currentTag = InMemoryTag

// SetCurrentTag overrides which Tag Current resolves against. Must be
// called before the first Current call; it does not affect an already
// memoized result.
func SetCurrentTag(tag Tag) {
	currentTag = tag
}

// Current resolves the provider for the running platform, memoizing the
// result. Collaborators that need OS-specific behavior register their
// provider under the matching Tag before the first call.
func Current() (Provider, error) {
	if resolved != nil {
		return *resolved, nil
	}
	p, err := Lookup(currentTag)
	if err != nil {
		return Provider{}, err
	}
	resolved = &p
	return p, nil
}

func init() {
	Register(InMemoryTag, NewInMemoryProvider())
}
