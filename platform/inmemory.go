package platform

import (
	"fmt"
	"sync"
	"time"
)

// NewInMemoryProvider returns the concrete, OS-free provider used for
// tests and same-process use: memory mappings are plain Go slices, IPC
// resources are process-local registries keyed by name, raw sockets are
// not supported (every Network call but Close returns an error), and
// sync primitives are backed by real sync.Mutex/chan semaphores. It is the
// one platform tag this module can implement without an external
// collaborator.
func NewInMemoryProvider() Provider {
	state := newInMemoryState()
	return Provider{
		Memory:  state,
		IPC:     state,
		Network: state,
		Sync:    state,
	}
}

type inMemoryState struct {
	mu sync.Mutex

	nextHandle Handle
	mappings   map[Handle][]byte

	pipes    map[string]*inMemoryPipe
	pipesH   map[Handle]*inMemoryPipe
	shm      map[string][]byte
	shmH     map[Handle]string

	mutexes     map[string]*sync.Mutex
	mutexesH    map[Handle]*sync.Mutex
	semaphores  map[string]chan struct{}
	semaphoresH map[Handle]chan struct{}
}

func newInMemoryState() *inMemoryState {
	return &inMemoryState{
		mappings:    map[Handle][]byte{},
		pipes:       map[string]*inMemoryPipe{},
		pipesH:      map[Handle]*inMemoryPipe{},
		shm:         map[string][]byte{},
		shmH:        map[Handle]string{},
		mutexes:     map[string]*sync.Mutex{},
		mutexesH:    map[Handle]*sync.Mutex{},
		semaphores:  map[string]chan struct{}{},
		semaphoresH: map[Handle]chan struct{}{},
	}
}

func (s *inMemoryState) allocHandle() Handle {
	s.nextHandle++
	return s.nextHandle
}

// --- Memory ---

func (s *inMemoryState) MapAnon(size int, _ Visibility, _ Access) (Handle, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, size)
	h := s.allocHandle()
	s.mappings[h] = buf
	return h, buf, nil
}

func (s *inMemoryState) MapFile(path string, offset int64, size int, access Access) (Handle, []byte, error) {
	return 0, nil, fmt.Errorf("platform: file-backed mapping is not available under the InMemory provider")
}

func (s *inMemoryState) Unmap(h Handle, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, h)
	return nil
}

func (s *inMemoryState) Flush(Handle, []byte) error { return nil }
func (s *inMemoryState) Lock(_ []byte) error        { return nil }
func (s *inMemoryState) Unlock(_ []byte) error       { return nil }

// --- IPC ---

type inMemoryPipe struct {
	mu   sync.Mutex
	data chan byte
}

func (s *inMemoryState) CreatePipe(name string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pipes[name]; ok {
		return 0, fmt.Errorf("platform: pipe %q already exists", name)
	}
	p := &inMemoryPipe{data: make(chan byte, 1<<16)}
	s.pipes[name] = p
	h := s.allocHandle()
	s.pipesH[h] = p
	return h, nil
}

func (s *inMemoryState) ConnectPipe(name string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pipes[name]
	if !ok {
		return 0, fmt.Errorf("platform: no pipe named %q", name)
	}
	h := s.allocHandle()
	s.pipesH[h] = p
	return h, nil
}

func (s *inMemoryState) pipe(h Handle) (*inMemoryPipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pipesH[h]
	if !ok {
		return nil, fmt.Errorf("platform: unknown pipe handle")
	}
	return p, nil
}

func (s *inMemoryState) ReadPipe(h Handle, buf []byte) (int, error) {
	p, err := s.pipe(h)
	if err != nil {
		return 0, err
	}
	n := 0
	for n < len(buf) {
		select {
		case b := <-p.data:
			buf[n] = b
			n++
		default:
			if n == 0 {
				b, ok := <-p.data
				if !ok {
					return 0, fmt.Errorf("platform: pipe closed")
				}
				buf[0] = b
				n = 1
				continue
			}
			return n, nil
		}
	}
	return n, nil
}

func (s *inMemoryState) WritePipe(h Handle, buf []byte) (int, error) {
	p, err := s.pipe(h)
	if err != nil {
		return 0, err
	}
	for _, b := range buf {
		p.data <- b
	}
	return len(buf), nil
}

func (s *inMemoryState) ClosePipe(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pipesH, h)
	return nil
}

func (s *inMemoryState) CreateSharedMemory(name string, size int) (Handle, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shm[name]; ok {
		return 0, nil, fmt.Errorf("platform: shared memory %q already exists", name)
	}
	buf := make([]byte, size)
	s.shm[name] = buf
	h := s.allocHandle()
	s.shmH[h] = name
	return h, buf, nil
}

func (s *inMemoryState) OpenSharedMemory(name string) (Handle, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.shm[name]
	if !ok {
		return 0, nil, fmt.Errorf("platform: no shared memory named %q", name)
	}
	h := s.allocHandle()
	s.shmH[h] = name
	return h, buf, nil
}

func (s *inMemoryState) CloseSharedMemory(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shmH, h)
	return nil
}

func (s *inMemoryState) ResourceExists(name string, kind ResourceKind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case ResourceNamedPipe:
		_, ok := s.pipes[name]
		return ok, nil
	case ResourceSharedMemory:
		_, ok := s.shm[name]
		return ok, nil
	default:
		return false, fmt.Errorf("platform: unknown resource kind")
	}
}

// --- Network ---
//
// The InMemory provider does not implement raw sockets: the transport
// package's InMemoryPair already covers same-process message exchange
// without going through this interface. A real socket-backed platform is
// an out-of-scope collaborator concern.

func (s *inMemoryState) Create(family, sockType string) (Handle, error) {
	return 0, fmt.Errorf("platform: raw sockets are not available under the InMemory provider")
}
func (s *inMemoryState) Bind(Handle, string) error { return fmt.Errorf("platform: not supported") }
func (s *inMemoryState) Listen(Handle, int) error  { return fmt.Errorf("platform: not supported") }
func (s *inMemoryState) Accept(Handle) (Handle, string, error) {
	return 0, "", fmt.Errorf("platform: not supported")
}
func (s *inMemoryState) Connect(Handle, string) error      { return fmt.Errorf("platform: not supported") }
func (s *inMemoryState) Send(Handle, []byte) (int, error)  { return 0, fmt.Errorf("platform: not supported") }
func (s *inMemoryState) Recv(Handle, []byte) (int, error)  { return 0, fmt.Errorf("platform: not supported") }
func (s *inMemoryState) Close(Handle) error                { return nil }
func (s *inMemoryState) SetOpt(Handle, string, any) error  { return fmt.Errorf("platform: not supported") }
func (s *inMemoryState) GetOpt(Handle, string) (any, error) {
	return nil, fmt.Errorf("platform: not supported")
}
func (s *inMemoryState) Resolve(host string) ([]string, error) {
	return nil, fmt.Errorf("platform: not supported")
}

// --- Sync ---

func (s *inMemoryState) CreateMutex(name string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mutexes[name]
	if !ok {
		m = &sync.Mutex{}
		s.mutexes[name] = m
	}
	h := s.allocHandle()
	s.mutexesH[h] = m
	return h, nil
}

func (s *inMemoryState) OpenMutex(name string) (Handle, error) {
	return s.CreateMutex(name)
}

func (s *inMemoryState) AcquireMutex(h Handle, timeout time.Duration) (bool, error) {
	s.mu.Lock()
	m, ok := s.mutexesH[h]
	s.mu.Unlock()
	if !ok {
		return false, fmt.Errorf("platform: unknown mutex handle")
	}
	if timeout <= 0 {
		m.Lock()
		return true, nil
	}
	done := make(chan struct{})
	go func() {
		m.Lock()
		close(done)
	}()
	select {
	case <-done:
		return true, nil
	case <-time.After(timeout):
		return false, nil
	}
}

func (s *inMemoryState) ReleaseMutex(h Handle) error {
	s.mu.Lock()
	m, ok := s.mutexesH[h]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("platform: unknown mutex handle")
	}
	m.Unlock()
	return nil
}

func (s *inMemoryState) CreateSemaphore(name string, initial int) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sem, ok := s.semaphores[name]
	if !ok {
		sem = make(chan struct{}, initial)
		for i := 0; i < initial; i++ {
			sem <- struct{}{}
		}
		s.semaphores[name] = sem
	}
	h := s.allocHandle()
	s.semaphoresH[h] = sem
	return h, nil
}

func (s *inMemoryState) OpenSemaphore(name string) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sem, ok := s.semaphores[name]
	if !ok {
		return 0, fmt.Errorf("platform: no semaphore named %q", name)
	}
	h := s.allocHandle()
	s.semaphoresH[h] = sem
	return h, nil
}

func (s *inMemoryState) AcquireSemaphore(h Handle, timeout time.Duration) (bool, error) {
	s.mu.Lock()
	sem, ok := s.semaphoresH[h]
	s.mu.Unlock()
	if !ok {
		return false, fmt.Errorf("platform: unknown semaphore handle")
	}
	if timeout <= 0 {
		<-sem
		return true, nil
	}
	select {
	case <-sem:
		return true, nil
	case <-time.After(timeout):
		return false, nil
	}
}

func (s *inMemoryState) ReleaseSemaphore(h Handle) error {
	s.mu.Lock()
	sem, ok := s.semaphoresH[h]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("platform: unknown semaphore handle")
	}
	select {
	case sem <- struct{}{}:
	default:
	}
	return nil
}
