package app

import (
	"errors"
	"sync"

	"github.com/nvkv/pairline/internal/core"
	"github.com/nvkv/pairline/internal/domain"
)

// fakeConn captures frames instead of touching a real transport.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	reject bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject {
		return errors.New("backpressure")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func newTestSession(name string, p domain.Profile) (core.MemberSession, *fakeConn) {
	p.Name = name
	conn := &fakeConn{}
	return core.NewMemberSession(&p, conn), conn
}
