package commands

import (
	"sync"

	"robodelivery/internal/core/domain/model/kernel"
)

// RobotLocks serialises work on one robot across goroutines. Locks for
// different robots are independent. Entries are dropped once unused.
type RobotLocks struct {
	mu    sync.Mutex
	locks map[kernel.UUID]*robotLock
}

type robotLock struct {
	mu   sync.Mutex
	refs int
}

func NewRobotLocks() *RobotLocks {
	return &RobotLocks{locks: make(map[kernel.UUID]*robotLock)}
}

// Lock blocks until the robot is free and returns the matching unlock func.
func (l *RobotLocks) Lock(id kernel.UUID) (unlock func()) {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &robotLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()

	return func() {
		lk.mu.Unlock()

		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
