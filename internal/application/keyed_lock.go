package application

import (
	"sync"

	"github.com/bnema/usahome-cli/internal/domain"
)

type keyedLocks struct {
	mu    sync.Mutex
	locks map[domain.Identity]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: map[domain.Identity]*sync.Mutex{}}
}

func (k *keyedLocks) lock(identity domain.Identity) func() {
	k.mu.Lock()
	mu, ok := k.locks[identity]
	if !ok {
		mu = &sync.Mutex{}
		k.locks[identity] = mu
	}
	k.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}
