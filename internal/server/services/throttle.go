package services

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// throttleSize caps how many distinct emails are tracked at once.
const throttleSize = 10_000

// loginThrottle counts failed logins per email. A counter expires window
// after the last failure; a successful login clears it.
type loginThrottle struct {
	mu       sync.Mutex
	failures *expirable.LRU[string, int]
	max      int
}

// newLoginThrottle returns nil when maxAttempts is not positive, which disables
// throttling.
func newLoginThrottle(maxAttempts int, window time.Duration) *loginThrottle {
	if maxAttempts <= 0 || window <= 0 {
		return nil
	}
	return &loginThrottle{
		failures: expirable.NewLRU[string, int](throttleSize, nil, window),
		max:      maxAttempts,
	}
}

func (t *loginThrottle) blocked(email string) bool {
	if t == nil {
		return false
	}
	n, _ := t.failures.Get(email)
	return n >= t.max
}

func (t *loginThrottle) fail(email string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.failures.Get(email)
	t.failures.Add(email, n+1)
}

func (t *loginThrottle) reset(email string) {
	if t == nil {
		return
	}
	t.failures.Remove(email)
}
