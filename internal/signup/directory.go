package signup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// UniquenessChecker reports whether a username is still available.
type UniquenessChecker interface {
	Check(ctx context.Context, username string) (bool, error)
}

// AccountCreator persists a submitted form.
type AccountCreator interface {
	Create(ctx context.Context, form Context) error
}

// ErrUsernameTaken is returned by Create for a name that is already registered.
var ErrUsernameTaken = errors.New("username taken")

// Directory is an in-memory account store. It serves as both the uniqueness
// checker and the account creator, optionally delaying every call.
type Directory struct {
	mu            sync.RWMutex
	taken         map[string]struct{}
	checkLatency  time.Duration
	createLatency time.Duration
}

// NewDirectory creates a Directory with the given names already registered.
func NewDirectory(checkLatency, createLatency time.Duration, taken ...string) *Directory {
	d := &Directory{
		taken:         make(map[string]struct{}, len(taken)),
		checkLatency:  checkLatency,
		createLatency: createLatency,
	}
	for _, name := range taken {
		d.taken[name] = struct{}{}
	}
	return d
}

// Check reports true when username is not registered.
func (d *Directory) Check(ctx context.Context, username string) (bool, error) {
	if err := wait(ctx, d.checkLatency); err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, taken := d.taken[username]
	return !taken, nil
}

// Create registers the form's username.
func (d *Directory) Create(ctx context.Context, form Context) error {
	if err := wait(ctx, d.createLatency); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.taken[form.Username]; taken {
		return fmt.Errorf("create %q: %w", form.Username, ErrUsernameTaken)
	}
	d.taken[form.Username] = struct{}{}
	return nil
}

func wait(ctx context.Context, latency time.Duration) error {
	if latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
