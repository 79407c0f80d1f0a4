package auth

import "sync"

// Navigator moves the dashboard to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigateFunc adapts a plain function to Navigator. A nil NavigateFunc
// does nothing.
type NavigateFunc func(path string)

func (f NavigateFunc) Navigate(path string) {
	if f != nil {
		f(path)
	}
}

// Bridge lets code that is built before the router exists hold a
// Navigator. Navigate is a no-op until Mount is called.
type Bridge struct {
	mu  sync.RWMutex
	nav Navigator
}

// Mount attaches the router's navigator.
func (b *Bridge) Mount(nav Navigator) {
	b.mu.Lock()
	b.nav = nav
	b.mu.Unlock()
}

// Unmount detaches the navigator again.
func (b *Bridge) Unmount() {
	b.Mount(nil)
}

func (b *Bridge) Navigate(path string) {
	b.mu.RLock()
	nav := b.nav
	b.mu.RUnlock()
	if nav != nil {
		nav.Navigate(path)
	}
}

// Recorder is a Navigator that remembers the last target instead of
// moving anywhere. The HTTP layer hands the target back to the dashboard.
type Recorder struct {
	mu     sync.Mutex
	target string
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	r.target = path
	r.mu.Unlock()
}

// Target returns the last path navigated to, or "".
func (r *Recorder) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}
