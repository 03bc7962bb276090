package credentials

import "sync"

// Bearer holds the credential armed for outgoing API requests. The API
// client asks it for the token on every request instead of keeping a
// default header of its own.
type Bearer struct {
	mu    sync.RWMutex
	token string
}

func NewBearer() *Bearer {
	return &Bearer{}
}

func (b *Bearer) Arm(token string) {
	b.mu.Lock()
	b.token = token
	b.mu.Unlock()
}

func (b *Bearer) Disarm() {
	b.Arm("")
}

// Token returns the armed credential, ok=false when none is armed.
func (b *Bearer) Token() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token, b.token != ""
}
