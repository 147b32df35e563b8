// Package notify shows transient status banners. Each banner is printed
// once and stays in the active set until its time to live runs out.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long a banner stays up.
const DefaultTTL = 3 * time.Second

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
)

type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Center implements the controller's notifier.
type Center struct {
	out io.Writer
	ttl time.Duration
	log zerolog.Logger

	mu     sync.Mutex
	active []Notification
}

// NewCenter writes banners to out. A ttl of zero or less means DefaultTTL.
func NewCenter(out io.Writer, ttl time.Duration, log zerolog.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{out: out, ttl: ttl, log: log}
}

func (c *Center) Notify(message string, severity Severity) {
	c.Push(message, severity)
}

// Push shows a banner and returns it.
func (c *Center) Push(message string, severity Severity) Notification {
	n := Notification{
		ID:        xid.New().String(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.active = append(c.active, n)
	if c.out != nil {
		fmt.Fprintln(c.out, Banner(n))
	}
	c.mu.Unlock()

	ev := c.log.Info()
	if severity == Error {
		ev = c.log.Warn()
	}
	ev.Str("id", n.ID).Str("severity", string(severity)).Msg(message)

	time.AfterFunc(c.ttl, func() { c.remove(n.ID) })
	return n
}

// Active returns the banners that have not expired yet, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.active))
	copy(out, c.active)
	return out
}

func (c *Center) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

// Banner formats a notification for the terminal.
func Banner(n Notification) string {
	switch n.Severity {
	case Success:
		return "[✓] " + n.Message
	case Error:
		return "[✗] " + n.Message
	default:
		return "[ ] " + n.Message
	}
}
