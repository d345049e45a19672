package realtime

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBufferSize = 100
	DefaultMaxClients = 1000
)

// ErrTooManyConnections is returned by Register when the registry is full
var ErrTooManyConnections = errors.New("maximum number of subscribers reached")

// Connection is one live subscriber. Messages are queued on a buffered
// channel and read by the transport (the SSE handler).
type Connection struct {
	ID          string
	Email       string
	ConnectedAt time.Time

	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once
}

// Messages returns the queue the transport drains
func (c *Connection) Messages() <-chan Message {
	return c.ch
}

// Done is closed when the connection is unregistered
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// IsBroadcastOnly reports whether the subscriber gave no customer identity
func (c *Connection) IsBroadcastOnly() bool {
	return c.Email == ""
}

func (c *Connection) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// DropObserver is told about every message dropped on a full queue
type DropObserver func(event string)

// Registry maps customer emails to their live connections. Emails are
// matched case-insensitively. Every connection, identified or not, also
// sits in the broadcast set.
type Registry struct {
	mu      sync.RWMutex
	byEmail map[string]map[string]*Connection
	all     map[string]*Connection

	bufferSize int
	maxClients int
	onDrop     DropObserver
	dropped    atomic.Int64
	logger     *zap.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithBufferSize sets the per-connection queue size
func WithBufferSize(size int) RegistryOption {
	return func(r *Registry) {
		if size > 0 {
			r.bufferSize = size
		}
	}
}

// WithMaxClients caps concurrent connections. Zero means unlimited.
func WithMaxClients(max int) RegistryOption {
	return func(r *Registry) {
		r.maxClients = max
	}
}

// WithDropObserver registers a callback for dropped messages
func WithDropObserver(fn DropObserver) RegistryOption {
	return func(r *Registry) {
		r.onDrop = fn
	}
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		byEmail:    make(map[string]map[string]*Connection),
		all:        make(map[string]*Connection),
		bufferSize: DefaultBufferSize,
		maxClients: DefaultMaxClients,
		logger:     logger.Named("realtime"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register adds a connection bound to email. An empty email is allowed: the
// connection then only receives broadcasts.
func (r *Registry) Register(email string) (*Connection, error) {
	email = normalize(email)
	conn := &Connection{
		ID:          uuid.New().String(),
		Email:       email,
		ConnectedAt: time.Now(),
		ch:          make(chan Message, r.bufferSize),
		done:        make(chan struct{}),
	}

	r.mu.Lock()
	if r.maxClients > 0 && len(r.all) >= r.maxClients {
		r.mu.Unlock()
		return nil, ErrTooManyConnections
	}
	r.all[conn.ID] = conn
	if email != "" {
		set, ok := r.byEmail[email]
		if !ok {
			set = make(map[string]*Connection)
			r.byEmail[email] = set
		}
		set[conn.ID] = conn
	}
	r.mu.Unlock()

	if email == "" {
		r.logger.Warn("subscriber connected without customer identity",
			zap.String("connection_id", conn.ID))
	} else {
		r.logger.Info("subscriber connected",
			zap.String("connection_id", conn.ID),
			zap.String("customer", email))
	}
	return conn, nil
}

// Unregister removes the connection and closes its Done channel.
// Calling it twice is harmless.
func (r *Registry) Unregister(conn *Connection) {
	r.mu.Lock()
	_, present := r.all[conn.ID]
	delete(r.all, conn.ID)
	if set, ok := r.byEmail[conn.Email]; ok {
		delete(set, conn.ID)
		if len(set) == 0 {
			delete(r.byEmail, conn.Email)
		}
	}
	r.mu.Unlock()

	conn.close()
	if present {
		r.logger.Info("subscriber disconnected",
			zap.String("connection_id", conn.ID),
			zap.String("customer", conn.Email))
	}
}

// SendTo queues msg for every connection of email and returns how many
// connections accepted it
func (r *Registry) SendTo(email string, msg Message) int {
	email = normalize(email)
	if email == "" {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, conn := range r.byEmail[email] {
		if r.offer(conn, msg) {
			delivered++
		}
	}
	return delivered
}

// Broadcast queues msg for every connection and returns how many accepted it
func (r *Registry) Broadcast(msg Message) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, conn := range r.all {
		if r.offer(conn, msg) {
			delivered++
		}
	}
	return delivered
}

// offer never blocks: a full queue drops the message
func (r *Registry) offer(conn *Connection, msg Message) bool {
	select {
	case conn.ch <- msg:
		return true
	default:
		r.dropped.Add(1)
		if r.onDrop != nil {
			r.onDrop(msg.Event)
		}
		r.logger.Warn("subscriber queue full, dropping message",
			zap.String("connection_id", conn.ID),
			zap.String("event", msg.Event))
		return false
	}
}

// Count returns the number of live connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.all)
}

// CountFor returns the number of live connections bound to email
func (r *Registry) CountFor(email string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail[normalize(email)])
}

// Dropped returns how many messages were dropped on full queues
func (r *Registry) Dropped() int64 {
	return r.dropped.Load()
}

// Close unregisters every connection
func (r *Registry) Close() {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.all))
	for _, conn := range r.all {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		r.Unregister(conn)
	}
}
