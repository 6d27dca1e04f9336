package netsync

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/hectar-glitches/bluetooth-game/internal/game"
)

const (
	// MaxInboundPerSec caps how many peer frames we decode per second. A
	// correct peer sends one update per tick plus the odd ping; anything far
	// above that is a bug or a flood.
	MaxInboundPerSec = 200

	PingInterval = 5 * time.Second
	WriteTimeout = 2 * time.Second

	DialRetryDelay = 2 * time.Second
	DialAttempts   = 30
)

var peerUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Peer connections are addressed directly, not from a browser page.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EngineSink is the slice of the engine the transport needs. Kept as an
// interface so peer tests run against a recording stub.
type EngineSink interface {
	LocalID() string
	RegisterRemote(id string)
	EnqueueRemoteUpdate(u game.StateUpdate)
}

// Peer owns the single WebSocket to the opposing participant. The host
// accepts it via Handler; the client establishes it via Dial. Either way the
// connection behaves identically once up: inbound frames feed the engine,
// Send pushes the local ship out.
type Peer struct {
	engine EngineSink

	mu   sync.Mutex
	conn *websocket.Conn

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	stopChan chan struct{}
	stopOnce sync.Once

	dropped  uint64 // atomic, malformed or rate-limited frames
	received uint64 // atomic
}

// NewPeer creates a transport bound to the engine.
func NewPeer(engine EngineSink) *Peer {
	p := &Peer{
		engine:   engine,
		limiter:  rate.NewLimiter(MaxInboundPerSec, MaxInboundPerSec/10),
		stopChan: make(chan struct{}),
	}

	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "peer-dial",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("🔌 Peer dial breaker %s: %s -> %s", name, from, to)
		},
	})

	return p
}

// Handler returns the HTTP handler the host mounts for the peer endpoint.
// Only one peer connection is held at a time; a newcomer replaces a stale
// predecessor, which covers the client reconnecting after a drop.
func (p *Peer) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := peerUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("⚠️ Peer upgrade failed: %v", err)
			return
		}
		p.attach(conn)
	}
}

// Dial connects to the host, retrying through the circuit breaker until a
// connection lands or the retries are exhausted.
func (p *Peer) Dial(url string) error {
	var lastErr error
	for attempt := 0; attempt < DialAttempts; attempt++ {
		result, err := p.breaker.Execute(func() (interface{}, error) {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				return nil, err
			}
			return conn, nil
		})
		if err == nil {
			p.attach(result.(*websocket.Conn))
			return nil
		}
		lastErr = err

		select {
		case <-p.stopChan:
			return fmt.Errorf("netsync: dial aborted: %w", lastErr)
		case <-time.After(DialRetryDelay):
		}
	}
	return fmt.Errorf("netsync: dial %s: %w", url, lastErr)
}

// attach installs a live connection, announces the local id and starts the
// read and keep-alive loops.
func (p *Peer) attach(conn *websocket.Conn) {
	p.mu.Lock()
	if p.conn != nil {
		p.conn.Close()
	}
	p.conn = conn
	p.mu.Unlock()

	log.Printf("🔗 Peer connected: %s", conn.RemoteAddr())

	p.write(NewHelloMessage(p.engine.LocalID()))

	go p.readLoop(conn)
	go p.pingLoop(conn)
}

// Send publishes the local ship's state. Installed as the engine's outbound
// sink; a missing connection is a silent no-op since the peer may simply
// not have joined yet.
func (p *Peer) Send(u game.StateUpdate) {
	p.write(NewUpdateMessage(u))
}

func (p *Peer) write(msg Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	p.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("⚠️ Peer write failed, dropping connection: %v", err)
		p.conn.Close()
		p.conn = nil
	}
}

// readLoop decodes inbound frames until the connection dies. Malformed and
// over-rate frames are counted and dropped; they never tear the connection
// down.
func (p *Peer) readLoop(conn *websocket.Conn) {
	defer p.detach(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		atomic.AddUint64(&p.received, 1)

		if !p.limiter.Allow() {
			atomic.AddUint64(&p.dropped, 1)
			continue
		}

		msg, err := Decode(data)
		if err != nil {
			atomic.AddUint64(&p.dropped, 1)
			continue
		}

		switch msg.Type {
		case MsgHello:
			p.engine.RegisterRemote(msg.PlayerID)
		case MsgPing:
			// keep-alive only
		case MsgPlayerUpdate:
			p.engine.EnqueueRemoteUpdate(msg.StateUpdate())
		}
	}
}

func (p *Peer) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			stale := p.conn != conn
			p.mu.Unlock()
			if stale {
				return
			}
			p.write(NewPingMessage(p.engine.LocalID()))
		}
	}
}

func (p *Peer) detach(conn *websocket.Conn) {
	p.mu.Lock()
	if p.conn == conn {
		p.conn = nil
	}
	p.mu.Unlock()
	conn.Close()
	log.Println("🔗 Peer disconnected")
}

// Connected reports whether a peer connection is currently live.
func (p *Peer) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// Stats returns transport counters for monitoring.
func (p *Peer) Stats() map[string]interface{} {
	return map[string]interface{}{
		"connected": p.Connected(),
		"received":  atomic.LoadUint64(&p.received),
		"dropped":   atomic.LoadUint64(&p.dropped),
	}
}

// Close shuts the transport down.
func (p *Peer) Close() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
		p.mu.Lock()
		if p.conn != nil {
			p.conn.Close()
			p.conn = nil
		}
		p.mu.Unlock()
	})
}
