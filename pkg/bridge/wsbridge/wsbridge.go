// Package wsbridge feeds a WebSocket stream into the graph as a
// synchronized cell. The connection is dialed when the cell gains its first
// consumer and closed when the last one detaches, so an unobserved stream
// costs nothing.
package wsbridge

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/conterra/cellgraph/pkg/cell"
)

// Config configures a bridge cell.
type Config struct {
	// Dialer establishes the connection. Default: websocket.DefaultDialer.
	Dialer *websocket.Dialer

	// Header is sent with the dial request.
	Header http.Header

	// Dispatch hands the cell's trigger to the execution context that owns
	// the graph. The reader goroutine never touches the graph directly; it
	// only calls Dispatch with the trigger. Default: invoke inline, which is
	// only safe when the graph is driven from the reader goroutine itself.
	Dispatch func(fn func())

	// OnError receives dial and read errors. Default: drop them.
	OnError func(err error)
}

// Option configures a bridge cell.
type Option func(*Config)

// WithDialer sets the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Config) {
		c.Dialer = d
	}
}

// WithHeader sets the dial request header.
func WithHeader(h http.Header) Option {
	return func(c *Config) {
		c.Header = h
	}
}

// WithDispatch sets the hand-off used to run the trigger on the graph's
// execution context.
func WithDispatch(dispatch func(fn func())) Option {
	return func(c *Config) {
		c.Dispatch = dispatch
	}
}

// WithOnError sets the error callback.
func WithOnError(fn func(err error)) Option {
	return func(c *Config) {
		c.OnError = fn
	}
}

// New creates a synchronized cell holding the most recent message received
// on the WebSocket at url. The cell's value is the raw message payload; wrap
// it in a derived cell to decode.
//
// Example:
//
//	quotes := wsbridge.New("wss://feed.example.com/quotes",
//	    wsbridge.WithDispatch(loop.Post),
//	)
//	price := cell.Derive(func() Quote { return decode(quotes.Get()) })
func New(url string, opts ...Option) *cell.Synchronized[[]byte] {
	config := Config{
		Dialer:   websocket.DefaultDialer,
		Dispatch: func(fn func()) { fn() },
		OnError:  func(error) {},
	}
	for _, opt := range opts {
		opt(&config)
	}

	var (
		mu     sync.Mutex
		latest []byte
	)

	pull := func() []byte {
		mu.Lock()
		defer mu.Unlock()
		return latest
	}

	attach := func(trigger func()) cell.Teardown {
		conn, resp, err := config.Dialer.Dial(url, config.Header)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			config.OnError(err)
			return func() {}
		}

		done := make(chan struct{})
		go func() {
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					select {
					case <-done:
						// Teardown closed the connection.
					default:
						config.OnError(err)
					}
					return
				}
				mu.Lock()
				latest = data
				mu.Unlock()
				config.Dispatch(trigger)
			}
		}()

		return func() {
			close(done)
			_ = conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			_ = conn.Close()
		}
	}

	return cell.NewSynchronized(pull, attach).WithEquals(func(a, b []byte) bool {
		// Every received frame counts as a change, even a byte-identical
		// retransmission.
		return false
	})
}
