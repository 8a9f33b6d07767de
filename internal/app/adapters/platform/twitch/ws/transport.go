package ws

import (
	"context"
	"errors"
	"fmt"
	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"
	"log/slog"
	"net"
	"sync"
	"time"
	"twitchoverlay/internal/app/adapters/platform/twitch/irc"
	"twitchoverlay/pkg/logger"
)

var errNotOpen = errors.New("websocket is not open")

const writeWait = 10 * time.Second

// Transport is an irc.Transport over a single gorilla websocket connection.
// Only text frames are delivered; binary frames are dropped.
type Transport struct {
	log    logger.Logger
	dialer *websocket.Dialer

	mu       sync.Mutex
	conn     *websocket.Conn
	closing  bool
	onText   func(string)
	onError  func(error)
	onClosed func()

	writeMu sync.Mutex
}

func New(log logger.Logger, dialer *websocket.Dialer) *Transport {
	if dialer == nil {
		dialer = NewDialer(nil)
	}
	return &Transport{log: log, dialer: dialer}
}

// NewFactory returns an irc.TransportFactory sharing one dialer.
func NewFactory(log logger.Logger, dialer *websocket.Dialer) irc.TransportFactory {
	return func() irc.Transport {
		return New(log, dialer)
	}
}

// NewDialer builds a websocket dialer, optionally routed through a SOCKS5 proxy.
func NewDialer(socks proxy.Dialer) *websocket.Dialer {
	d := &websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
	}

	if socks != nil {
		if cd, ok := socks.(proxy.ContextDialer); ok {
			d.NetDialContext = cd.DialContext
		} else {
			d.NetDialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return socks.Dial(network, addr)
			}
		}
	}

	return d
}

// NewSOCKS5 returns a proxy dialer for addr ("host:port").
func NewSOCKS5(addr string) (proxy.Dialer, error) {
	d, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 %s: %w", addr, err)
	}
	return d, nil
}

func (t *Transport) OnTextMessage(handler func(text string)) {
	t.mu.Lock()
	t.onText = handler
	t.mu.Unlock()
}

func (t *Transport) OnError(handler func(err error)) {
	t.mu.Lock()
	t.onError = handler
	t.mu.Unlock()
}

func (t *Transport) OnClosed(handler func()) {
	t.mu.Lock()
	t.onClosed = handler
	t.mu.Unlock()
}

func (t *Transport) Open(ctx context.Context, endpoint string) error {
	t.mu.Lock()
	if t.conn != nil {
		t.mu.Unlock()
		return errors.New("websocket already open")
	}
	t.mu.Unlock()

	conn, resp, err := t.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %w (status %s)", endpoint, err, resp.Status)
		}
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	t.log.Debug("Websocket opened", slog.String("endpoint", endpoint))
	go t.readLoop(conn)

	return nil
}

func (t *Transport) readLoop(conn *websocket.Conn) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.finish(err)
			return
		}

		if mt != websocket.TextMessage {
			t.log.Trace("Skipping non-text websocket frame", slog.Int("type", mt))
			continue
		}

		t.mu.Lock()
		onText := t.onText
		t.mu.Unlock()

		if onText != nil {
			onText(string(data))
		}
	}
}

func (t *Transport) finish(err error) {
	t.mu.Lock()
	closing := t.closing
	t.closing = true
	onError, onClosed := t.onError, t.onClosed
	conn := t.conn
	t.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}

	normal := websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
	if !closing && !normal && onError != nil {
		onError(err)
	}
	if onClosed != nil {
		onClosed()
	}
}

func (t *Transport) SendText(line string) error {
	t.mu.Lock()
	conn := t.conn
	closing := t.closing
	t.mu.Unlock()

	if conn == nil || closing {
		return errNotOpen
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// Close sends a close frame with code and drops the connection. The read loop
// then reports OnClosed without OnError.
func (t *Transport) Close(code int) error {
	t.mu.Lock()
	conn := t.conn
	if conn == nil || t.closing {
		t.closing = true
		t.mu.Unlock()
		return nil
	}
	t.closing = true
	t.mu.Unlock()

	t.writeMu.Lock()
	werr := conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), time.Now().Add(writeWait))
	t.writeMu.Unlock()

	cerr := conn.Close()
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		return werr
	}
	return cerr
}
