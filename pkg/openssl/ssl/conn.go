package ssl

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
	"github.com/cryptobind/openssl-go/pkg/openssl/logging"
	"github.com/cryptobind/openssl-go/pkg/openssl/x509"
)

// Conn is a TLS connection over an arbitrary net.Conn transport. It owns
// one native SSL handle (which in turn owns its BIO pair) and implements
// net.Conn.
//
// A Conn is not safe for concurrent use: the native handle serializes all
// operations behind one mutex, so a Read blocked on the transport also
// blocks Write.
type Conn struct {
	mu      sync.Mutex
	conn    net.Conn
	cssl    backend.SSL
	ctx     *Context
	client  bool
	hsDone  bool
	closed  bool
	readBuf []byte
}

// Client wraps conn in a TLS client connection using ctx. The server name
// from the Context's Config drives SNI and hostname verification.
func Client(conn net.Conn, ctx *Context) (*Conn, error) {
	return newConn(conn, ctx, true)
}

// Server wraps conn in a TLS server connection using ctx. The Context must
// carry a certificate and private key.
func Server(conn net.Conn, ctx *Context) (*Conn, error) {
	return newConn(conn, ctx, false)
}

func newConn(conn net.Conn, ctx *Context, client bool) (*Conn, error) {
	if conn == nil {
		return nil, errors.New("ssl: nil transport")
	}
	if ctx == nil || ctx.cctx == nil {
		return nil, errors.New("ssl: nil or closed context")
	}
	serverName := ""
	if client {
		serverName = ctx.serverName
	}
	cssl, err := backend.SSLNew(ctx.cctx, client, serverName)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	c := &Conn{
		conn:    conn,
		cssl:    cssl,
		ctx:     ctx,
		client:  client,
		readBuf: make([]byte, 16*1024),
	}
	runtime.SetFinalizer(c, func(cc *Conn) {
		_ = cc.Close()
	})
	return c, nil
}

// Handshake runs the TLS handshake if it has not completed yet. It is
// called implicitly by the first Read or Write.
func (c *Conn) Handshake() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handshakeLocked()
}

func (c *Conn) handshakeLocked() error {
	if c.hsDone {
		return nil
	}
	if c.cssl == nil {
		return net.ErrClosed
	}
	for {
		err := backend.SSLHandshake(c.cssl)
		if ferr := c.flushLocked(); ferr != nil {
			return ferr
		}
		switch {
		case err == nil:
			c.hsDone = true
			if c.ctx.logger != nil {
				c.ctx.logger.Debug(context.Background(), "tls handshake complete",
					"version", backend.SSLVersionString(c.cssl),
					"client", c.client)
			}
			return nil
		case errors.Is(err, backend.ErrWantRead):
			if rerr := c.fillLocked(); rerr != nil {
				return rerr
			}
		case errors.Is(err, backend.ErrWantWrite):
			// Outgoing BIO already flushed above; go around again.
		default:
			remapped := openssl.RemapError(err)
			if c.ctx.logger != nil {
				c.ctx.logger.Error(context.Background(), "tls handshake failed",
					logging.ErrorAttr("error", remapped))
			}
			return remapped
		}
	}
}

// flushLocked moves queued TLS records from the outgoing BIO to the
// transport.
func (c *Conn) flushLocked() error {
	out := backend.SSLTakeOutgoing(c.cssl)
	for len(out) > 0 {
		n, err := c.conn.Write(out)
		if err != nil {
			return err
		}
		out = out[n:]
	}
	return nil
}

// fillLocked reads transport bytes and feeds them to the incoming BIO.
func (c *Conn) fillLocked() error {
	n, err := c.conn.Read(c.readBuf)
	if n > 0 {
		if ferr := backend.SSLFeedIncoming(c.cssl, c.readBuf[:n]); ferr != nil {
			return openssl.RemapError(ferr)
		}
	}
	if err != nil && n == 0 {
		return err
	}
	return nil
}

// Read returns decrypted application data. A clean peer close_notify
// surfaces as io.EOF.
func (c *Conn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.handshakeLocked(); err != nil {
		return 0, err
	}
	for {
		n, err := backend.SSLRead(c.cssl, p)
		if n > 0 {
			// Post-handshake records (tickets, key updates) may have queued
			// responses.
			if ferr := c.flushLocked(); ferr != nil {
				return n, ferr
			}
			return n, nil
		}
		switch {
		case err == nil:
			return 0, nil
		case errors.Is(err, backend.ErrWantRead):
			if ferr := c.flushLocked(); ferr != nil {
				return 0, ferr
			}
			if rerr := c.fillLocked(); rerr != nil {
				return 0, rerr
			}
		case errors.Is(err, backend.ErrShutdown):
			return 0, io.EOF
		default:
			return 0, openssl.RemapError(err)
		}
	}
}

// Write encrypts p and sends the resulting records to the transport.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.handshakeLocked(); err != nil {
		return 0, err
	}
	for {
		n, err := backend.SSLWrite(c.cssl, p)
		if n > 0 {
			if ferr := c.flushLocked(); ferr != nil {
				return 0, ferr
			}
			return n, nil
		}
		switch {
		case err == nil:
			return 0, nil
		case errors.Is(err, backend.ErrWantRead):
			if ferr := c.flushLocked(); ferr != nil {
				return 0, ferr
			}
			if rerr := c.fillLocked(); rerr != nil {
				return 0, rerr
			}
		case errors.Is(err, backend.ErrWantWrite):
			if ferr := c.flushLocked(); ferr != nil {
				return 0, ferr
			}
		default:
			return 0, openssl.RemapError(err)
		}
	}
}

// Close sends close_notify best effort, releases the native handle and
// closes the transport. Safe to call multiple times.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	runtime.SetFinalizer(c, nil)

	var shutdownErr error
	if c.cssl != nil {
		if c.hsDone {
			// Queue the close_notify alert and flush it; do not wait for the
			// peer's reply.
			if err := backend.SSLShutdown(c.cssl); err != nil && !errors.Is(err, backend.ErrWantRead) {
				shutdownErr = openssl.RemapError(err)
			}
			if err := c.flushLocked(); err != nil && shutdownErr == nil {
				shutdownErr = err
			}
		}
		backend.SSLFree(c.cssl)
		c.cssl = nil
	}
	if err := c.conn.Close(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}
	return shutdownErr
}

// PeerCertificate returns the peer's leaf certificate after the handshake.
// The certificate crosses the package boundary in DER so the returned
// wrapper owns an independent native handle.
func (c *Conn) PeerCertificate() (*x509.Certificate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hsDone {
		return nil, errors.New("ssl: handshake not complete")
	}
	ccert, err := backend.SSLPeerCert(c.cssl)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	der, err := backend.CertToDER(ccert)
	backend.CertFree(ccert)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return x509.ParseDER(der)
}

// VersionString reports the negotiated protocol version, for example
// "TLSv1.3". Empty before the handshake.
func (c *Conn) VersionString() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cssl == nil || !c.hsDone {
		return ""
	}
	return backend.SSLVersionString(c.cssl)
}

// LocalAddr returns the transport's local address.
func (c *Conn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// RemoteAddr returns the transport's remote address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// SetDeadline sets the transport deadline for both reads and writes.
func (c *Conn) SetDeadline(t time.Time) error { return c.conn.SetDeadline(t) }

// SetReadDeadline sets the transport read deadline.
func (c *Conn) SetReadDeadline(t time.Time) error { return c.conn.SetReadDeadline(t) }

// SetWriteDeadline sets the transport write deadline.
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.conn.SetWriteDeadline(t) }
