package ssl

import (
	"errors"
	"runtime"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
	"github.com/cryptobind/openssl-go/pkg/openssl/logging"
	"github.com/cryptobind/openssl-go/pkg/openssl/x509"
)

// TLS protocol wire versions for Config.MinVersion.
const (
	VersionTLS12 uint16 = 0x0303
	VersionTLS13 uint16 = 0x0304
)

// Config expresses the knobs applied to a new Context. The zero value is a
// client configuration that verifies peers against an empty trust store.
type Config struct {
	// ServerName is sent as SNI and checked against the peer certificate
	// on client connections.
	ServerName string

	// InsecureSkipVerify disables peer certificate verification.
	InsecureSkipVerify bool

	// MinVersion floors the negotiated protocol version. Zero keeps the
	// library default.
	MinVersion uint16

	// UseSystemRoots loads the platform trust store into the context.
	UseSystemRoots bool

	// Roots are additional trusted roots. The context takes its own native
	// references; the certificates stay owned by the caller.
	Roots []*x509.Certificate

	// CertificatePEM and PrivateKeyPEM install a local identity, typically
	// for the server side. Both must be set together.
	CertificatePEM []byte
	PrivateKeyPEM  []byte

	// Logger receives redacted connection lifecycle events. Nil disables
	// logging.
	Logger logging.Logger
}

// Context is an owning wrapper around a native SSL_CTX. One Context can
// back any number of connections; live connections hold their own native
// reference, so closing the Context does not tear them down.
type Context struct {
	cctx       backend.SSLCtx
	serverName string
	logger     logging.Logger
}

// NewContext builds a Context from cfg.
func NewContext(cfg *Config) (*Context, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if (cfg.CertificatePEM == nil) != (cfg.PrivateKeyPEM == nil) {
		return nil, errors.New("ssl: certificate and private key must be set together")
	}

	cctx, err := backend.SSLCtxNew()
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	ctx := &Context{cctx: cctx, serverName: cfg.ServerName, logger: cfg.Logger}
	runtime.SetFinalizer(ctx, func(c *Context) {
		_ = c.Close()
	})

	fail := func(err error) (*Context, error) {
		_ = ctx.Close()
		return nil, openssl.RemapError(err)
	}

	if cfg.MinVersion != 0 {
		if err := backend.SSLCtxSetMinTLSVersion(cctx, cfg.MinVersion); err != nil {
			return fail(err)
		}
	}
	backend.SSLCtxSetVerifyPeer(cctx, !cfg.InsecureSkipVerify)
	if cfg.UseSystemRoots {
		if err := backend.SSLCtxSetDefaultVerifyPaths(cctx); err != nil {
			return fail(err)
		}
	}
	for _, root := range cfg.Roots {
		if err := ctx.addTrusted(root); err != nil {
			return fail(err)
		}
	}
	if cfg.CertificatePEM != nil {
		if err := backend.SSLCtxUseCertificatePEM(cctx, cfg.CertificatePEM); err != nil {
			return fail(err)
		}
		if err := backend.SSLCtxUsePrivateKeyPEM(cctx, cfg.PrivateKeyPEM); err != nil {
			return fail(err)
		}
	}
	return ctx, nil
}

// addTrusted re-parses the root inside this package so the store operates
// on a handle this Context owns; the store then takes its own reference.
func (c *Context) addTrusted(root *x509.Certificate) error {
	der, err := root.DER()
	if err != nil {
		return err
	}
	ccert, err := backend.CertFromDER(der)
	if err != nil {
		return err
	}
	defer backend.CertFree(ccert)
	return backend.SSLCtxAddTrustedCert(c.cctx, ccert)
}

// Close releases the native context. Safe to call multiple times.
func (c *Context) Close() error {
	if c == nil || c.cctx == nil {
		return nil
	}
	backend.SSLCtxFree(c.cctx)
	c.cctx = nil
	runtime.SetFinalizer(c, nil)
	return nil
}
