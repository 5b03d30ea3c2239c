// Package publish exposes a CSV document over a public ngrok URL for
// the duration of one pipeline run: a loopback HTTP listener serving
// the document, fronted by an authenticated tunnel.
package publish

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.ngrok.com/ngrok"
	ngrokconfig "golang.ngrok.com/ngrok/config"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
	"github.com/posterwatch/mapsync-cli/internal/core/ports/driven"
	"github.com/posterwatch/mapsync-cli/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.Publisher = (*Publisher)(nil)

// Config holds configuration for the publisher.
type Config struct {
	// AuthToken authenticates against the tunnel relay (required).
	AuthToken string

	// Domain is an optional reserved tunnel domain. Empty means a
	// random endpoint per run.
	Domain string

	// LocalPort is the local listener port; 0 picks a free port.
	LocalPort int
}

// forwarder is the slice of ngrok.Forwarder the publisher needs.
// Tests substitute a fake through the openTunnel hook.
type forwarder interface {
	URL() string
	Close() error
}

// Publisher binds a local listener per publication and fronts it with
// an ngrok tunnel.
type Publisher struct {
	cfg Config

	// openTunnel opens a tunnel forwarding to the backend URL.
	// Defaults to the real ngrok session; overridden in tests.
	openTunnel func(ctx context.Context, backend *url.URL) (forwarder, error)
}

// NewPublisher creates a publisher.
func NewPublisher(cfg Config) *Publisher {
	p := &Publisher{cfg: cfg}
	p.openTunnel = p.dialNgrok
	return p
}

// Publish serves the document on a loopback listener and opens a
// tunnel to it. The returned publication stays reachable until the
// caller closes it; nothing is torn down on return. Tunnel failures
// wrap domain.ErrTunnel.
func (p *Publisher) Publish(ctx context.Context, doc []byte) (driven.Publication, error) {
	srv, err := newArtifactServer(p.cfg.LocalPort, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTunnel, err)
	}

	backend := &url.URL{Scheme: "http", Host: fmt.Sprintf("127.0.0.1:%d", srv.port())}
	logger.Debug("Serving %s on %s", ArtifactName, backend.Host)

	fwd, err := p.openTunnel(ctx, backend)
	if err != nil {
		// The listener is useless without the tunnel.
		if closeErr := srv.close(); closeErr != nil {
			logger.Warn("Close listener after tunnel failure: %v", closeErr)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTunnel, err)
	}

	return &publication{
		url: strings.TrimSuffix(fwd.URL(), "/") + ArtifactPath,
		fwd: fwd,
		srv: srv,
	}, nil
}

// dialNgrok opens the real tunnel session.
func (p *Publisher) dialNgrok(ctx context.Context, backend *url.URL) (forwarder, error) {
	opts := []ngrokconfig.HTTPEndpointOption{}
	if p.cfg.Domain != "" {
		opts = append(opts, ngrokconfig.WithDomain(p.cfg.Domain))
	}

	return ngrok.ListenAndForward(ctx, backend,
		ngrokconfig.HTTPEndpoint(opts...),
		ngrok.WithAuthtoken(p.cfg.AuthToken),
	)
}

// publication is a live exposure of one document.
type publication struct {
	url string
	fwd forwarder
	srv *artifactServer
}

func (p *publication) URL() string {
	return p.url
}

func (p *publication) CloseTunnel() error {
	return p.fwd.Close()
}

func (p *publication) CloseListener() error {
	return p.srv.close()
}
