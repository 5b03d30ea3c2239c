package driven

import "context"

// Publication is a live public exposure of one immutable CSV document.
// Nothing is torn down implicitly; the orchestrator closes the tunnel
// and then the listener on every exit path.
type Publication interface {
	// URL is the public address of the document, ending in the fixed
	// artifact path.
	URL() string

	// CloseTunnel disconnects the public tunnel.
	CloseTunnel() error

	// CloseListener shuts down the local HTTP listener.
	CloseListener() error
}

// Publisher exposes a CSV document over a public URL for the duration
// of one pipeline run.
type Publisher interface {
	// Publish binds a local listener serving the document and opens a
	// tunnel to it. Tunnel failures wrap domain.ErrTunnel and are fatal
	// to the run.
	Publish(ctx context.Context, doc []byte) (Publication, error)
}
