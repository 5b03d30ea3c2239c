package publish

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// The artifact's fixed name and route. The path is part of the public
// URL handed to the map platform.
const (
	ArtifactName = "offerings.csv"
	ArtifactPath = "/" + ArtifactName
)

// artifactServer serves one immutable CSV document from a local port.
// The platform may probe or retry the URL concurrently; every request
// gets the same bytes, so no locking is needed.
type artifactServer struct {
	ln  net.Listener
	srv *http.Server
}

// artifactHandler builds the router serving the document at the fixed
// artifact path.
func artifactHandler(doc []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get(ArtifactPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+ArtifactName)
		w.Write(doc)
	})

	return r
}

// newArtifactServer binds a loopback listener and starts serving the
// document. port 0 lets the kernel assign a free port.
func newArtifactServer(port int, doc []byte) (*artifactServer, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind local port %d: %w", port, err)
	}

	srv := &http.Server{
		Handler:           artifactHandler(doc),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go srv.Serve(ln) //nolint:errcheck // returns ErrServerClosed on close

	return &artifactServer{ln: ln, srv: srv}, nil
}

// port returns the bound local port.
func (s *artifactServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// close shuts the listener down immediately. In-flight platform
// fetches have already been given the settle delay.
func (s *artifactServer) close() error {
	return s.srv.Close()
}
