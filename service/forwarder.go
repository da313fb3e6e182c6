package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/dipsubhro/subterm-proxy/domain"
	"github.com/dipsubhro/subterm-proxy/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DialContextFunc opens a network connection, as net.Dialer.DialContext does.
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type forwarderOptions struct {
	dialContext           DialContextFunc
	responseHeaderTimeout time.Duration
}

// ForwarderOption configures the Forwarder transport.
type ForwarderOption func(*forwarderOptions)

// WithDialContext replaces the dialer used to reach backends.
func WithDialContext(dial DialContextFunc) ForwarderOption {
	return func(o *forwarderOptions) {
		o.dialContext = dial
	}
}

// WithResponseHeaderTimeout limits how long the backend may take to send response headers. Zero means no limit.
func WithResponseHeaderTimeout(d time.Duration) ForwarderOption {
	return func(o *forwarderOptions) {
		o.responseHeaderTimeout = d
	}
}

type forwardKey struct{}

type forwardRequest struct {
	target domain.Target
	rest   *url.URL
}

// Forwarder relays a resolved HTTP request to its backend and streams the response back unchanged.
// One instance is shared by all requests.
type Forwarder struct {
	proxy  *httputil.ReverseProxy
	logger log.Logger
}

// NewForwarder creates a Forwarder. Panics on nil logger.
func NewForwarder(logger log.Logger, opts ...ForwarderOption) *Forwarder {
	o := forwarderOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if o.dialContext != nil {
		transport.DialContext = o.dialContext
	}
	transport.ResponseHeaderTimeout = o.responseHeaderTimeout

	f := &Forwarder{
		logger: log.With(helpers.NilPanic(logger, "service.forwarder.go: logger is required"), "component", "Forwarder"),
	}
	f.proxy = &httputil.ReverseProxy{
		Director:      direct,
		Transport:     transport,
		FlushInterval: -1,
		ErrorHandler:  f.handleError,
	}
	return f
}

// Forward sends r to target with its path and query replaced by rest (e.g. "/terminal?cols=80").
// Method, headers (Host and X-Forwarded-For included) and body are passed through unchanged.
//
// Returns bad_parameter when rest is not a valid request target. Backend failures are answered with 502
// by Forward itself; once the response has started they abort the connection instead.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, target domain.Target, rest string) error {
	u, err := url.ParseRequestURI(rest)
	if err != nil {
		return NewBadParameterError("invalid forward path", err)
	}

	ctx := context.WithValue(r.Context(), forwardKey{}, forwardRequest{target: target, rest: u})
	out := r.WithContext(ctx)
	// Without a RemoteAddr the proxy leaves X-Forwarded-For as the client sent it.
	out.RemoteAddr = ""
	f.proxy.ServeHTTP(&trackingWriter{ResponseWriter: w}, out)
	return nil
}

func direct(req *http.Request) {
	fr := req.Context().Value(forwardKey{}).(forwardRequest)
	req.URL.Scheme = fr.target.Scheme
	req.URL.Host = fr.target.Address()
	req.URL.Path = fr.rest.Path
	req.URL.RawPath = fr.rest.RawPath
	req.URL.RawQuery = fr.rest.RawQuery
	if _, ok := req.Header["User-Agent"]; !ok {
		// explicitly disable User-Agent so it's not set to default value
		req.Header.Set("User-Agent", "")
	}
}

func (f *Forwarder) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		level.Debug(f.logger).Log("msg", "client went away", "path", r.URL.Path, "err", err)
		return
	}
	level.Error(f.logger).Log("msg", "Proxy error", "target", r.URL.Host, "path", r.URL.Path, "err", err)

	if rerr := NewHTTPResponder(w).RespondError(NewBadGatewayError("Proxy error", err)); errors.Is(rerr, ErrResponseCommitted) {
		panic(http.ErrAbortHandler)
	}
}

// trackingWriter records whether headers have been sent so the error path knows if a 502 is still possible.
type trackingWriter struct {
	http.ResponseWriter
	committed bool
}

func (w *trackingWriter) WriteHeader(code int) {
	// 1xx are informational and may be followed by the final header.
	if code >= 200 {
		w.committed = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.committed = true
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Committed() bool {
	return w.committed || isCommitted(w.ResponseWriter)
}

// Unwrap exposes the underlying writer to http.ResponseController (flush, deadlines).
func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
