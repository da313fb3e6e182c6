package domain

import (
	"errors"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBackendPort is the port every session container serves on.
const DefaultBackendPort = 3000

// WorkspacePrefix is the public mount point; everything after /workspace/{session_id} belongs to the container.
const WorkspacePrefix = "/workspace/"

// Target is the backend a session resolves to.
type Target struct {
	Scheme string // http
	Host   string // container name
	Port   int
}

// NewTarget returns the http target for a container.
func NewTarget(containerName string, port int) Target {
	return Target{Scheme: "http", Host: containerName, Port: port}
}

// Address returns host:port for dialing.
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// URL returns the base URL of the target, e.g. http://c1:3000.
func (t Target) URL() *url.URL {
	return &url.URL{Scheme: t.Scheme, Host: t.Address()}
}

func (t Target) String() string {
	return t.URL().String()
}

// ErrMalformedTarget is returned by ParseWorkspaceTarget when the request target is not /workspace/{session_id}[/rest].
var ErrMalformedTarget = errors.New("malformed workspace target")

// workspaceTargetRe: session id is one segment without '/', '?' or '#'; the remainder, if any, starts with '/' or '?'.
var workspaceTargetRe = regexp.MustCompile(`^/workspace/([^/?#]+)([/?].*)?$`)

// WorkspaceTarget is the parsed form of a raw request target.
type WorkspaceTarget struct {
	SessionID string
	// Rest is the request target the backend sees: path (always starting with "/") plus the query string, if any.
	Rest string
}

// ParseWorkspaceTarget splits a raw request target (as found on the request line) into session id and rest.
// "/workspace/abc" yields rest "/", "/workspace/abc?x=1" yields rest "/?x=1".
//
// Returns ErrMalformedTarget for anything else, e.g. "/workspace/", "/workspace//x" or "/nope".
func ParseWorkspaceTarget(raw string) (WorkspaceTarget, error) {
	m := workspaceTargetRe.FindStringSubmatch(raw)
	if m == nil {
		return WorkspaceTarget{}, ErrMalformedTarget
	}
	rest := m[2]
	switch {
	case rest == "":
		rest = "/"
	case strings.HasPrefix(rest, "?"):
		rest = "/" + rest
	}
	return WorkspaceTarget{SessionID: m[1], Rest: rest}, nil
}

// RestURL parses Rest into a request URL suitable for rewriting an outgoing request.
func (w WorkspaceTarget) RestURL() (*url.URL, error) {
	return url.ParseRequestURI(w.Rest)
}
