package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "Internal server error"
	msgSessionNotFound     = "Session not found"
	msgBadGateway          = "Bad Gateway"
	msgBadRequest          = "Bad Request"
)

// rawWriteTimeout bounds the status line write on a hijacked connection.
const rawWriteTimeout = 5 * time.Second

// ErrResponse is the JSON body of every error the router produces itself: {"error": "...", "detail": "..."}.
type ErrResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewErrorCodeToStatusCodeMaps creates an error code to http status mapping.
func NewErrorCodeToStatusCodeMaps() map[string]int {
	var errorCodeToStatusCodeMaps = make(map[string]int)
	errorCodeToStatusCodeMaps[ErrBadParameter] = http.StatusBadRequest
	errorCodeToStatusCodeMaps[ErrEntityNotFound] = http.StatusNotFound
	errorCodeToStatusCodeMaps[ErrInternalServerError] = http.StatusInternalServerError
	errorCodeToStatusCodeMaps[ErrBadGateway] = http.StatusBadGateway

	return errorCodeToStatusCodeMaps
}

var errorCodeToPublicMessage = map[string]string{
	ErrBadParameter:        msgBadRequest,
	ErrEntityNotFound:      msgSessionNotFound,
	ErrInternalServerError: msgInternalServerError,
	ErrBadGateway:          msgBadGateway,
}

// errorRenderer turns any error into (status, body). Internal messages and wrapped errors are never
// exposed, except the transport failure of a bad_gateway error which becomes "detail".
type errorRenderer struct {
	errorCodeToHTTPStatusCodeMap map[string]int
}

func (r errorRenderer) render(err error) (int, ErrResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok || msg == "" {
			msg = http.StatusText(he.Code)
		}
		return he.Code, ErrResponse{Error: msg}
	}

	myErr := ToMyError(err)
	if myErr == nil {
		myErr = NewMyError(ErrInternalServerError, "an internal server error has occurred", err)
	}

	status, ok := r.errorCodeToHTTPStatusCodeMap[myErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	body := ErrResponse{Error: errorCodeToPublicMessage[myErr.Code]}
	if body.Error == "" {
		body.Error = msgInternalServerError
	}
	if myErr.Code == ErrBadGateway {
		body.Detail = myErr.Message
		if myErr.Inner != nil {
			body.Detail = myErr.Inner.Error()
		}
	}
	return status, body
}

// Responder reports a routing or forwarding failure to the client over whatever channel is still usable.
// There are two variants: an HTTP response that can still carry headers and a JSON body, and a hijacked
// connection that can only take a raw status line before being closed.
type Responder interface {
	// RespondError writes the status (and body, if possible) for err. Returns an error when nothing could be written.
	RespondError(err error) error
}

type httpResponder struct {
	w        http.ResponseWriter
	renderer errorRenderer
}

// NewHTTPResponder creates a Responder writing JSON error bodies to w.
// Nothing is written when w has already sent its headers.
func NewHTTPResponder(w http.ResponseWriter) Responder {
	return &httpResponder{w: w, renderer: errorRenderer{NewErrorCodeToStatusCodeMaps()}}
}

// ErrResponseCommitted is returned by the HTTP responder when headers are already on the wire.
var ErrResponseCommitted = errors.New("response already committed")

func (r *httpResponder) RespondError(err error) error {
	if isCommitted(r.w) {
		return ErrResponseCommitted
	}
	status, body := r.renderer.render(err)
	r.w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.w.WriteHeader(status)
	return json.NewEncoder(r.w).Encode(body)
}

func isCommitted(w http.ResponseWriter) bool {
	switch rw := w.(type) {
	case *echo.Response:
		return rw.Committed
	case interface{ Committed() bool }:
		return rw.Committed()
	}
	return false
}

type connResponder struct {
	conn     net.Conn
	renderer errorRenderer
}

// NewConnResponder creates a Responder for a hijacked client connection. RespondError writes
// "HTTP/1.1 <code> <text>" followed by an empty header block and closes the connection.
func NewConnResponder(conn net.Conn) Responder {
	return &connResponder{conn: conn, renderer: errorRenderer{NewErrorCodeToStatusCodeMaps()}}
}

func (r *connResponder) RespondError(err error) error {
	defer r.conn.Close()
	status, _ := r.renderer.render(err)
	_ = r.conn.SetWriteDeadline(time.Now().Add(rawWriteTimeout))
	_, werr := fmt.Fprintf(r.conn, "HTTP/1.1 %d %s\r\nConnection: close\r\n\r\n", status, http.StatusText(status))
	return werr
}
