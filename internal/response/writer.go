package response

import (
	"bufio"
	"net"
	"net/http"
)

// Writer wraps http.ResponseWriter and tracks whether a response has been
// written. The error normalizer uses it to guarantee exactly one response
// per request no matter how many processing steps fail.
type Writer struct {
	http.ResponseWriter
	status  int
	written bool
	size    int
}

// NewWriter wraps w. A fresh Writer reports Written() == false until the
// first header or body write.
func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{ResponseWriter: w}
}

// WriteHeader writes the status line once; later calls are ignored.
func (w *Writer) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

// Write sends body bytes, defaulting the status to 200 on first write.
func (w *Writer) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Written reports whether any part of the response has been sent.
func (w *Writer) Written() bool {
	return w.written
}

// Status returns the status code sent to the client, or 0 if none yet.
func (w *Writer) Status() int {
	return w.status
}

// Size returns the number of body bytes written so far.
func (w *Writer) Size() int {
	return w.size
}

// Flush forwards to the underlying writer when it supports flushing.
func (w *Writer) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack forwards connection hijacking when supported.
func (w *Writer) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}
