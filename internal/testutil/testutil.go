// Package testutil contains common utility functions for unit tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
)

// FakeClient returns an HTTP client that replies to all requests to the given
// address with the provided body text.
func FakeClient(url string, body []byte) *http.Client {
	srv := &FakeServer{URL: url, Body: body}
	return srv.Client()
}

// A Request is a copy of a request received by a FakeServer.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// A FakeServer answers requests made through its Client without
// touching the network. Requests to URL receive Status (200 if
// unset), Header and Body; requests to any other address receive a
// 404. If Err is set, it is returned instead of a response. Every
// request is recorded.
type FakeServer struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
	Err    error

	mu       sync.Mutex
	requests []Request
}

// Client returns an http.Client whose transport is the FakeServer.
func (s *FakeServer) Client() *http.Client {
	return &http.Client{Transport: s}
}

// Requests returns the requests received so far.
func (s *FakeServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RoundTrip implements http.RoundTripper.
func (s *FakeServer) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := Request{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
	}
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		rec.Body = body
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	rsp := http.Response{
		Header:  make(http.Header),
		Request: req,
	}
	if req.URL.String() == s.URL {
		rsp.StatusCode = s.Status
		if rsp.StatusCode == 0 {
			rsp.StatusCode = http.StatusOK
		}
		for k, v := range s.Header {
			rsp.Header[k] = append([]string(nil), v...)
		}
		rsp.Body = io.NopCloser(bytes.NewReader(s.Body))
	} else {
		rsp.StatusCode = http.StatusNotFound
		rsp.Body = io.NopCloser(strings.NewReader("404 not found"))
	}
	rsp.Status = http.StatusText(rsp.StatusCode)
	return &rsp, nil
}
