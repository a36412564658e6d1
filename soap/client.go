package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/CognitoIQ/go-wsdl/xmltree"
)

// A Session carries the cookie a server hands out between calls.
// Only one RequestResponse call runs at a time per Session; the zero
// value is ready to use.
type Session struct {
	mu     sync.Mutex
	cookie string
}

// Cookie returns the value sent in the Cookie header of the next
// call.
func (s *Session) Cookie() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookie
}

// SetCookie replaces the stored cookie.
func (s *Session) SetCookie(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = cookie
}

// Envelope wraps the elements of in in a SOAP 1.1 envelope, inside
// an element named method in the namespace ns.
func Envelope(ns, method string, in Marshaler) xmltree.Element {
	call := xmltree.New(ns, method)
	call.Children = in.ToElements()

	body := xmltree.New(EnvelopeNS, "Body")
	body.Children = []xmltree.Element{call}

	env := xmltree.New(EnvelopeNS, "Envelope")
	env.Scope = []xml.Name{{Space: EnvelopeNS, Local: "soap"}}
	env.Children = []xmltree.Element{body}
	return env
}

func newRequest(ctx context.Context, baseURL, ns, method, contentType string, in Marshaler) (*http.Request, error) {
	env := Envelope(ns, method, in)
	var body bytes.Buffer
	if err := xmltree.Encode(&body, &env); err != nil {
		return nil, &RequestError{Method: method, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, &body)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("MessageType", "Call")
	return req, nil
}

func do(client *http.Client, req *http.Request, method string) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	rsp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	return rsp, nil
}

// OneWay sends a call that has no response message. The response
// body is read and discarded.
func OneWay(ctx context.Context, client *http.Client, baseURL, ns, method string, in Marshaler) error {
	req, err := newRequest(ctx, baseURL, ns, method, "text/xml", in)
	if err != nil {
		return err
	}
	rsp, err := do(client, req, method)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()
	if _, err := io.Copy(io.Discard, rsp.Body); err != nil {
		return &TransportError{Method: method, StatusCode: rsp.StatusCode, Err: err}
	}
	return nil
}

// RequestResponse sends a call and decodes the first element of the
// response body into out. If s is not nil, its cookie is sent with
// the request and replaced by any cookies set in the response, and
// s is locked for the duration of the call.
//
// A fault in the response is returned as a *Fault. A response with
// another non-2xx status is returned as a *TransportError.
func RequestResponse(ctx context.Context, client *http.Client, baseURL string, s *Session, ns, method string, in Marshaler, out Unmarshaler) error {
	if s != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	req, err := newRequest(ctx, baseURL, ns, method, "application/soap+xml", in)
	if err != nil {
		return err
	}
	if s != nil && s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}
	rsp, err := do(client, req, method)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	if s != nil {
		if cookies := rsp.Cookies(); len(cookies) > 0 {
			pairs := make([]string, 0, len(cookies))
			for _, c := range cookies {
				pairs = append(pairs, c.Name+"="+c.Value)
			}
			s.cookie = strings.Join(pairs, "; ")
		}
	}
	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return &TransportError{Method: method, StatusCode: rsp.StatusCode, Err: err}
	}
	ok := rsp.StatusCode >= 200 && rsp.StatusCode < 300

	body, err := parseEnvelope(data)
	if err != nil {
		if !ok {
			return &TransportError{Method: method, StatusCode: rsp.StatusCode, Err: errors.New(http.StatusText(rsp.StatusCode))}
		}
		return &EnvelopeError{Method: method, Err: err}
	}
	if el := body.Child("", "Fault"); el != nil {
		var fault Fault
		if err := xmltree.Unmarshal(el, &fault); err != nil {
			return &EnvelopeError{Method: method, Err: err}
		}
		return &fault
	}
	if !ok {
		return &TransportError{Method: method, StatusCode: rsp.StatusCode, Err: errors.New(http.StatusText(rsp.StatusCode))}
	}
	if len(body.Children) == 0 {
		return &EnvelopeError{Method: method, Err: errors.New("empty Body")}
	}
	if err := out.FromElement(&body.Children[0]); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func parseEnvelope(data []byte) (*xmltree.Element, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != "Envelope" {
		return nil, fmt.Errorf("root element is <%s>, not <Envelope>", root.Name.Local)
	}
	body := root.Child("", "Body")
	if body == nil {
		return nil, &FieldError{Field: "Body", Err: ErrMissingElement}
	}
	return body, nil
}
