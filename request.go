package httpsig

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RequestProvider is a ComponentProvider over an *http.Request. It holds a
// read-only view of the request plus a lazily parsed copy of the query,
// so repeated @query-param lookups parse the query string once. A
// RequestProvider must not be shared across concurrent requests.
type RequestProvider struct {
	r     *http.Request
	query url.Values
}

// NewRequestProvider creates a provider for the given request.
func NewRequestProvider(r *http.Request) *RequestProvider {
	return &RequestProvider{r: r}
}

// Request returns the underlying request.
func (p *RequestProvider) Request() *http.Request { return p.r }

// Method returns the request method.
func (p *RequestProvider) Method() string { return p.r.Method }

// Authority returns the lowercased host of the target URI, without the
// port.
func (p *RequestProvider) Authority() string {
	if host := p.r.URL.Hostname(); host != "" {
		return strings.ToLower(host)
	}

	// Server-side requests carry the authority in Request.Host.
	host := p.r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return strings.ToLower(host)
}

// Scheme returns the request scheme (http or https).
func (p *RequestProvider) Scheme() string {
	if p.r.URL.Scheme != "" {
		return strings.ToLower(p.r.URL.Scheme)
	}

	if p.r.TLS != nil {
		return "https"
	}

	return "http"
}

// TargetURI returns the full target URI of the request, including any
// query and fragment.
func (p *RequestProvider) TargetURI() string {
	if p.r.URL.IsAbs() {
		return p.r.URL.String()
	}

	return p.Scheme() + "://" + strings.ToLower(p.r.Host) + p.RequestTarget()
}

// RequestTarget returns the raw path plus the raw query when present.
func (p *RequestProvider) RequestTarget() string {
	target := p.r.URL.EscapedPath()

	if p.r.URL.RawQuery != "" {
		target += "?" + p.r.URL.RawQuery
	}

	return target
}

// Path returns the raw (percent-encoded) path of the target URI.
func (p *RequestProvider) Path() string {
	return p.r.URL.EscapedPath()
}

// Query returns the raw query and whether the target URI has one.
func (p *RequestProvider) Query() (string, bool) {
	if p.r.URL.RawQuery == "" && !p.r.URL.ForceQuery {
		return "", false
	}

	return p.r.URL.RawQuery, true
}

// QueryParam returns the decoded value of the named query parameter. A
// name occurring more than once returns ("", false, nil): RFC 9421
// Section 2.2.8 forbids covering a repeated query parameter, so the
// component is omitted rather than failing.
func (p *RequestProvider) QueryParam(name string) (string, bool, error) {
	if p.query == nil {
		p.query = p.r.URL.Query()
	}

	values := p.query[name]

	switch len(values) {
	case 0:
		return "", false, fmt.Errorf("%w: %q", ErrQueryParamNotFound, name)
	case 1:
		return values[0], true, nil
	default:
		return "", false, nil
	}
}

// Status fails: requests have no status code.
func (p *RequestProvider) Status() (string, error) {
	return "", ErrResponseOnlyComponent
}

// HasField reports whether the named header field is present.
func (p *RequestProvider) HasField(name string) bool {
	if len(p.r.Header.Values(name)) > 0 {
		return true
	}

	return strings.EqualFold(name, "host") && p.r.Host != ""
}

// Field returns the combined value of the named header field. The "host"
// header is special-cased because net/http stores it in Request.Host
// rather than in the header map.
func (p *RequestProvider) Field(name string) (string, bool) {
	values := p.r.Header.Values(name)

	if len(values) == 0 && strings.EqualFold(name, "host") && p.r.Host != "" {
		values = []string{p.r.Host}
	}

	return CombineFieldValues(values)
}

// HasBody reports whether the request carries a body.
func (p *RequestProvider) HasBody() bool {
	return p.r.Body != nil && p.r.ContentLength != 0
}

// ResponseProvider is a ComponentProvider over an *http.Response. Fields
// and @status resolve against the response; request-derived components
// resolve against the originating request when the response carries one.
type ResponseProvider struct {
	resp *http.Response
	req  *RequestProvider
}

// NewResponseProvider creates a provider for the given response.
func NewResponseProvider(resp *http.Response) *ResponseProvider {
	p := &ResponseProvider{resp: resp}
	if resp.Request != nil {
		p.req = NewRequestProvider(resp.Request)
	}

	return p
}

// Status returns the response status code as a decimal string.
func (p *ResponseProvider) Status() (string, error) {
	return strconv.Itoa(p.resp.StatusCode), nil
}

// Method returns the originating request's method.
func (p *ResponseProvider) Method() string {
	if p.req == nil {
		return ""
	}

	return p.req.Method()
}

// Authority returns the originating request's authority.
func (p *ResponseProvider) Authority() string {
	if p.req == nil {
		return ""
	}

	return p.req.Authority()
}

// Scheme returns the originating request's scheme.
func (p *ResponseProvider) Scheme() string {
	if p.req == nil {
		return ""
	}

	return p.req.Scheme()
}

// TargetURI returns the originating request's target URI.
func (p *ResponseProvider) TargetURI() string {
	if p.req == nil {
		return ""
	}

	return p.req.TargetURI()
}

// RequestTarget returns the originating request's request target.
func (p *ResponseProvider) RequestTarget() string {
	if p.req == nil {
		return ""
	}

	return p.req.RequestTarget()
}

// Path returns the originating request's raw path.
func (p *ResponseProvider) Path() string {
	if p.req == nil {
		return ""
	}

	return p.req.Path()
}

// Query returns the originating request's raw query.
func (p *ResponseProvider) Query() (string, bool) {
	if p.req == nil {
		return "", false
	}

	return p.req.Query()
}

// QueryParam returns a query parameter of the originating request.
func (p *ResponseProvider) QueryParam(name string) (string, bool, error) {
	if p.req == nil {
		return "", false, fmt.Errorf("%w: %q", ErrQueryParamNotFound, name)
	}

	return p.req.QueryParam(name)
}

// HasField reports whether the named response header field is present.
func (p *ResponseProvider) HasField(name string) bool {
	return len(p.resp.Header.Values(name)) > 0
}

// Field returns the combined value of the named response header field.
func (p *ResponseProvider) Field(name string) (string, bool) {
	return CombineFieldValues(p.resp.Header.Values(name))
}

// HasBody reports whether the response carries a body.
func (p *ResponseProvider) HasBody() bool {
	return p.resp.Body != nil && p.resp.ContentLength != 0
}
