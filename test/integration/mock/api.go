package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

type cannedResponse struct {
	status int
	body   any
}

// ApiMock is an HTTP server that records every request it receives and
// answers with canned responses, standing in for third-party APIs.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	requests  map[string][]map[string]any
	headers   map[string][]http.Header
	responses map[string]cannedResponse
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requests:  map[string][]map[string]any{},
		headers:   map[string][]http.Header{},
		responses: map[string]cannedResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

// GetUrl returns the server's base URL with a trailing slash.
func (a *ApiMock) GetUrl() string {
	return a.server.URL + "/"
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	a.mu.Lock()
	a.requests[key] = append(a.requests[key], request)
	a.headers[key] = append(a.headers[key], r.Header.Clone())
	resp, ok := a.responses[key]
	a.mu.Unlock()

	if !ok {
		resp = cannedResponse{status: http.StatusOK, body: map[string]any{}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

// SetResponse makes every following method+path request answer with status
// and body.
func (a *ApiMock) SetResponse(method, path string, status int, body any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[method+path] = cannedResponse{status: status, body: body}
}

// RequestCount returns how many method+path requests were received.
func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests[method+path])
}

// GetRequestBody returns the decoded JSON body of the index-th method+path
// request, or nil.
func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	reqs := a.requests[method+path]
	if index < 0 || index >= len(reqs) {
		return nil
	}
	return reqs[index]
}

// GetRequestHeaders returns the headers of the index-th method+path request,
// or nil.
func (a *ApiMock) GetRequestHeaders(method, path string, index int) http.Header {
	a.mu.Lock()
	defer a.mu.Unlock()
	hdrs := a.headers[method+path]
	if index < 0 || index >= len(hdrs) {
		return nil
	}
	return hdrs[index]
}

// Reset forgets every request and canned response.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = map[string][]map[string]any{}
	a.headers = map[string][]http.Header{}
	a.responses = map[string]cannedResponse{}
}
