package llm

import (
	"context"
	"sync"
)

// fakeClient returns canned responses in order and records requests
type fakeClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  []*Request
}

func (f *fakeClient) Complete(_ context.Context, req *Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeClient) Close() error { return nil }
