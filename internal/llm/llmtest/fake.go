// Package llmtest provides an in-memory llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/resume-tailor/internal/llm"
)

// Fake is a scripted llm.Client. When Respond is set it answers every request;
// otherwise Responses are returned in order and an exhausted queue yields "".
type Fake struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Respond   func(req *llm.Request) (string, error)
	requests  []*llm.Request
}

// New returns a Fake that replies with responses in order
func New(responses ...string) *Fake {
	return &Fake{Responses: responses}
}

// Complete implements llm.Client
func (f *Fake) Complete(_ context.Context, req *llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.Respond != nil {
		return f.Respond(req)
	}
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Responses) == 0 {
		return "", nil
	}
	resp := f.Responses[0]
	f.Responses = f.Responses[1:]
	return resp, nil
}

// Close implements llm.Client
func (f *Fake) Close() error { return nil }

// Requests returns a copy of every request received so far
func (f *Fake) Requests() []*llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*llm.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// LastUserMessage returns the content of the final user message of the most recent request
func (f *Fake) LastUserMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	msgs := f.requests[len(f.requests)-1].Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
