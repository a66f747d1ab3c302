package rally

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stampwalk/stampwalk/internal/gateway"
)

// fakeStore is an in-memory Store without expiry.
type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) Set(key, value string, expiryDays int) error {
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

// fakePlayer records media calls in order.
type fakePlayer struct {
	calls []string
}

func (p *fakePlayer) Play()   { p.calls = append(p.calls, "play") }
func (p *fakePlayer) Pause()  { p.calls = append(p.calls, "pause") }
func (p *fakePlayer) Rewind() { p.calls = append(p.calls, "rewind") }

// fakeGateway serves canned catalog data and a pluggable login.
type fakeGateway struct {
	stamps  []gateway.Stamp
	classes []gateway.ClassInfo
	login   func(userName string) (gateway.User, error)
}

func (g *fakeGateway) FetchStampList(ctx context.Context) ([]gateway.Stamp, error) {
	return g.stamps, nil
}

func (g *fakeGateway) FetchClassList(ctx context.Context) ([]gateway.ClassInfo, error) {
	return g.classes, nil
}

func (g *fakeGateway) Login(ctx context.Context, userName string) (gateway.User, error) {
	if g.login == nil {
		return gateway.User{UserID: "uid-1", UserName: userName}, nil
	}
	return g.login(userName)
}

// failingGateway reports a server error on every call.
type failingGateway struct{}

func (failingGateway) FetchStampList(ctx context.Context) ([]gateway.Stamp, error) {
	return nil, &gateway.StatusError{Status: 500, Body: "boom"}
}

func (failingGateway) FetchClassList(ctx context.Context) ([]gateway.ClassInfo, error) {
	return nil, &gateway.StatusError{Status: 500, Body: "boom"}
}

func (failingGateway) Login(ctx context.Context, userName string) (gateway.User, error) {
	return gateway.User{}, &gateway.StatusError{Status: 500, Body: "boom"}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitFor ticks via step until cond holds, failing after one second.
func waitFor(t *testing.T, step func(), cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		step()
		time.Sleep(time.Millisecond)
	}
}
