package servers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closable struct {
	closed *[]string
	name   string
}

func (c closable) Close() { *c.closed = append(*c.closed, c.name) }

func TestBaseServer(t *testing.T) {
	t.Parallel()

	var closed []string

	name, server := BuildBaseServer(closable{&closed, "db"}, closable{&closed, "redis"})
	assert.Equal(t, "base-server", name)

	done := make(chan error, 1)

	go func() { done <- server.Run(context.Background()) }()

	require.NoError(t, server.Stop(context.Background()))
	require.NoError(t, server.Stop(context.Background()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("base server did not stop")
	}

	assert.Equal(t, []string{"redis", "db"}, closed)
}

func TestHttpServer(t *testing.T) {
	t.Parallel()

	name, server := BuildHttpServer("rest-server", NewServer("127.0.0.1", "0", http.NotFoundHandler()))
	assert.Equal(t, "rest-server", name)

	done := make(chan error, 1)

	go func() { done <- server.Run(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, server.Stop(context.Background()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("http server did not stop")
	}
}

type failingServer struct{}

func (failingServer) Run(context.Context) error  { return errors.New("boom") }
func (failingServer) Stop(context.Context) error { return nil }

func TestStart(t *testing.T) {
	t.Parallel()

	errChan := make(chan error, 1)
	stopFn := Start(context.Background(), "failing", failingServer{}, errChan)

	select {
	case err := <-errChan:
		require.EqualError(t, err, "boom")
	case <-time.After(time.Second):
		t.Fatal("run error not reported")
	}

	stopFn(context.Background(), time.Second)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("address in use")

	require.ErrorIs(t, ErrServerFailedToStart("rest-server", cause), cause)
	assert.Contains(t, ErrServerFailedToStop("rest-server", cause).Error(), "rest-server")
}
