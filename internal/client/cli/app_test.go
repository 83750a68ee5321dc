package cli

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/stretchr/testify/require"
)

func TestIsLoggedIn_NoSession(t *testing.T) {
	app := &App{}
	if app.isLoggedIn() {
		t.Fatalf("expected isLoggedIn() == false without a session")
	}
}

func TestIsLoggedIn_WithSession(t *testing.T) {
	app := &App{session: &client.Session{Email: "a@x.io"}}
	if !app.isLoggedIn() {
		t.Fatalf("expected isLoggedIn() == true with a session")
	}
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	app := &App{}
	var buf bytes.Buffer

	old := log.Default().Writer()
	defer log.SetOutput(old)
	log.SetOutput(&buf)

	app.setMode(ModeOnline)
	if app.Mode != ModeOnline {
		t.Fatalf("expected mode to be %q, got %q", ModeOnline, app.Mode)
	}
	if got := buf.String(); got == "" {
		t.Fatalf("expected log output on mode change, got empty")
	}

	buf.Reset()

	app.setMode(ModeOnline)
	if got := buf.String(); got != "" {
		t.Fatalf("expected no log output when mode doesn't change, got: %q", got)
	}

	app.setMode(ModeOffline)
	if app.Mode != ModeOffline {
		t.Fatalf("expected mode to be %q, got %q", ModeOffline, app.Mode)
	}
}

func TestGetStatus(t *testing.T) {
	a := &App{}
	require.Equal(t, "", a.getStatus())

	a.Mode = ModeOnline
	require.Equal(t, "(online)", a.getStatus())

	a.session = &client.Session{Email: "alice@example.org"}
	require.Equal(t, "(alice@example.org online)", a.getStatus())
}

func TestCheckOnline(t *testing.T) {
	silenceLog(t)

	f := &fakeClient{}
	a := &App{client: f}

	a.checkOnline(context.Background())
	require.Equal(t, ModeOnline, a.Mode)

	f.pingErr = client.ErrUnavailable
	a.checkOnline(context.Background())
	require.Equal(t, ModeOffline, a.Mode)
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	silenceLog(t)

	a := &App{client: &fakeClient{pingErr: errors.New("down")}}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestCallContext_UsesRequestTimeout(t *testing.T) {
	a := &App{config: &config.Config{RequestTimeout: time.Minute}}
	ctx, cancel := a.callContext(context.Background())
	defer cancel()

	dl, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Minute), dl, 5*time.Second)

	a = &App{}
	ctx2, cancel2 := a.callContext(context.Background())
	defer cancel2()
	_, ok = ctx2.Deadline()
	require.False(t, ok)
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(&config.Config{ServerEndpointAddr: "passthrough:///127.0.0.1:1"})
	require.NoError(t, err)
	require.NotNil(t, a.client)
	require.NoError(t, a.client.Close())
}
