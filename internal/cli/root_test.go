package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SessionRedisIsClosedWithApp(t *testing.T) {
	o := &RootOptions{SessionRedis: "redis://127.0.0.1:1/0"}

	st, closeStorage, err := o.storage()
	require.NoError(t, err)
	require.NotNil(t, closeStorage)

	app := &App{closers: []func() error{closeStorage}}
	require.NoError(t, app.Close())
	require.NoError(t, app.Close(), "a second close is a no-op")

	_, _, err = st.GetItem(context.Background(), "session")
	assert.ErrorIs(t, err, redis.ErrClosed)
}

func TestStorage_FileHasNothingToClose(t *testing.T) {
	o := &RootOptions{SessionFile: filepath.Join(t.TempDir(), "session.json")}

	_, closeStorage, err := o.storage()
	require.NoError(t, err)
	assert.Nil(t, closeStorage)
}

func TestApp_CloseJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	app := &App{closers: []func() error{
		func() error { calls++; return boom },
		func() error { calls++; return nil },
	}}

	err := app.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestRootCommand_TrimsAPIURLAndClosesAfterRun(t *testing.T) {
	cmd, opts := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"--api", "http://127.0.0.1:1/api/",
		"--session-file", filepath.Join(t.TempDir(), "session.json"),
	}))
	require.NoError(t, opts.build(context.Background(), cmd))
	assert.Equal(t, "http://127.0.0.1:1/api", opts.APIURL)

	closed := false
	opts.app.closers = append(opts.app.closers, func() error { closed = true; return nil })
	require.NoError(t, cmd.PersistentPostRunE(cmd, nil))
	assert.True(t, closed)
}
