package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusServer(t *testing.T, bodies ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(bodies) {
			n = len(bodies) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(bodies[n]))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfirmCmd_Paid(t *testing.T) {
	srv, calls := statusServer(t,
		`{"status":"open","payment_status":"unpaid"}`,
		`{"status":"complete","payment_status":"paid"}`,
	)
	out, err := execute(t, "--base-url", srv.URL, "--interval", "1ms", "cs_test_1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "checking"))
	assert.True(t, strings.HasPrefix(lines[1], "processing"))
	assert.True(t, strings.HasPrefix(lines[2], "paid"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestConfirmCmd_Expired(t *testing.T) {
	srv, _ := statusServer(t, `{"status":"expired","payment_status":"unpaid"}`)
	out, err := execute(t, "--base-url", srv.URL, "--interval", "1ms", "cs_test_2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
	assert.Contains(t, out, "expired")
}

func TestConfirmCmd_TimeoutShownAsPaid(t *testing.T) {
	srv, calls := statusServer(t, `{"status":"open","payment_status":"unpaid"}`)
	out, err := execute(t, "--base-url", srv.URL, "--interval", "1ms", "--attempts", "3", "cs_test_3")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout    attempt=3/3 shown=paid")
	assert.Equal(t, int32(3), calls.Load())
}

func TestConfirmCmd_NoSession(t *testing.T) {
	srv, calls := statusServer(t, `{}`)
	out, err := execute(t, "--base-url", srv.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "paid"))
	assert.Zero(t, calls.Load())
}
