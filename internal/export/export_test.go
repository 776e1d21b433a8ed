package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aiden-perkins/codacy-repo-export/internal/codacy"
)

type stubLister struct {
	resp  *codacy.Response
	err   error
	calls int
}

func (s *stubLister) ListOrganizationRepositories(ctx context.Context, provider, organization string) (*codacy.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func newTestRunner(lister *stubLister, outPath string) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	return NewRunner(lister, &out, outPath, zap.NewNop()), &out
}

func TestRunSuccess(t *testing.T) {
	body := `{"data":[{"id":1,"name":"repo-a"}]}`
	lister := &stubLister{resp: &codacy.Response{StatusCode: 200, Body: []byte(body)}}
	outPath := filepath.Join(t.TempDir(), "temp.json")
	runner, out := newTestRunner(lister, outPath)

	require.NoError(t, runner.Run(context.Background(), "gh", "some-org"))

	// Status, raw text, then parsed representation, each on its own line.
	want := fmt.Sprintf("200\n%s\n%s\n", body, body)
	assert.Equal(t, want, out.String())

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, `{
    "data": [
        {
            "id": 1,
            "name": "repo-a"
        }
    ]
}`, string(written))
}

func TestRunNon2xxStillReportedAndPersisted(t *testing.T) {
	body := `{"error":"unauthorized"}`
	lister := &stubLister{resp: &codacy.Response{StatusCode: 401, Body: []byte(body)}}
	outPath := filepath.Join(t.TempDir(), "temp.json")
	runner, out := newTestRunner(lister, outPath)

	require.NoError(t, runner.Run(context.Background(), "gh", "some-org"))

	want := fmt.Sprintf("401\n%s\n%s\n", body, body)
	assert.Equal(t, want, out.String())

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, `{
    "error": "unauthorized"
}`, string(written))
}

func TestRunTransportErrorLeavesFileUntouched(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "temp.json")
	previous := []byte(`{"from":"a prior run"}`)
	require.NoError(t, os.WriteFile(outPath, previous, 0o644))

	lister := &stubLister{err: codacy.NewClientError(codacy.ErrorKindTransport, "request failed", errors.New("connection refused"))}
	runner, out := newTestRunner(lister, outPath)

	err := runner.Run(context.Background(), "gh", "some-org")
	require.Error(t, err)
	assert.True(t, codacy.IsTransportError(err))

	// Nothing printed, prior file content preserved.
	assert.Empty(t, out.String())
	current, readErr := os.ReadFile(outPath)
	require.NoError(t, readErr)
	assert.Equal(t, previous, current)
}

func TestRunDecodeErrorAbortsBeforeWrite(t *testing.T) {
	body := `not json`
	lister := &stubLister{resp: &codacy.Response{StatusCode: 200, Body: []byte(body)}}
	outPath := filepath.Join(t.TempDir(), "temp.json")
	runner, out := newTestRunner(lister, outPath)

	err := runner.Run(context.Background(), "gh", "some-org")
	require.Error(t, err)
	assert.True(t, codacy.IsDecodeError(err))

	// Status and raw text were printed before the abort.
	assert.Equal(t, "200\nnot json\n", out.String())

	// The file write never happened.
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunIsIdempotent(t *testing.T) {
	body := `{"data":[{"id":2,"name":"repo-b"},{"id":1,"name":"repo-a"}]}`
	outPath := filepath.Join(t.TempDir(), "temp.json")

	runOnce := func() []byte {
		lister := &stubLister{resp: &codacy.Response{StatusCode: 200, Body: []byte(body)}}
		runner, _ := newTestRunner(lister, outPath)
		require.NoError(t, runner.Run(context.Background(), "gh", "some-org"))
		written, err := os.ReadFile(outPath)
		require.NoError(t, err)
		return written
	}

	first := runOnce()
	second := runOnce()
	assert.Equal(t, first, second)
}

func TestRunOverwritesPreviousExport(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "temp.json")
	require.NoError(t, os.WriteFile(outPath, []byte(`{"stale":"content that is much longer than the new export"}`), 0o644))

	lister := &stubLister{resp: &codacy.Response{StatusCode: 200, Body: []byte(`{"data":[]}`)}}
	runner, _ := newTestRunner(lister, outPath)

	require.NoError(t, runner.Run(context.Background(), "gh", "some-org"))

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, `{
    "data": []
}`, string(written))
}

func TestRunPassesIdentifiersThrough(t *testing.T) {
	lister := &stubLister{resp: &codacy.Response{StatusCode: 200, Body: []byte(`{}`)}}
	outPath := filepath.Join(t.TempDir(), "temp.json")
	runner, _ := newTestRunner(lister, outPath)

	require.NoError(t, runner.Run(context.Background(), "gh", "some-org"))
	assert.Equal(t, 1, lister.calls)
}
