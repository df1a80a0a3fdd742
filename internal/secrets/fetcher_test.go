package secrets

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeSecretClient struct {
	mu      sync.Mutex
	values  map[string]string
	errors  map[string]error
	counter map[string]int
}

func newFakeSecretClient() *fakeSecretClient {
	return &fakeSecretClient{
		values:  map[string]string{},
		errors:  map[string]error{},
		counter: map[string]int{},
	}
}

func (f *fakeSecretClient) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := req.GetName()
	f.counter[name]++
	if err := f.errors[name]; err != nil {
		return nil, err
	}
	if value, ok := f.values[name]; ok {
		return &secretmanagerpb.AccessSecretVersionResponse{
			Payload: &secretmanagerpb.SecretPayload{Data: []byte(value)},
		}, nil
	}
	return nil, status.Error(codes.NotFound, "not found")
}

func (f *fakeSecretClient) Close() error { return nil }

func (f *fakeSecretClient) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counter[name]
}

func writeFallback(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".secrets.local")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveCachesRemoteSecret(t *testing.T) {
	ctx := context.Background()
	client := newFakeSecretClient()
	resource := "projects/ember/secrets/menu-session-key/versions/latest"
	client.values[resource] = "remote-key"

	f, err := NewFetcher(ctx, WithSecretManagerClient(client), WithProject("ember"), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer f.Close()

	for i := 0; i < 2; i++ {
		got, err := f.Resolve(ctx, "secret://menu-session-key")
		require.NoError(t, err)
		assert.Equal(t, "remote-key", got)
	}
	assert.Equal(t, 1, client.calls(resource))

	f.Invalidate("secret://menu-session-key")
	_, err = f.Resolve(ctx, "secret://menu-session-key")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls(resource))
}

func TestResolveHonoursVersionAndProject(t *testing.T) {
	ctx := context.Background()
	client := newFakeSecretClient()
	client.values["projects/other/secrets/menu-session-key/versions/3"] = "pinned"

	f, err := NewFetcher(ctx, WithSecretManagerClient(client), WithProject("ember"))
	require.NoError(t, err)

	got, err := f.Resolve(ctx, "secret://menu-session-key?version=3&project=other")
	require.NoError(t, err)
	assert.Equal(t, "pinned", got)
}

func TestResolveFallsBackWhenSecretManagerUnavailable(t *testing.T) {
	ctx := context.Background()
	client := newFakeSecretClient()
	client.errors["projects/ember/secrets/menu-session-key/versions/latest"] = status.Error(codes.PermissionDenied, "denied")
	path := writeFallback(t, "# local only\nsm://menu-session-key = bG9jYWw=\n")

	f, err := NewFetcher(ctx, WithSecretManagerClient(client), WithProject("ember"), WithFallbackFile(path))
	require.NoError(t, err)

	got, err := f.Resolve(ctx, "secret://menu-session-key")
	require.NoError(t, err)
	assert.Equal(t, "bG9jYWw=", got)
}

func TestResolveDoesNotMaskRemoteFailures(t *testing.T) {
	ctx := context.Background()
	client := newFakeSecretClient()
	path := writeFallback(t, "secret://menu-session-key=local\n")

	f, err := NewFetcher(ctx, WithSecretManagerClient(client), WithProject("ember"), WithFallbackFile(path))
	require.NoError(t, err)

	_, err = f.Resolve(ctx, "secret://menu-session-key")
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestResolveWithoutProjectUsesFallbackOnly(t *testing.T) {
	ctx := context.Background()
	path := writeFallback(t, "secret://menu-session-key=local-key\nnot a secret line\n")

	f, err := NewFetcher(ctx, WithFallbackFile(path))
	require.NoError(t, err)
	assert.Nil(t, f.client)

	got, err := f.Resolve(ctx, "secret://menu-session-key?version=7")
	require.NoError(t, err)
	assert.Equal(t, "local-key", got)

	_, err = f.Resolve(ctx, "secret://missing")
	assert.ErrorContains(t, err, "fallback value not found")
}

func TestParseReferenceRejectsBadInput(t *testing.T) {
	for _, ref := range []string{"", "https://example.com/key", "secret://"} {
		_, err := parseReference(ref)
		assert.Error(t, err, ref)
	}
}
