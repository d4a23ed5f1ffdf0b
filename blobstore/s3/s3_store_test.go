package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/manigo/blobstore"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg)

	// Unique prefix per run so concurrent CI jobs don't collide.
	prefix := fmt.Sprintf("test-manigo-%d/", time.Now().UnixNano())
	store := NewStore(client, bucket, prefix)

	name := "artifacts/roundtrip.mgo"
	payload := []byte("embedding artifact payload")

	t.Cleanup(func() {
		_ = store.Delete(ctx, name)
	})

	require.NoError(t, store.Put(ctx, name, payload))

	b, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(len(payload)), b.Size())

	got := make([]byte, len(payload))
	_, err = b.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Tail read past EOF.
	tail := make([]byte, 8)
	n, err := b.ReadAt(tail, b.Size()-4)
	assert.Equal(t, 4, n)
	assert.Equal(t, io.EOF, err)

	names, err := store.List(ctx, "artifacts/")
	require.NoError(t, err)
	assert.Contains(t, names, name)

	require.NoError(t, store.Delete(ctx, name))

	_, err = store.Open(ctx, name)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	// Streaming create path.
	wname := "artifacts/streamed.mgo"
	t.Cleanup(func() {
		_ = store.Delete(ctx, wname)
	})

	w, err := store.Create(ctx, wname)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b2, err := store.Open(ctx, wname)
	require.NoError(t, err)
	defer b2.Close()
	assert.Equal(t, int64(len(payload)), b2.Size())
}
