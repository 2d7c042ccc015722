package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agora/pkg/platform/sentinel"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
	lastPut *s3.PutObjectInput
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastPut = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()

	t.Run("upload writes to the configured bucket", func(t *testing.T) {
		fake := &fakeS3{objects: map[string][]byte{}}
		store := NewS3StoreWithClient(fake, "artifacts")

		require.NoError(t, store.Upload(ctx, "documents/u/identity_document-1.pdf", []byte("%PDF")))
		assert.Equal(t, "artifacts", aws.ToString(fake.lastPut.Bucket))
		assert.Equal(t, int64(4), aws.ToInt64(fake.lastPut.ContentLength))

		got, err := store.Get(ctx, "documents/u/identity_document-1.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), got)
	})

	t.Run("missing key is not found", func(t *testing.T) {
		store := NewS3StoreWithClient(&fakeS3{objects: map[string][]byte{}}, "artifacts")
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("throttling maps to unavailable", func(t *testing.T) {
		fake := &fakeS3{objects: map[string][]byte{}, putErr: &smithy.GenericAPIError{Code: "SlowDown", Message: "reduce rate"}}
		store := NewS3StoreWithClient(fake, "artifacts")
		err := store.Upload(ctx, "k", []byte("x"))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		store := NewS3StoreWithClient(&fakeS3{objects: map[string][]byte{}, putErr: boom}, "artifacts")
		assert.ErrorIs(t, store.Upload(ctx, "k", []byte("x")), boom)
	})
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	data := []byte("png")
	require.NoError(t, store.Upload(ctx, "b", data))
	require.NoError(t, store.Upload(ctx, "a", []byte("pdf")))
	data[0] = 'x'

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)
	assert.Equal(t, []string{"a", "b"}, store.Keys())

	_, err = store.Get(ctx, "c")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
