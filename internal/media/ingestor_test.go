package media

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestIngestor(storage *MockStorage) *Ingestor {
	return NewIngestor(storage, 5*1024*1024, 1600, 80, zap.NewNop())
}

func TestIngest_RejectsOversizedFile(t *testing.T) {
	storage := new(MockStorage)
	ingestor := NewIngestor(storage, 64, 1600, 80, zap.NewNop())

	_, err := ingestor.Ingest(context.Background(), make([]byte, 65))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_RejectsNonImagePayload(t *testing.T) {
	storage := new(MockStorage)
	ingestor := newTestIngestor(storage)

	_, err := ingestor.Ingest(context.Background(), []byte("<html>not an image</html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_ReencodesAsJPEG(t *testing.T) {
	storage := new(MockStorage)
	ingestor := newTestIngestor(storage)

	var uploaded []byte
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "listings/") && strings.HasSuffix(key, ".jpg")
	}), mock.Anything, "image/jpeg").Run(func(args mock.Arguments) {
		uploaded = args.Get(2).([]byte)
	}).Return("https://cdn.example.com/listings/x.jpg", nil)

	obj, err := ingestor.Ingest(context.Background(), pngBytes(t, 100, 80))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/listings/x.jpg", obj.URL)
	assert.NotEmpty(t, obj.Key)

	img, err := jpeg.Decode(bytes.NewReader(uploaded))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestIngest_DownscalesLargeImages(t *testing.T) {
	storage := new(MockStorage)
	ingestor := NewIngestor(storage, 5*1024*1024, 200, 80, zap.NewNop())

	var uploaded []byte
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, "image/jpeg").
		Run(func(args mock.Arguments) { uploaded = args.Get(2).([]byte) }).
		Return("https://cdn.example.com/listings/y.jpg", nil)

	_, err := ingestor.Ingest(context.Background(), pngBytes(t, 400, 300))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(uploaded))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestRemove_SwallowsStorageErrors(t *testing.T) {
	storage := new(MockStorage)
	ingestor := newTestIngestor(storage)

	storage.On("Delete", mock.Anything, "listings/gone.jpg").Return(assert.AnError)

	// Must not panic or propagate.
	ingestor.Remove(context.Background(), "listings/gone.jpg")
	storage.AssertExpectations(t)
}

func TestRemove_EmptyKeyIsNoop(t *testing.T) {
	storage := new(MockStorage)
	ingestor := newTestIngestor(storage)

	ingestor.Remove(context.Background(), "")
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
