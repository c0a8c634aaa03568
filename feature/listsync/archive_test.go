package listsync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"list-sync/core/storage"
	storagemocks "list-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testArchive(client storage.Client) *Archive {
	return NewArchive(client, storage.Config{Bucket: "list-sync", Region: "us-east-1", Prefix: "reports"})
}

func TestArchive_ObjectKey(t *testing.T) {
	a := testArchive(nil)
	assert.Equal(t, "reports/following/20260102T030405Z-run-1.json", a.ObjectKey(sampleReport()))
}

func TestArchive_Record(t *testing.T) {
	client := new(storagemocks.Client)
	client.On("BucketExists", mock.Anything, "list-sync").Return(false, nil).Once()
	client.On("MakeBucket", mock.Anything, "list-sync", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil).Once()

	var uploaded []byte
	client.On("PutObject", mock.Anything, "list-sync", "reports/following/20260102T030405Z-run-1.json",
		mock.Anything, mock.AnythingOfType("int64"), minio.PutObjectOptions{ContentType: "application/json"}).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			assert.NoError(t, err)
			uploaded = data
			assert.Equal(t, int64(len(data)), args.Get(4).(int64))
		}).
		Return(minio.UploadInfo{}, nil).Twice()

	a := testArchive(client)
	require.NoError(t, a.Record(context.Background(), sampleReport()))
	require.NoError(t, a.Record(context.Background(), sampleReport()))

	var decoded Report
	require.NoError(t, json.Unmarshal(uploaded, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, ids("5"), decoded.Added)
	assert.Equal(t, "forbidden", decoded.Failures[0].Error)

	client.AssertExpectations(t)
}

func TestArchive_RecordUploadError(t *testing.T) {
	client := new(storagemocks.Client)
	client.On("BucketExists", mock.Anything, "list-sync").Return(true, nil)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	err := testArchive(client).Record(context.Background(), sampleReport())

	assert.ErrorContains(t, err, "access denied")
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchive_RecordBucketError(t *testing.T) {
	client := new(storagemocks.Client)
	client.On("BucketExists", mock.Anything, "list-sync").Return(false, errors.New("unreachable"))

	err := testArchive(client).Record(context.Background(), sampleReport())

	assert.ErrorContains(t, err, "unreachable")
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
