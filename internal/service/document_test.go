package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"pdfchat/internal/model"
	"pdfchat/internal/repository"
	repoMocks "pdfchat/internal/repository/mocks"
	"pdfchat/internal/storage"
	storeMocks "pdfchat/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validID = "65a1b2c3d4e5f60718293a4b"

func TestStorageKey(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 123456789, time.UTC)

	key := storageKey(at)

	assert.Regexp(t, regexp.MustCompile(`^uploads/20250304050607123456_[0-9a-f-]{36}\.pdf$`), key)
	assert.NotEqual(t, key, storageKey(at), "keys must be unique even for equal timestamps")
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name             string
		originalFilename string
		contentType      string
		size             int64
		repoNil          bool
		setupMocks       func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader
		wantErr          error
		wantErrMsg       string
		wantSize         int64
	}{
		{
			name:             "happy path",
			originalFilename: "a.pdf",
			contentType:      "application/pdf",
			size:             10,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("0123456789")
				mStore.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, UploadPrefix) && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutObjectOptions{
					Size:        10,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "a.pdf"},
				}).Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					n, _ := io.Copy(io.Discard, r)
					return storage.ObjectInfo{Key: key, Size: n, ContentType: opt.ContentType}
				}, nil)

				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.Filename == "a.pdf" &&
						strings.HasPrefix(doc.StoragePath, UploadPrefix) &&
						doc.Size == 10 &&
						doc.ContentType == "application/pdf" &&
						doc.CreatedAt.Equal(doc.UpdatedAt)
				})).Return(&model.Document{ID: validID, Filename: "a.pdf", Size: 10}, nil)

				return r
			},
			wantSize: 10,
		},
		{
			name:             "non-pdf content type touches nothing",
			originalFilename: "notes.txt",
			contentType:      "text/plain",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("hello")
			},
			wantErr: ErrInvalidMediaType,
		},
		{
			name:             "content type must match exactly",
			originalFilename: "a.pdf",
			contentType:      "application/pdf; charset=binary",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrInvalidMediaType,
		},
		{
			name:             "no datastore stores nothing",
			originalFilename: "a.pdf",
			contentType:      "application/pdf",
			repoNil:          true,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrDatastoreUnavailable,
		},
		{
			name:             "validation error - nil reader",
			originalFilename: "a.pdf",
			contentType:      "application/pdf",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:             "storage error",
			originalFilename: "a.pdf",
			contentType:      "application/pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:             "repository error with successful rollback",
			originalFilename: "a.pdf",
			contentType:      "application/pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:             "repository error with failed rollback",
			originalFilename: "a.pdf",
			contentType:      "application/pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)

			var repo repository.DocumentRepository = mRepo
			if tt.repoNil {
				repo = nil
			}
			svc := NewDocumentService(mStore, repo, time.Minute)

			r := tt.setupMocks(mStore, mRepo)

			doc, err := svc.Upload(ctx, r, tt.originalFilename, tt.contentType, tt.size)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, doc)
				assert.Equal(t, validID, doc.ID)
				assert.Equal(t, tt.wantSize, doc.Size)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    bool
		wantTotal  int
	}{
		{
			name:   "defaults applied",
			limit:  0,
			offset: -5,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{{ID: validID}}, Total: 1}, nil)
			},
			wantTotal: 1,
		},
		{
			name:   "explicit page",
			limit:  5,
			offset: 20,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 5, Offset: 20}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 21}, nil)
			},
			wantTotal: 21,
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			tt.setupMocks(mRepo)
			svc := NewDocumentService(new(storeMocks.MockStorage), mRepo, time.Minute)

			res, err := svc.List(ctx, tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTotal, res.Total)
			}
			mRepo.AssertExpectations(t)
		})
	}

	t.Run("no datastore", func(t *testing.T) {
		svc := NewDocumentService(new(storeMocks.MockStorage), nil, time.Minute)
		_, err := svc.List(ctx, 10, 0)
		assert.ErrorIs(t, err, ErrDatastoreUnavailable)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(&model.Document{ID: validID, Filename: "a.pdf"}, nil)
		svc := NewDocumentService(new(storeMocks.MockStorage), mRepo, time.Minute)

		doc, err := svc.Get(ctx, validID)

		require.NoError(t, err)
		assert.Equal(t, "a.pdf", doc.Filename)
		mRepo.AssertExpectations(t)
	})

	t.Run("uppercase id is canonicalized", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(&model.Document{ID: validID}, nil)
		svc := NewDocumentService(new(storeMocks.MockStorage), mRepo, time.Minute)

		_, err := svc.Get(ctx, strings.ToUpper(validID))

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("malformed id never reaches repository", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(new(storeMocks.MockStorage), mRepo, time.Minute)

		_, err := svc.Get(ctx, "not-a-valid-id")

		assert.ErrorIs(t, err, ErrInvalidIdentifier)
		assert.NotErrorIs(t, err, ErrDocumentNotFound)
		mRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(nil, repository.ErrNotFound)
		svc := NewDocumentService(new(storeMocks.MockStorage), mRepo, time.Minute)

		_, err := svc.Get(ctx, validID)

		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("repository error passes through", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(nil, errors.New("timeout"))
		svc := NewDocumentService(new(storeMocks.MockStorage), mRepo, time.Minute)

		_, err := svc.Get(ctx, validID)

		assert.EqualError(t, err, "timeout")
	})
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: validID, Filename: "a.pdf", StoragePath: "uploads/x.pdf", Size: 3}

	t.Run("streams from plain storage", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(doc, nil)
		mStore.On("Get", mock.Anything, "uploads/x.pdf").
			Return(io.NopCloser(strings.NewReader("pdf")), storage.ObjectInfo{Size: 3}, nil)
		svc := NewDocumentService(mStore, mRepo, time.Minute)

		dl, err := svc.Download(ctx, validID)

		require.NoError(t, err)
		assert.Empty(t, dl.URL)
		require.NotNil(t, dl.Body)
		body, _ := io.ReadAll(dl.Body)
		assert.Equal(t, "pdf", string(body))
		assert.Equal(t, int64(3), dl.Size)
	})

	t.Run("redirects when storage presigns", func(t *testing.T) {
		mStore := new(storeMocks.MockPresignStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(doc, nil)
		mStore.On("PresignGet", mock.Anything, "uploads/x.pdf", time.Minute).Return("https://s3/x.pdf?sig", nil)
		svc := NewDocumentService(mStore, mRepo, time.Minute)

		dl, err := svc.Download(ctx, validID)

		require.NoError(t, err)
		assert.Equal(t, "https://s3/x.pdf?sig", dl.URL)
		assert.Nil(t, dl.Body)
		mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(doc, nil)
		mStore.On("Get", mock.Anything, "uploads/x.pdf").Return(nil, storage.ObjectInfo{}, errors.New("gone"))
		svc := NewDocumentService(mStore, mRepo, time.Minute)

		_, err := svc.Download(ctx, validID)

		assert.ErrorContains(t, err, "open stored object: gone")
		assert.NotErrorIs(t, err, ErrContentExpired)
	})

	t.Run("missing object is reported as expired", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(doc, nil)
		mStore.On("Get", mock.Anything, "uploads/x.pdf").
			Return(nil, storage.ObjectInfo{}, fmt.Errorf("%w: uploads/x.pdf", storage.ErrObjectNotFound))
		svc := NewDocumentService(mStore, mRepo, time.Minute)

		_, err := svc.Download(ctx, validID)

		assert.ErrorIs(t, err, ErrContentExpired)
	})

	t.Run("presign of missing object is reported as expired", func(t *testing.T) {
		mStore := new(storeMocks.MockPresignStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", mock.Anything, validID).Return(doc, nil)
		mStore.On("PresignGet", mock.Anything, "uploads/x.pdf", time.Minute).Return("", storage.ErrObjectNotFound)
		svc := NewDocumentService(mStore, mRepo, time.Minute)

		_, err := svc.Download(ctx, validID)

		assert.ErrorIs(t, err, ErrContentExpired)
	})
}

func TestDocumentService_DownloadAfterRetention(t *testing.T) {
	ctx := context.Background()
	local, err := storage.NewLocal(t.TempDir(), UploadPrefix)
	require.NoError(t, err)

	stored := &model.Document{}
	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).
		Run(func(args mock.Arguments) {
			*stored = *args.Get(1).(*model.Document)
			stored.ID = validID
		}).
		Return(stored, nil).Once()
	mRepo.On("FindByID", mock.Anything, validID).Return(stored, nil)

	svc := NewDocumentService(local, mRepo, time.Minute)

	_, err = svc.Upload(ctx, strings.NewReader("%PDF-1.4"), "report.pdf", PDFContentType, 8)
	require.NoError(t, err)

	dl, err := svc.Download(ctx, validID)
	require.NoError(t, err)
	require.NoError(t, dl.Body.Close())

	n, err := local.Prune(ctx, -time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = svc.Download(ctx, validID)
	assert.ErrorIs(t, err, ErrContentExpired)
	mRepo.AssertExpectations(t)
}
