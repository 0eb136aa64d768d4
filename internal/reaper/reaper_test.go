package reaper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	repoMocks "rppapi/internal/repository/mocks"
	"rppapi/internal/storage"
	storeMocks "rppapi/internal/storage/mocks"
)

func newReaper(repo *repoMocks.MockDocumentRepository, store *storeMocks.MockStorage, now time.Time) *Reaper {
	return &Reaper{
		Repo:         repo,
		Store:        store,
		PublicPrefix: "/pdfs",
		Retention:    24 * time.Hour,
		Logger:       zerolog.Nop(),
		now:          func() time.Time { return now },
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 8, 1, 3, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)

	mRepo := new(repoMocks.MockDocumentRepository)
	mStore := new(storeMocks.MockStorage)

	mStore.On("List", ctx, storage.PDFKeyPrefix).Return([]storage.ObjectInfo{
		{Key: "RPP_linked.pdf", LastModified: old},
		{Key: "RPP_orphan.pdf", LastModified: old},
		{Key: "RPP_fresh.pdf", LastModified: now.Add(-time.Hour)},
		{Key: "RPP_broken.pdf", LastModified: old},
	}, nil)
	mRepo.On("ListAttachmentURLs", ctx, "/pdfs").Return([]string{"/pdfs/RPP_linked.pdf"}, nil)
	mStore.On("Delete", ctx, "RPP_orphan.pdf").Return(nil)
	mStore.On("Delete", ctx, "RPP_broken.pdf").Return(errors.New("permission denied"))

	res, err := newReaper(mRepo, mStore, now).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 4, Deleted: 1, Failed: 1}, res)

	mStore.AssertNotCalled(t, "Delete", ctx, "RPP_linked.pdf")
	mStore.AssertNotCalled(t, "Delete", ctx, "RPP_fresh.pdf")
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestSweep_ListErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("store", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx, storage.PDFKeyPrefix).Return(nil, errors.New("bucket gone"))

		_, err := newReaper(new(repoMocks.MockDocumentRepository), mStore, time.Now()).Sweep(ctx)
		assert.EqualError(t, err, "list stored pdfs: bucket gone")
	})

	t.Run("repository", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx, storage.PDFKeyPrefix).Return([]storage.ObjectInfo{{Key: "RPP_a.pdf"}}, nil)
		mRepo.On("ListAttachmentURLs", ctx, "/pdfs").Return(nil, errors.New("db down"))

		_, err := newReaper(mRepo, mStore, time.Now()).Sweep(ctx)
		assert.EqualError(t, err, "list attachment urls: db down")
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestSweep_LocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocal(dir)
	require.NoError(t, err)

	old := time.Now().Add(-3 * time.Hour)
	for _, name := range []string{"RPP_old.pdf", "notes.txt", "RPP_fresh.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Chtimes(filepath.Join(dir, "RPP_old.pdf"), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "notes.txt"), old, old))

	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("ListAttachmentURLs", ctx, "/pdfs").Return([]string{}, nil)

	r := &Reaper{Repo: mRepo, Store: store, PublicPrefix: "/pdfs", Logger: zerolog.Nop()}
	res, err := r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 2, Deleted: 1}, res)

	assert.NoFileExists(t, filepath.Join(dir, "RPP_old.pdf"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.FileExists(t, filepath.Join(dir, "RPP_fresh.pdf"))
}

func TestRetentionFloor(t *testing.T) {
	tests := []struct {
		name      string
		retention time.Duration
		minAge    time.Duration
		want      time.Duration
	}{
		{"zero retention uses default floor", 0, 0, DefaultMinAge},
		{"zero retention uses min age", 0, 5 * time.Minute, 5 * time.Minute},
		{"negative retention", -time.Hour, 5 * time.Minute, 5 * time.Minute},
		{"longer retention kept", 24 * time.Hour, 5 * time.Minute, 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reaper{Retention: tt.retention, MinAge: tt.minAge}
			assert.Equal(t, tt.want, r.retention())
		})
	}
}

func TestSweep_ZeroRetentionSparesFreshFile(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 8, 1, 3, 0, 0, 0, time.UTC)

	mRepo := new(repoMocks.MockDocumentRepository)
	mStore := new(storeMocks.MockStorage)
	mStore.On("List", ctx, storage.PDFKeyPrefix).Return([]storage.ObjectInfo{
		{Key: "RPP_just_stored.pdf", LastModified: now.Add(-time.Second)},
	}, nil)
	mRepo.On("ListAttachmentURLs", ctx, "/pdfs").Return([]string{}, nil)

	r := newReaper(mRepo, mStore, now)
	r.Retention = 0
	r.MinAge = 5 * time.Minute

	res, err := r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 1}, res)
	mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStart_InvalidSchedule(t *testing.T) {
	r := &Reaper{Logger: zerolog.Nop()}
	_, err := r.Start("not a schedule")
	assert.Error(t, err)
}

func TestStart_Valid(t *testing.T) {
	r := &Reaper{Logger: zerolog.Nop()}
	c, err := r.Start("0 3 * * *")
	require.NoError(t, err)
	<-c.Stop().Done()
	assert.Len(t, c.Entries(), 1)
}
