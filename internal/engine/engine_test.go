package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/joshbox/internal/apperr"
	"github.com/stackvity/joshbox/internal/config"
	"github.com/stackvity/joshbox/internal/filesystem"
	"github.com/stackvity/joshbox/internal/transfer"
)

// --- Mock Implementations (Engine specific) ---

// MockTransferer records Copy and Move calls.
type MockTransferer struct {
	mock.Mock
}

func (m *MockTransferer) Copy(src, dst string, opts config.TransferOptions) error {
	args := m.Called(src, dst, opts)
	return args.Error(0)
}

func (m *MockTransferer) Move(src, dst string, opts config.TransferOptions) error {
	args := m.Called(src, dst, opts)
	return args.Error(0)
}

// --- Test Setup ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupMockEngine(t *testing.T) (*Engine, *MockTransferer, string) {
	t.Helper()
	mt := new(MockTransferer)
	return NewEngine(filesystem.NewRealFileSystem(), mt, newTestLogger()), mt, t.TempDir()
}

func setupRealEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	fsys := filesystem.NewRealFileSystem()
	logger := newTestLogger()
	return NewEngine(fsys, transfer.NewCopier(fsys, config.DefaultBufferSize, logger), logger), t.TempDir()
}

func createFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

var noOpts = config.TransferOptions{}

// --- Resolve ---

func TestResolve(t *testing.T) {
	e, _, dir := setupMockEngine(t)
	file := createFile(t, filepath.Join(dir, "file"), "x")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	t.Run("SingleSourceNewDestination", func(t *testing.T) {
		dest := filepath.Join(dir, "new")
		ops, err := e.Resolve([]string{"a/b.txt"}, dest)
		require.NoError(t, err)
		assert.Equal(t, []Operand{{Source: "a/b.txt", Target: dest}}, ops)
	})

	t.Run("SingleSourceExistingFile", func(t *testing.T) {
		ops, err := e.Resolve([]string{"src"}, file)
		require.NoError(t, err)
		assert.Equal(t, []Operand{{Source: "src", Target: file}}, ops)
	})

	t.Run("ManySourcesIntoDirectory", func(t *testing.T) {
		ops, err := e.Resolve([]string{"x/one.txt", "two.txt", "dir/three/"}, sub)
		require.NoError(t, err)
		assert.Equal(t, []Operand{
			{Source: "x/one.txt", Target: filepath.Join(sub, "one.txt")},
			{Source: "two.txt", Target: filepath.Join(sub, "two.txt")},
			{Source: "dir/three/", Target: filepath.Join(sub, "three")},
		}, ops)
	})

	t.Run("ManySourcesIntoFile", func(t *testing.T) {
		_, err := e.Resolve([]string{"a", "b"}, file)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrOperand))
		assert.Equal(t, "target '"+file+"' is not a directory", err.Error())
	})

	t.Run("ManySourcesIntoMissingPath", func(t *testing.T) {
		_, err := e.Resolve([]string{"a", "b"}, filepath.Join(dir, "missing"))
		assert.True(t, errors.Is(err, apperr.ErrOperand))
	})

	t.Run("NoSources", func(t *testing.T) {
		_, err := e.Resolve(nil, file)
		assert.True(t, errors.Is(err, apperr.ErrOperand))
	})
}

// --- Run with a mocked transferer ---

func TestRun_MultiSourceIntoNonDirectoryTouchesNothing(t *testing.T) {
	e, mt, dir := setupMockEngine(t)
	a := createFile(t, filepath.Join(dir, "A"), "aaa")
	b := createFile(t, filepath.Join(dir, "B"), "bbb")
	c := createFile(t, filepath.Join(dir, "C"), "ccc")

	report, err := e.Run(context.Background(), ModeCopy, []string{a, b}, c, noOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrOperand))
	assert.Zero(t, report.Transferred)

	mt.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "aaa", readFile(t, a))
	assert.Equal(t, "bbb", readFile(t, b))
	assert.Equal(t, "ccc", readFile(t, c))
}

func TestRun_AbortsOnFirstFailureWithoutRollback(t *testing.T) {
	e, mt, dir := setupMockEngine(t)
	dest := filepath.Join(dir, "dest")
	require.NoError(t, os.Mkdir(dest, 0755))

	boom := apperr.New(apperr.KindIO, "write error")
	mt.On("Copy", "one", filepath.Join(dest, "one"), noOpts).Return(nil).Once()
	mt.On("Copy", "two", filepath.Join(dest, "two"), noOpts).Return(boom).Once()

	report, err := e.Run(context.Background(), ModeCopy, []string{"one", "two", "three"}, dest, noOpts)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, report.Transferred, "the first transfer stays done")

	mt.AssertExpectations(t)
	mt.AssertNotCalled(t, "Copy", "three", mock.Anything, mock.Anything)
}

func TestRun_MoveModeCallsMove(t *testing.T) {
	e, mt, dir := setupMockEngine(t)
	dest := filepath.Join(dir, "renamed")
	mt.On("Move", "src", dest, noOpts).Return(nil).Once()

	report, err := e.Run(context.Background(), ModeMove, []string{"src"}, dest, noOpts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Transferred)
	mt.AssertExpectations(t)
	mt.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_SameFile(t *testing.T) {
	for _, mode := range []Mode{ModeCopy, ModeMove} {
		t.Run(mode.String(), func(t *testing.T) {
			e, mt, dir := setupMockEngine(t)
			f := createFile(t, filepath.Join(dir, "F"), "original")

			_, err := e.Run(context.Background(), mode, []string{f}, f, noOpts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrSameFile))
			assert.Equal(t, "'"+f+"' and '"+f+"' are the same file", err.Error())

			mt.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything)
			mt.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, "original", readFile(t, f))
		})
	}
}

func TestRun_SameFileThroughDirectoryAbortsRemainder(t *testing.T) {
	e, mt, dir := setupMockEngine(t)
	other := filepath.Join(dir, "other")
	require.NoError(t, os.Mkdir(other, 0755))
	first := createFile(t, filepath.Join(other, "first"), "1")
	clash := createFile(t, filepath.Join(dir, "clash"), "2")

	mt.On("Copy", first, filepath.Join(dir, "first"), noOpts).Return(nil).Once()

	report, err := e.Run(context.Background(), ModeCopy, []string{first, clash, "later"}, dir, noOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSameFile))
	assert.Equal(t, 1, report.Transferred)
	mt.AssertExpectations(t)
	mt.AssertNotCalled(t, "Copy", "later", mock.Anything, mock.Anything)
}

func TestRun_CanceledContext(t *testing.T) {
	e, mt, dir := setupMockEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, ModeCopy, []string{"a"}, filepath.Join(dir, "b"), noOpts)
	assert.ErrorIs(t, err, context.Canceled)
	mt.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run against the real transfer engine ---

func TestRun_CopyIntoDirectory(t *testing.T) {
	e, dir := setupRealEngine(t)
	a := createFile(t, filepath.Join(dir, "a.txt"), "alpha")
	b := createFile(t, filepath.Join(dir, "b.txt"), "beta")
	dest := filepath.Join(dir, "dest")
	require.NoError(t, os.Mkdir(dest, 0755))

	report, err := e.Run(context.Background(), ModeCopy, []string{a, b}, dest, noOpts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Transferred)

	assert.Equal(t, "alpha", readFile(t, filepath.Join(dest, "a.txt")))
	assert.Equal(t, "beta", readFile(t, filepath.Join(dest, "b.txt")))
	assert.FileExists(t, a)
	assert.FileExists(t, b)
}

func TestRun_MoveRename(t *testing.T) {
	e, dir := setupRealEngine(t)
	f := createFile(t, filepath.Join(dir, "F"), "payload")
	f2 := filepath.Join(dir, "F2")

	_, err := e.Run(context.Background(), ModeMove, []string{f}, f2, noOpts)
	require.NoError(t, err)
	assert.NoFileExists(t, f)
	assert.Equal(t, "payload", readFile(t, f2))
}

func TestRun_CopyFailureStopsBatch(t *testing.T) {
	e, dir := setupRealEngine(t)
	good := createFile(t, filepath.Join(dir, "good"), "g")
	missing := filepath.Join(dir, "missing")
	late := createFile(t, filepath.Join(dir, "late"), "l")
	dest := filepath.Join(dir, "dest")
	require.NoError(t, os.Mkdir(dest, 0755))

	report, err := e.Run(context.Background(), ModeCopy, []string{good, missing, late}, dest, noOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFoundOrAccess))
	assert.Equal(t, 1, report.Transferred)

	assert.FileExists(t, filepath.Join(dest, "good"), "earlier transfers are not rolled back")
	assert.NoFileExists(t, filepath.Join(dest, "late"))
}
