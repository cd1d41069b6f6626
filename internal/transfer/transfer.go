// Package transfer copies and moves single regular files.
//
// Copy streams the source through a fixed-size buffer into a destination
// created with the source's permission bits. Move renames, and falls back to
// copy-then-delete when the rename crosses a device boundary.
//
// Neither operation is atomic with respect to failures: a copy that fails
// midway leaves the partial destination in place, and a fallback move whose
// final delete fails leaves the file in both places.
package transfer

import (
	"io"
	"log/slog"
	"os"

	"github.com/stackvity/joshbox/internal/apperr"
	"github.com/stackvity/joshbox/internal/config"
	"github.com/stackvity/joshbox/internal/filesystem"
	"github.com/stackvity/joshbox/internal/pool"
)

// Copier performs file transfers against a FileSystem.
type Copier struct {
	FS      filesystem.FileSystem
	Buffers *pool.FixedBufferPool
	Logger  *slog.Logger
}

// NewCopier creates a Copier that streams in chunks of bufferSize bytes.
func NewCopier(fsys filesystem.FileSystem, bufferSize int, logger *slog.Logger) *Copier {
	if bufferSize <= 0 {
		bufferSize = config.DefaultBufferSize
	}
	return &Copier{
		FS:      fsys,
		Buffers: pool.NewFixedBufferPool(bufferSize),
		Logger:  logger,
	}
}

// Copy copies the regular file src to dst, creating or truncating dst with
// src's permission bits. A failure after dst was opened leaves whatever was
// written so far.
func (c *Copier) Copy(src, dst string, _ config.TransferOptions) error {
	c.Logger.Debug("Copying file", "src", src, "dst", dst)
	return c.stream(src, dst, false)
}

// Move renames src to dst. If the rename fails because the two paths are on
// different devices, the file is copied and src removed. A failed fallback
// copy removes the partial dst and leaves src alone. Any other rename error
// is returned as is, with no fallback.
func (c *Copier) Move(src, dst string, _ config.TransferOptions) error {
	err := c.FS.Rename(src, dst)
	if err == nil {
		c.Logger.Debug("Renamed file", "src", src, "dst", dst)
		return nil
	}
	if !isCrossDevice(err) {
		return apperr.Wrap(apperr.KindNotFoundOrAccess, err, "cannot move '%s' to '%s'", src, dst)
	}

	c.Logger.Debug("Rename crosses devices, falling back to copy and delete", "src", src, "dst", dst)
	if err := c.stream(src, dst, true); err != nil {
		return err
	}
	if err := c.FS.Remove(src); err != nil {
		return apperr.Wrap(apperr.KindIO, err, "cannot remove '%s'", src)
	}
	return nil
}

// stream does the actual byte copy. With move set, a directory source gets a
// move-specific message and a failed copy deletes dst.
func (c *Copier) stream(src, dst string, move bool) error {
	in, err := c.FS.Open(src)
	if err != nil {
		return apperr.Wrap(apperr.KindNotFoundOrAccess, err, "cannot open '%s'", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return apperr.Wrap(apperr.KindNotFoundOrAccess, err, "cannot stat '%s'", src)
	}
	if info.IsDir() {
		if move {
			return apperr.New(apperr.KindIsADirectory, "cannot move directory '%s' across devices", src)
		}
		return apperr.New(apperr.KindIsADirectory, "omitting directory '%s'", src)
	}

	out, err := c.FS.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return apperr.Wrap(apperr.KindNotFoundOrAccess, err, "cannot create '%s'", dst)
	}

	copyErr := c.pump(out, in, src, dst)
	if closeErr := out.Close(); copyErr == nil && closeErr != nil {
		copyErr = apperr.Wrap(apperr.KindIO, closeErr, "write error to '%s'", dst)
	}
	if copyErr != nil && move {
		if rmErr := c.FS.Remove(dst); rmErr != nil {
			c.Logger.Warn("Failed to remove partial destination", "path", dst, "error", rmErr)
		}
	}
	return copyErr
}

// pump moves bytes from in to out one buffer at a time. A write that
// accepts fewer bytes than offered is fatal.
func (c *Copier) pump(out io.Writer, in io.Reader, src, dst string) error {
	bufPtr := c.Buffers.Get()
	defer c.Buffers.Put(bufPtr)
	buf := *bufPtr

	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			written, writeErr := out.Write(buf[:n])
			if writeErr == nil && written != n {
				writeErr = io.ErrShortWrite
			}
			if writeErr != nil {
				return apperr.Wrap(apperr.KindIO, writeErr, "write error to '%s'", dst)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return apperr.Wrap(apperr.KindIO, readErr, "read error from '%s'", src)
		}
	}
}
