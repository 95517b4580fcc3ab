// Size-based log file rotation.
//
// Copyright (C) 2026  Rembot Host Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"fmt"
	"os"
	"sync"
)

// RotatingWriter writes to a log file and rotates it when it exceeds
// MaxSize bytes, keeping up to MaxBackups numbered backups
// (file.1 is the most recent).
type RotatingWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
	size int64

	// MaxSize is the rotation threshold in bytes (default 10 MiB).
	MaxSize int64

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int
}

// NewRotatingWriter opens (or creates) the log file at path.
func NewRotatingWriter(path string) (*RotatingWriter, error) {
	w := &RotatingWriter{
		path:       path,
		MaxSize:    10 << 20,
		MaxBackups: 3,
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("log: open %s: %w", w.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("log: stat %s: %w", w.path, err)
	}
	w.file = f
	w.size = info.Size()
	return nil
}

// Write appends to the current log file, rotating first if the write
// would push it past MaxSize.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.MaxSize && w.size > 0 {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// rotate shifts file.N-1 -> file.N and reopens a fresh log file.
func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	for i := w.MaxBackups; i >= 1; i-- {
		src := w.path
		if i > 1 {
			src = fmt.Sprintf("%s.%d", w.path, i-1)
		}
		dst := fmt.Sprintf("%s.%d", w.path, i)
		if _, err := os.Stat(src); err == nil {
			os.Rename(src, dst)
		}
	}
	return w.open()
}

// Close closes the underlying file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
