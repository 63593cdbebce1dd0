// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package thresh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalConn is a simple storage connection which keeps everything
// in a directory on the local machine, with a subdirectory for each
// bucket. This is particularly useful for testing.
type LocalConn struct {
	// these should be set before running Init(), or left to defaults
	Dir    string
	Logger *zerolog.Logger
}

// MinimalInit does the bare minimum initialisation
func (a *LocalConn) MinimalInit() error {
	if a.Dir == "" {
		a.Dir = filepath.Join(os.TempDir(), "thresh")
	}
	err := os.MkdirAll(a.Dir, 0700)
	if err != nil {
		return fmt.Errorf("Error creating storage directory: %v", err)
	}

	if a.Logger == nil {
		a.Logger = defaultLogger()
	}

	return nil
}

// Init just does the same as MinimalInit
func (a *LocalConn) Init() error {
	return a.MinimalInit()
}

// CreateBucket makes the directory for a bucket, doing nothing if it
// already exists
func (a *LocalConn) CreateBucket(name string) error {
	err := os.MkdirAll(filepath.Join(a.Dir, name), 0700)
	if err != nil {
		return fmt.Errorf("Error creating bucket %s: %v", name, err)
	}
	return nil
}

func prefixwalker(dirpath string, prefix string, list *[]string) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dirpath, path)
		if err != nil {
			return err
		}
		n := filepath.ToSlash(rel)
		if strings.HasPrefix(n, prefix) {
			*list = append(*list, n)
		}
		return nil
	}
}

// ListObjects lists the keys in a bucket which start with prefix
func (a *LocalConn) ListObjects(bucket string, prefix string) ([]string, error) {
	var list []string
	dir := filepath.Join(a.Dir, bucket)
	err := filepath.Walk(dir, prefixwalker(dir, prefix, &list))
	return list, err
}

// Download just copies the file from Dir/bucket/key to path
func (a *LocalConn) Download(bucket string, key string, path string) error {
	return copyFile(filepath.Join(a.Dir, bucket, filepath.FromSlash(key)), path)
}

// Upload just copies the file from path to Dir/bucket/key
func (a *LocalConn) Upload(bucket string, key string, path string) error {
	dest := filepath.Join(a.Dir, bucket, filepath.FromSlash(key))
	err := os.MkdirAll(filepath.Dir(dest), 0700)
	if err != nil {
		return fmt.Errorf("Error creating directory for %s: %v", key, err)
	}
	return copyFile(path, dest)
}

func copyFile(from, to string) error {
	fin, err := os.Open(from)
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(to)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, fin)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *LocalConn) GetLogger() *zerolog.Logger {
	return a.Logger
}

// Log records an item with the Logger. Arguments are handled
// as with fmt.Println.
func (a *LocalConn) Log(v ...interface{}) {
	logln(a.Logger, v...)
}

func defaultLogger() *zerolog.Logger {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	return &l
}

func logln(l *zerolog.Logger, v ...interface{}) {
	l.Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}
