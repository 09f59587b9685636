// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover locates the main LaTeX file of a paper directory.
package discover

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// headerWindow is how much of each file is searched for \documentclass.
const headerWindow = 5000

// Sentinel errors for input discovery.
var (
	ErrNoInput       = errors.New("no .tex files found")
	ErrInputNotFound = errors.New("input file not found")
)

var documentClass = []byte(`\documentclass`)

// Find returns the main .tex file under dir. An explicit main is resolved
// against dir and must exist. Otherwise the .tex files are walked in path
// order and the first declaring \documentclass near its start wins; the
// first file is the fallback.
func Find(dir, main string) (string, error) {
	if main != "" {
		p := main
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, main)
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, p)
		}
		return p, nil
	}

	files, err := texFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoInput, dir)
	}
	for _, f := range files {
		ok, err := declaresClass(f)
		if err != nil {
			return "", err
		}
		if ok {
			return f, nil
		}
	}
	return files[0], nil
}

func texFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || filepath.Ext(path) != ".tex" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func declaresClass(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, headerWindow)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return bytes.Contains(buf[:n], documentClass), nil
}
