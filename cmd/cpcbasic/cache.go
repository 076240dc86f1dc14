package main

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"cpcbasic/compiler"
)

// compileCached compiles source, reusing an earlier result from dir when
// one exists for the same source and options. An empty dir disables the
// cache.
func compileCached(dir, source string, opts compiler.Options) (string, error) {
	if dir == "" {
		return compileText(source, opts)
	}

	path := filepath.Join(dir, compiler.Fingerprint(source, opts)+".js")
	data, err := os.ReadFile(path)
	if err == nil {
		log.Printf("cache hit: %s", path)
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	text, err := compileText(source, opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	// write then rename so a concurrent reader never sees a partial file
	tmp, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return text, nil
}

func compileText(source string, opts compiler.Options) (string, error) {
	res, err := compiler.Compile(source, opts)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
