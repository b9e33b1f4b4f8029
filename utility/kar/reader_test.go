package kar_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/koru-gles/utility/kar"
)

func readFileAndCompare(f *kar.Reader, expected string) error {
	result := make([]byte, len(expected))
	n, err := io.ReadFull(f, result)
	if err != nil {
		return err
	}
	if n < len(expected) {
		return errors.New("incorrect number of bytes read")
	}
	if strings.Compare(string(result), expected) != 0 {
		return errors.New("test string does not match up")
	}
	return nil
}

func writeTestArchive(c *qt.C) string {
	data := buildArchive(c, map[string]string{
		"test/test1.txt": "this is a test",
		"test/test2.txt": "this is another test",
	}, "test/test1.txt", "test/test2.txt")

	path := filepath.Join(c.TempDir(), "opentest.kar")
	c.Assert(os.WriteFile(path, data, 0644), qt.IsNil)
	return path
}

func TestOpenAndRead(t *testing.T) {
	c := qt.New(t)
	r, err := os.Open(writeTestArchive(c))
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)

	f, err := ar.Open("test/test1.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(readFileAndCompare(f, "this is a test"), qt.IsNil)

	f, err = ar.Open("test/test2.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(readFileAndCompare(f, "this is another test"), qt.IsNil)
}

func TestOpenFileMapped(t *testing.T) {
	c := qt.New(t)
	ar, err := kar.OpenFile(writeTestArchive(c))
	c.Assert(err, qt.IsNil)
	defer ar.Close()

	content, err := ar.ReadAll("test/test1.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(content), qt.Equals, "this is a test")

	content, err = ar.ReadAll("test/test2.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(content), qt.Equals, "this is another test")
}

func TestOpenFileMissing(t *testing.T) {
	c := qt.New(t)
	_, err := kar.OpenFile(filepath.Join(c.TempDir(), "missing.kar"))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestConcurrentReads(t *testing.T) {
	c := qt.New(t)
	ar, err := kar.OpenFile(writeTestArchive(c))
	c.Assert(err, qt.IsNil)
	defer ar.Close()

	errs := make(chan error, 16)
	for i := 0; i < cap(errs); i++ {
		go func(i int) {
			name, expected := "test/test1.txt", "this is a test"
			if i%2 == 1 {
				name, expected = "test/test2.txt", "this is another test"
			}
			content, err := ar.ReadAll(name)
			if err == nil && string(content) != expected {
				err = errors.New("unexpected content for " + name)
			}
			errs <- err
		}(i)
	}
	for i := 0; i < cap(errs); i++ {
		c.Assert(<-errs, qt.IsNil)
	}
}
