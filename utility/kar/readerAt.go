// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"golang.org/x/exp/mmap"
)

// OpenFile memory maps the kar file at path and opens it.
// Close the returned MappedArchive to unmap it.
func OpenFile(path string) (*MappedArchive, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	ar, err := Open(r)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &MappedArchive{
		Archive: ar,
		mapping: r,
	}, nil
}

// MappedArchive is an Archive backed by a memory mapped file.
type MappedArchive struct {
	*Archive

	mapping *mmap.ReaderAt
}

// Close unmaps the file. Readers opened from the archive
// must not be used afterwards.
func (m *MappedArchive) Close() error {
	return m.mapping.Close()
}
