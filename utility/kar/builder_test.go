// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestAddAndWrite(t *testing.T) {
	c := qt.New(t)
	builder, err := NewBuilder(Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	c.Assert(err, qt.IsNil)
	defer builder.Close()

	c.Assert(builder.Add("test", bytes.NewReader([]byte("idunvovkjnreovmegihjbrqlkmfrjnb"))), qt.IsNil)
	c.Assert(builder.Add("test2", bytes.NewReader([]byte("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"))), qt.IsNil)
	c.Assert(builder.files, qt.HasLen, 2)

	buf := bytes.NewBuffer([]byte{})
	num, err := builder.WriteTo(buf)
	c.Assert(err, qt.IsNil)
	c.Assert(num, qt.Equals, int64(buf.Len()))
	c.Assert(buf.Bytes()[:MagicLength], qt.DeepEquals, magic[:])
	c.Assert(builder.files, qt.HasLen, 0)
}

func TestAddConcurrently(t *testing.T) {
	c := qt.New(t)
	builder, err := NewBuilder(Header{Version: 1})
	c.Assert(err, qt.IsNil)
	defer builder.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			builder.Add(fmt.Sprintf("file%d", i), bytes.NewReader(bytes.Repeat([]byte{byte(i)}, 100)))
		}(i)
	}
	wg.Wait()
	c.Assert(builder.Len(), qt.Equals, 8)

	var offset int64
	buf := bytes.NewBuffer([]byte{})
	_, err = builder.WriteTo(buf)
	c.Assert(err, qt.IsNil)

	ar, err := Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)
	for _, e := range ar.Header().Index {
		c.Assert(e.Offset, qt.Equals, offset)
		c.Assert(e.Size, qt.Equals, int64(100))
		offset += e.CompressedSize
	}
}

func TestClose(t *testing.T) {
	c := qt.New(t)
	builder, err := NewBuilder(Header{})
	c.Assert(err, qt.IsNil)
	c.Assert(builder.Close(), qt.IsNil)

	_, err = os.Stat(builder.tempDir)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestHeaderSizeEncoding(t *testing.T) {
	c := qt.New(t)
	bts := int64ToBinary(1234)
	c.Assert(bts, qt.HasLen, HeaderSizeNumberLength)

	num, err := binaryToint64(bts)
	c.Assert(err, qt.IsNil)
	c.Assert(num, qt.Equals, int64(1234))

	_, err = binaryToint64([]byte{1, 2})
	c.Assert(err, qt.Equals, ErrFileFormat)
}
