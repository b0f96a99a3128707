// Copyright 2017-2018 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package input

import (
	"bufio"
	"io"
	"os"
)

// ByteSource is the file-I/O collaborator a Frame reads raw bytes from: open
// by path, read one byte at a time, report EOF. Seeking is never required.
type ByteSource struct {
	r   *bufio.Reader
	c   io.Closer
	eof bool
}

// OpenFile opens path in binary mode for reading, one byte at a time.
func OpenFile(path string) (*ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewByteSource(f), nil
}

// NewByteSource wraps an arbitrary io.Reader as a ByteSource. If r also
// implements io.Closer, Close releases it.
func NewByteSource(r io.Reader) *ByteSource {
	c, _ := r.(io.Closer)
	return &ByteSource{r: bufio.NewReader(r), c: c}
}

// ReadByte returns the next raw byte. Errors other than io.EOF are reported
// verbatim to the caller, which maps them to IoError.
func (s *ByteSource) ReadByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err == io.EOF {
		s.eof = true
	}
	return b, err
}

// IsEOF reports whether the last ReadByte returned io.EOF.
func (s *ByteSource) IsEOF() bool { return s.eof }

// Close releases the underlying reader, if closable.
func (s *ByteSource) Close() error {
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}
