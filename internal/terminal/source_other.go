//go:build !unix

package terminal

import "os"

func newFileSource(f *os.File) ByteSource {
	return NewStreamSource(f)
}
