// Package compression provides the compressors used for stored item content.
package compression

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
