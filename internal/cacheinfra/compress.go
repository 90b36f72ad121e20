package cacheinfra

import (
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

const (
	CompressionNone = "none"
	CompressionS2   = "s2"
	CompressionZstd = "zstd"
)

// Compressor compresses and decompresses payloads on their way to a remote store.
type Compressor interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	Name() string
}

type none struct{}

// NoCompression returns a pass-through compressor. Payloads stay plain JSON.
func NoCompression() Compressor { return none{} }

func (none) Encode(data []byte) ([]byte, error) { return data, nil }
func (none) Decode(data []byte) ([]byte, error) { return data, nil }
func (none) Name() string                       { return CompressionNone }

type s2c struct{}

// S2 returns a fast compressor using S2 (improved Snappy).
func S2() Compressor { return s2c{} }

func (s2c) Encode(data []byte) ([]byte, error) { return s2.Encode(nil, data), nil }
func (s2c) Decode(data []byte) ([]byte, error) { return s2.Decode(nil, data) }
func (s2c) Name() string                       { return CompressionS2 }

type zstdc struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Zstd returns a compressor using Zstandard at the default level.
func Zstd() Compressor {
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)) //nolint:errcheck // options are valid
	dec, _ := zstd.NewReader(nil)                                          //nolint:errcheck // options are valid
	return &zstdc{enc: enc, dec: dec}
}

func (z *zstdc) Encode(data []byte) ([]byte, error) { return z.enc.EncodeAll(data, nil), nil }
func (z *zstdc) Decode(data []byte) ([]byte, error) { return z.dec.DecodeAll(data, nil) }
func (*zstdc) Name() string                         { return CompressionZstd }

// CompressorByName resolves a configured compression name. Unknown and empty names
// disable compression.
func CompressorByName(name string) Compressor {
	switch name {
	case CompressionS2:
		return S2()
	case CompressionZstd:
		return Zstd()
	default:
		return NoCompression()
	}
}
