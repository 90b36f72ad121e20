package cache

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns records into cache payloads and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

type jsonCodec struct{}

// JSONCodec stores payloads as JSON documents. It is the default codec.
func JSONCodec() Codec { return jsonCodec{} }

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecJSON }

type msgpackCodec struct{}

// MsgpackCodec stores payloads in MessagePack, which is denser than JSON for large pages.
func MsgpackCodec() Codec { return msgpackCodec{} }

func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (msgpackCodec) Name() string                       { return CodecMsgpack }

// CodecByName resolves a codec name, falling back to JSON for unknown values.
func CodecByName(name string) Codec {
	if name == CodecMsgpack {
		return MsgpackCodec()
	}
	return JSONCodec()
}
