// Package httpapi exposes the engine over HTTP: POST /get, /set, /delete,
// plus /healthz and /metrics, following the Gin wiring in
// smcdaniel54-LlamaGate/cmd/llamagate/main.go.
package httpapi

import "github.com/valyala/bytebufferpool"

// jsonBufPool backs response encoding so handlers avoid allocating a fresh
// buffer per request, adapted from the pooled-buffer JSON encoding in
// MiraiMindz-watt/bolt/core/context.go (there backed by a hand-rolled
// sync.Pool of bytes.Buffer; here by the real bytebufferpool package).
var jsonBufPool bytebufferpool.Pool

func acquireBuf() *bytebufferpool.ByteBuffer { return jsonBufPool.Get() }

func releaseBuf(b *bytebufferpool.ByteBuffer) { jsonBufPool.Put(b) }
