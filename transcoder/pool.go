package transcoder

import (
	"sync"

	"github.com/wippyai/bindgen/wire"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 64 << 10 // max retained buffer bytes
	poolInitCap = 256
)

// writer pool for Encode; results are copied out before the writer returns
var writerPool = sync.Pool{
	New: func() any {
		return wire.NewWriter(poolInitCap)
	},
}

func getWriter() *wire.Writer {
	return writerPool.Get().(*wire.Writer)
}

func putWriter(w *wire.Writer) {
	if w == nil || cap(w.Bytes()) > poolMaxCap {
		return // reject oversized
	}
	w.Reset()
	writerPool.Put(w)
}
