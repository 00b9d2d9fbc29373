package transport

import "bytes"

// Sentinel bytes whose presence in a response body drives the rr/cr rate
// columns of the report.
const (
	MarkerA byte = 128
	MarkerB byte = 129
)

// Classifier detects the marker bytes in a streamed response body. It is an
// io.Writer so the body can be copied through it chunk by chunk and
// discarded: each chunk is scanned independently, and a marker seen in any
// chunk sets its flag for the whole response. Nothing is buffered.
type Classifier struct {
	FoundA bool
	FoundB bool
}

func (c *Classifier) Write(p []byte) (int, error) {
	if !c.FoundA && bytes.IndexByte(p, MarkerA) >= 0 {
		c.FoundA = true
	}
	if !c.FoundB && bytes.IndexByte(p, MarkerB) >= 0 {
		c.FoundB = true
	}
	return len(p), nil
}
