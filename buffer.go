package tinymq

import (
	"github.com/tinymq/tinymq/packets"
)

const (
	// minBufferSize is the floor for reassembly buffer allocations,
	// avoiding repeated tiny growths for streams of small packets.
	minBufferSize = 1024

	// growthFactor doubles the reassembly buffer capacity on each growth.
	growthFactor = 2
)

// growBuffer returns a buffer holding the contents of b with capacity for
// at least need bytes. Capacity at least doubles each time it must grow
// and never drops below minBufferSize. The existing backing array is
// reused when already large enough.
func growBuffer(b []byte, need int) []byte {
	if cap(b) >= need {
		return b
	}

	newCap := cap(b) * growthFactor
	if newCap < need {
		newCap = need
	}
	if newCap < minBufferSize {
		newCap = minBufferSize
	}

	nb := make([]byte, len(b), newCap)
	copy(nb, b)
	return nb
}

// Input absorbs inbound bytes from the transport, reassembling packets
// across arbitrary read boundaries. Complete packets are dispatched to
// the processor in order; a trailing partial packet is buffered for the
// next call. Input always consumes the entirety of data, so the returned
// count equals len(data) whenever err is nil; the caller never re-offers
// bytes. Packets exceeding packets.MaxPacketSize are skipped without
// dispatch once fully received. data may be reused by the caller as soon
// as Input returns.
func (c *Client) Input(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrNoData
	}

	// Detach the buffered tail so growth and reassembly happen with the
	// lock released; the remainder is installed again under the lock
	// before returning.
	c.mu.Lock()
	buffered := c.tail
	c.tail = nil
	c.mu.Unlock()

	work := data
	if len(buffered) > 0 {
		buffered = growBuffer(buffered, len(buffered)+len(data))
		work = append(buffered, data...)
	}

	cur := work
	for len(cur) > 0 {
		total, ok := packets.ProbeLength(cur)
		if !ok || len(cur) < total {
			break
		}

		if total <= packets.MaxPacketSize {
			c.processPacket(cur[:total])
		} else {
			c.log.Debug("skipping oversized packet", "len", total)
		}

		cur = cur[total:]
	}

	// Retain any partial remainder in owned storage. The tail must never
	// alias the caller's data slice, and a mid-buffer remainder is moved
	// to the front so the backing array can be reused.
	var tail []byte
	if len(cur) > 0 {
		tail = growBuffer(buffered[:0], len(cur))
		tail = append(tail, cur...)
	} else {
		tail = buffered[:0]
	}

	c.mu.Lock()
	c.tail = tail
	c.mu.Unlock()

	return len(data), nil
}
