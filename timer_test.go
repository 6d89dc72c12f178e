package tinymq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinymq/tinymq/packets"
)

var pingreq = []byte{0xC0, 0x00}

func countPingreqs(sent [][]byte) int {
	var n int
	for _, b := range sent {
		if len(b) == 2 && b[0] == pingreq[0] {
			n++
		}
	}
	return n
}

func TestTimerSendsPingreqOnThreshold(t *testing.T) {
	c, s := newTestClient(t, Options{Keepalive: 1}, Hooks{})
	connectClient(t, c)

	// Two half-interval ticks. The first must not ping, the second
	// crosses the threshold and must ping exactly once.
	c.Timer(500 * time.Millisecond)
	require.Zero(t, countPingreqs(s.packets()))

	c.Timer(500 * time.Millisecond)
	require.Equal(t, 1, countPingreqs(s.packets()))

	// The accumulator restarts after a ping; a further half interval is
	// not yet a crossing.
	c.Timer(500 * time.Millisecond)
	require.Equal(t, 1, countPingreqs(s.packets()))
}

func TestTimerPingrespResetsSchedule(t *testing.T) {
	c, s := newTestClient(t, Options{Keepalive: 1}, Hooks{})
	connectClient(t, c)

	c.Timer(time.Second)
	require.Equal(t, 1, countPingreqs(s.packets()))

	// The broker answers; the next crossing pings again instead of
	// counting a miss.
	_, err := c.Input([]byte{0xD0, 0x00})
	require.NoError(t, err)

	c.Timer(time.Second)
	require.Equal(t, 2, countPingreqs(s.packets()))
	require.Equal(t, Connected, c.State())
}

func TestTimerThreeMissesForcesDisconnect(t *testing.T) {
	var reasons []byte
	c, s := newTestClient(t, Options{Keepalive: 1}, Hooks{
		OnConnection: func(connected bool, reason byte) {
			if !connected {
				reasons = append(reasons, reason)
			}
		},
	})
	connectClient(t, c)

	c.Timer(time.Second) // pingreq, never answered
	require.Equal(t, 1, countPingreqs(s.packets()))

	c.Timer(time.Second) // miss 1
	require.Equal(t, Connected, c.State())

	c.Timer(time.Second) // miss 2
	require.Equal(t, Connected, c.State())

	c.Timer(time.Second) // miss 3, forced disconnect
	require.Equal(t, Disconnected, c.State())
	require.Equal(t, []byte{packets.CodeConnectServerUnavailable}, reasons)

	// No further pings were sent while misses accumulated.
	require.Equal(t, 1, countPingreqs(s.packets()))
}

func TestTimerMissCountRequiresFullInterval(t *testing.T) {
	c, s := newTestClient(t, Options{Keepalive: 1}, Hooks{})
	connectClient(t, c)

	c.Timer(time.Second) // pingreq
	require.Equal(t, 1, countPingreqs(s.packets()))

	// Sub-interval ticks after the ping never count misses, no matter
	// how many arrive.
	for i := 0; i < 10; i++ {
		c.Timer(99 * time.Millisecond)
	}
	require.Equal(t, Connected, c.State())

	c.mu.Lock()
	require.Zero(t, c.missedPings)
	c.mu.Unlock()
}

func TestTimerDisabledKeepalive(t *testing.T) {
	c, s := newTestClient(t, Options{Keepalive: 0}, Hooks{})
	connectClient(t, c)

	c.Timer(time.Hour)
	c.Timer(time.Hour)
	require.Zero(t, countPingreqs(s.packets()))
	require.Equal(t, Connected, c.State())
}

func TestTimerNoopWhenNotConnected(t *testing.T) {
	c, s := newTestClient(t, Options{Keepalive: 1}, Hooks{})

	c.Timer(time.Hour)
	require.Empty(t, s.packets())

	require.NoError(t, c.Connect())
	c.Timer(time.Hour) // connecting, still no keep-alive schedule
	require.Equal(t, 1, len(s.packets()))
	require.Equal(t, byte(0x10), s.packets()[0][0])
}
