package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCarousel_Wraps(t *testing.T) {
	c := Carousel{Len: 4}

	assert.Equal(t, 1, c.Next(0))
	assert.Equal(t, 0, c.Next(3))
	assert.Equal(t, 3, c.Prev(0))
	assert.Equal(t, 2, c.Prev(3))
	assert.Equal(t, 1, c.Clamp(9))
	assert.Equal(t, 3, c.Clamp(-5))

	empty := Carousel{}
	assert.Equal(t, 0, empty.Next(7))
	assert.Equal(t, 0, empty.Prev(0))
}

func TestNeighbors(t *testing.T) {
	ids := []int{3, 4, 8}

	prev, next, ok := Neighbors(ids, 3)
	assert.True(t, ok)
	assert.Equal(t, 8, prev)
	assert.Equal(t, 4, next)

	prev, next, ok = Neighbors(ids, 8)
	assert.True(t, ok)
	assert.Equal(t, 4, prev)
	assert.Equal(t, 3, next)

	prev, next, ok = Neighbors([]int{5}, 5)
	assert.True(t, ok)
	assert.Equal(t, 5, prev)
	assert.Equal(t, 5, next)

	_, _, ok = Neighbors(ids, 1)
	assert.False(t, ok)
}

func TestCounter_ValueAt(t *testing.T) {
	c := Counter{Target: 1415}

	assert.Equal(t, 0, c.ValueAt(0))
	assert.Equal(t, 0, c.ValueAt(15*time.Millisecond))
	// one frame: 1415 / 125 = 11.32
	assert.Equal(t, 11, c.ValueAt(16*time.Millisecond))
	// half way: 62 frames * 11.32 = 701.84
	assert.Equal(t, 701, c.ValueAt(time.Second))
	assert.Equal(t, 1415, c.ValueAt(2*time.Second))
	assert.Equal(t, 1415, c.ValueAt(time.Hour))
}

func TestCounter_Delay(t *testing.T) {
	c := Counter{Target: 45, Delay: 200 * time.Millisecond}

	assert.Equal(t, 0, c.ValueAt(100*time.Millisecond))
	assert.Equal(t, 0, c.ValueAt(200*time.Millisecond))
	assert.Equal(t, 45, c.ValueAt(2200*time.Millisecond))
}

func TestCounter_Monotonic(t *testing.T) {
	c := Counter{Target: 30}
	last := 0
	for ms := 0; ms <= 2100; ms += 16 {
		v := c.ValueAt(time.Duration(ms) * time.Millisecond)
		assert.GreaterOrEqual(t, v, last)
		assert.LessOrEqual(t, v, 30)
		last = v
	}
	assert.Equal(t, 30, last)
}

func TestCounter_Settled(t *testing.T) {
	tests := []struct {
		c    Counter
		want time.Duration
	}{
		{Counter{Target: 1415}, 2 * time.Second},
		{Counter{Target: 45, Delay: 200 * time.Millisecond}, 2200 * time.Millisecond},
		{Counter{Target: 97, Duration: time.Second}, 1008 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.Settled())
		assert.Equal(t, tt.c.Target, tt.c.ValueAt(tt.c.Settled()))
		assert.Less(t, tt.c.ValueAt(tt.c.Settled()-time.Millisecond), tt.c.Target)
	}

	d, f := Counter{}.Timing()
	assert.Equal(t, DefaultCounterDuration, d)
	assert.Equal(t, DefaultCounterFrame, f)
}

func TestToggle(t *testing.T) {
	assert.Equal(t, 2, Toggle(0, 2))
	assert.Equal(t, 0, Toggle(2, 2))
	assert.Equal(t, 3, Toggle(2, 3))
}

func TestFormatThousands(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		45:      "45",
		999:     "999",
		1415:    "1,415",
		1000000: "1,000,000",
		-12345:  "-12,345",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatThousands(in))
	}
}

func TestReveal_FiresOnce(t *testing.T) {
	var r Reveal

	assert.False(t, r.Observe("stats", false))
	assert.False(t, r.Revealed("stats"))
	assert.True(t, r.Observe("stats", true))
	assert.False(t, r.Observe("stats", true))
	assert.False(t, r.Observe("stats", false))
	assert.True(t, r.Revealed("stats"))

	assert.True(t, r.Observe("values", true))
}
