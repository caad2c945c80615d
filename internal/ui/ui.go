// Package ui contains the state rules behind the interactive page sections.
// The server uses them to render query-addressed state and site.js mirrors them
// in the browser.
package ui

import (
	"math"
	"strconv"
	"time"
)

// Carousel indexes a fixed number of slides. Indices wrap in both directions.
type Carousel struct {
	Len int
}

func (c Carousel) Next(i int) int { return c.Clamp(i + 1) }
func (c Carousel) Prev(i int) int { return c.Clamp(i - 1) }

// Clamp maps any integer onto [0, Len).
func (c Carousel) Clamp(i int) int {
	if c.Len <= 0 {
		return 0
	}
	i %= c.Len
	if i < 0 {
		i += c.Len
	}
	return i
}

// Neighbors finds the ids before and after current in ids, wrapping at both
// ends. ok is false when current is not in ids.
func Neighbors(ids []int, current int) (prev, next int, ok bool) {
	for i, id := range ids {
		if id != current {
			continue
		}
		c := Carousel{Len: len(ids)}
		return ids[c.Prev(i)], ids[c.Next(i)], true
	}
	return 0, 0, false
}

const (
	DefaultCounterDuration = 2 * time.Second
	DefaultCounterFrame    = 16 * time.Millisecond
)

// Counter tweens from zero to Target in equal per-frame increments.
type Counter struct {
	Target   int
	Delay    time.Duration
	Duration time.Duration
	Frame    time.Duration
}

// Timing returns Duration and Frame with defaults applied.
func (c Counter) Timing() (duration, frame time.Duration) {
	duration, frame = c.Duration, c.Frame
	if duration <= 0 {
		duration = DefaultCounterDuration
	}
	if frame <= 0 {
		frame = DefaultCounterFrame
	}
	return duration, frame
}

// Settled is the first frame boundary at which ValueAt reports Target.
func (c Counter) Settled() time.Duration {
	d, f := c.Timing()
	frames := (d + f - 1) / f
	return c.Delay + frames*f
}

// ValueAt reports the displayed number elapsed after the counter became visible.
func (c Counter) ValueAt(elapsed time.Duration) int {
	duration, frame := c.Timing()

	elapsed -= c.Delay
	if elapsed < frame {
		return 0
	}

	frames := float64(duration) / float64(frame)
	v := float64(elapsed/frame) * float64(c.Target) / frames
	if v >= float64(c.Target) {
		return c.Target
	}
	return int(math.Floor(v))
}

// Toggle returns the accordion item left open after clicking id. Zero means
// every item is closed.
func Toggle(open, id int) int {
	if open == id {
		return 0
	}
	return id
}

// FormatThousands renders n with comma group separators.
func FormatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3+1)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Reveal tracks which sections already played their entrance animation.
// The zero value is ready to use. Not safe for concurrent use.
type Reveal struct {
	seen map[string]bool
}

// Observe returns true only for the first intersecting observation of section.
func (r *Reveal) Observe(section string, intersecting bool) bool {
	if !intersecting || r.seen[section] {
		return false
	}
	if r.seen == nil {
		r.seen = map[string]bool{}
	}
	r.seen[section] = true
	return true
}

// Revealed reports whether section has been shown.
func (r *Reveal) Revealed(section string) bool { return r.seen[section] }
