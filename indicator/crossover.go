// Package indicator computes moving-average crossover signals over a
// closing-price series.
//
// Absent values (positions before a window fills, and the first position of
// a first difference) are represented by NaN. Use IsAbsent to test for them.
package indicator

import "math"

type EventKind string

const (
	EventBuy  EventKind = "BUY"
	EventSell EventKind = "SELL"
)

// Windows is a (short, long) pair of rolling-mean lengths in trading days.
// No ordering between the two is enforced.
type Windows struct {
	Short int `json:"short"`
	Long  int `json:"long"`
}

// Inverted reports whether the short window is not below the long one.
func (w Windows) Inverted() bool {
	return w.Short >= w.Long
}

// Signals holds the four sequences derived from a closing-price series.
// Every slice has the same length as the input.
type Signals struct {
	ShortMean []float64
	LongMean  []float64
	Signal    []float64
	Position  []float64
}

// Event is a single crossover transition.
type Event struct {
	Index int       `json:"index"`
	Kind  EventKind `json:"kind"`
}

// Summary counts the events of a Signals value.
type Summary struct {
	Buys       int  `json:"buys"`
	Sells      int  `json:"sells"`
	LastSignal bool `json:"lastSignal"`
}

// IsAbsent reports whether v marks an undefined position.
func IsAbsent(v float64) bool {
	return math.IsNaN(v)
}

// RollingMean returns the trailing arithmetic mean of values over window.
// Positions before the window fills are NaN. A window below 1 is treated as 1.
//
// Each window is summed on its own as offsets from its first value, so no
// rounding error carries across the series and a window of identical
// values averages to exactly that value.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	if window == 1 {
		copy(out, values)
		return out
	}

	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		first := i - window + 1
		base := values[first]
		offset := 0.0
		for _, v := range values[first+1 : i+1] {
			offset += v - base
		}
		out[i] = base + offset/float64(window)
	}
	return out
}

// ComputeSignals derives both rolling means, the crossover signal and its
// first difference from closes. It never fails: empty input yields empty
// sequences and windows longer than the series yield no events.
func ComputeSignals(closes []float64, shortWindow, longWindow int) Signals {
	shortMean := RollingMean(closes, shortWindow)
	longMean := RollingMean(closes, longWindow)

	signal := make([]float64, len(closes))
	for i := range closes {
		signal[i] = crossed(shortMean[i], longMean[i])
	}

	position := make([]float64, len(closes))
	for i := range signal {
		if i == 0 {
			position[i] = math.NaN()
			continue
		}
		position[i] = signal[i] - signal[i-1]
	}

	return Signals{
		ShortMean: shortMean,
		LongMean:  longMean,
		Signal:    signal,
		Position:  position,
	}
}

// crossed is 1 only when both means are present and short is strictly above
// long. A pair with an absent side is "no signal".
func crossed(short, long float64) float64 {
	if IsAbsent(short) || IsAbsent(long) {
		return 0
	}
	if short > long {
		return 1
	}
	return 0
}

// Events lists every buy (+1) and sell (-1) position in index order.
func (s Signals) Events() []Event {
	events := make([]Event, 0)
	for i, p := range s.Position {
		switch {
		case IsAbsent(p):
			continue
		case p > 0:
			events = append(events, Event{Index: i, Kind: EventBuy})
		case p < 0:
			events = append(events, Event{Index: i, Kind: EventSell})
		}
	}
	return events
}

func (s Signals) Summary() Summary {
	var sum Summary
	for _, e := range s.Events() {
		if e.Kind == EventBuy {
			sum.Buys++
		} else {
			sum.Sells++
		}
	}
	if n := len(s.Signal); n > 0 {
		sum.LastSignal = s.Signal[n-1] == 1
	}
	return sum
}

// Len is the length of the underlying series.
func (s Signals) Len() int {
	return len(s.Signal)
}
