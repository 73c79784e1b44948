// SPDX-License-Identifier: MIT

package sample

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrBitstring marks a bit-string with foreign characters or a non-zero surplus.
	ErrBitstring = errors.New("sample: malformed bit-string")

	// ErrEmpty marks a distribution without any counted outcome.
	ErrEmpty = errors.New("sample: empty distribution")

	// ErrNegativeCount marks a negative frequency.
	ErrNegativeCount = errors.New("sample: negative count")

	// ErrTrialMismatch marks counts that do not sum to the requested trials.
	ErrTrialMismatch = errors.New("sample: counts do not sum to trial count")
)

// Distribution maps a bit-string to its observed frequency.
type Distribution map[string]int

// Outcome is one decoded entry of a Distribution.
type Outcome struct {
	Bitstring string  `json:"bitstring"`
	Bits      []uint8 `json:"bits"`
	Count     int     `json:"count"`
}

// Format renders bits in the pinned order (variable 0 first).
func Format(bits []uint8) string {
	var b strings.Builder
	b.Grow(len(bits))
	for _, x := range bits {
		if x != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Decode parses s into exactly n bits following the length tolerance
// described in the package documentation.
//
// Complexity: O(max(len(s), n)).
func Decode(s string, n int) ([]uint8, error) {
	bits := make([]uint8, n)
	for i := 0; i < len(s); i++ {
		var v uint8
		switch s[i] {
		case '0':
			v = 0
		case '1':
			v = 1
		default:
			return nil, fmt.Errorf("%w: %q has %q at %d", ErrBitstring, s, s[i], i)
		}
		if i >= n {
			if v != 0 {
				return nil, fmt.Errorf("%w: %q sets position %d beyond %d variables", ErrBitstring, s, i, n)
			}
			continue
		}
		bits[i] = v
	}
	return bits, nil
}

// Less orders two equally long assignments by integer value with variable
// 0 as the least-significant bit. It is the module-wide tie-break.
func Less(a, b []uint8) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Total sums every count.
func (d Distribution) Total() int {
	var t int
	for _, c := range d {
		t += c
	}
	return t
}

// Validate enforces the backend contract: non-negative counts summing to
// trials, well-formed bit-strings for n variables.
func (d Distribution) Validate(trials, n int) error {
	if len(d) == 0 || trials <= 0 {
		return ErrEmpty
	}
	var total int
	for s, c := range d {
		if c < 0 {
			return fmt.Errorf("%w: %q=%d", ErrNegativeCount, s, c)
		}
		if _, err := Decode(s, n); err != nil {
			return err
		}
		total += c
	}
	if total != trials {
		return fmt.Errorf("%w: got %d, want %d", ErrTrialMismatch, total, trials)
	}
	return nil
}

// Outcomes decodes every entry for n variables, sorted by descending count
// and then by ascending value. Strings that decode to the same assignment
// (e.g. with and without a zero surplus) are merged.
func (d Distribution) Outcomes(n int) ([]Outcome, error) {
	if len(d) == 0 {
		return nil, ErrEmpty
	}
	merged := make(map[string]*Outcome, len(d))
	for s, c := range d {
		bits, err := Decode(s, n)
		if err != nil {
			return nil, err
		}
		key := Format(bits)
		if o, ok := merged[key]; ok {
			o.Count += c
			continue
		}
		merged[key] = &Outcome{Bitstring: key, Bits: bits, Count: c}
	}

	out := make([]Outcome, 0, len(merged))
	for _, o := range merged {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return Less(out[i].Bits, out[j].Bits)
	})
	return out, nil
}

// MostFrequent returns the outcome with the highest count; ties go to the
// lowest value.
func (d Distribution) MostFrequent(n int) (Outcome, error) {
	out, err := d.Outcomes(n)
	if err != nil {
		return Outcome{}, err
	}
	return out[0], nil
}

// Reverse returns a copy with every bit-string reversed. Adapters for
// services that print qubit 0 last call it once at the boundary.
func (d Distribution) Reverse() Distribution {
	out := make(Distribution, len(d))
	for s, c := range d {
		r := []byte(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		out[string(r)] += c
	}
	return out
}
