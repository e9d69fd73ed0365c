// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownOutcome is returned when an outcome label is not one of the five known values.
var ErrUnknownOutcome = errors.New("unknown outcome")

// Outcome is the user's verdict on a pair of pictures.
type Outcome uint8

// The five outcomes, ordered from "picture 1 wins clearly" to "picture 2 wins clearly".
const (
	Pic1MuchBetter Outcome = iota
	Pic1SlightlyBetter
	Equal
	Pic2SlightlyBetter
	Pic2MuchBetter

	outcomeCount = 5
)

// Decisiveness selects the K-factor share applied by an outcome.
type Decisiveness uint8

const (
	MuchBetter Decisiveness = iota
	SlightlyBetter
	Tie
)

// Side names the favoured picture of an outcome.
type Side uint8

const (
	Neither Side = iota
	First
	Second
)

var outcomeLabels = [outcomeCount]string{
	"pic1_much_better",
	"pic1_slightly_better",
	"equal",
	"pic2_slightly_better",
	"pic2_much_better",
}

var outcomeTitles = [outcomeCount]string{
	"Pic 1 Much Better",
	"Pic 1 Slightly Better",
	"Equal",
	"Pic 2 Slightly Better",
	"Pic 2 Much Better",
}

// Outcomes returns every outcome in display order.
func Outcomes() []Outcome {
	return []Outcome{Pic1MuchBetter, Pic1SlightlyBetter, Equal, Pic2SlightlyBetter, Pic2MuchBetter}
}

// ParseOutcome maps a wire label such as "pic1_much_better" to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for i, label := range outcomeLabels {
		if label == s {
			return Outcome(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

// Valid reports whether o is one of the five outcomes.
func (o Outcome) Valid() bool { return o < outcomeCount }

// String returns the wire label.
func (o Outcome) String() string {
	if !o.Valid() {
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
	return outcomeLabels[o]
}

// Title returns the human readable label used by stats output.
func (o Outcome) Title() string {
	if !o.Valid() {
		return o.String()
	}
	return outcomeTitles[o]
}

// Decisiveness reports how strongly the outcome separates the two pictures.
func (o Outcome) Decisiveness() Decisiveness {
	switch o {
	case Pic1MuchBetter, Pic2MuchBetter:
		return MuchBetter
	case Pic1SlightlyBetter, Pic2SlightlyBetter:
		return SlightlyBetter
	default:
		return Tie
	}
}

// Favoured reports which picture the outcome favours.
func (o Outcome) Favoured() Side {
	switch o {
	case Pic1MuchBetter, Pic1SlightlyBetter:
		return First
	case Pic2MuchBetter, Pic2SlightlyBetter:
		return Second
	default:
		return Neither
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcome, uint8(o))
	}
	return []byte(outcomeLabels[o]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Distribution counts committed comparisons per outcome.
type Distribution [outcomeCount]int

// Inc adds one to the counter of o.
func (d *Distribution) Inc(o Outcome) {
	if o.Valid() {
		d[o]++
	}
}

// Count returns the counter of o.
func (d Distribution) Count(o Outcome) int {
	if !o.Valid() {
		return 0
	}
	return d[o]
}

// Total returns the sum of all counters.
func (d Distribution) Total() int {
	var n int
	for _, c := range d {
		n += c
	}
	return n
}

// Percentages returns each counter as a share of the total, in outcome order.
// All zeros when nothing has been counted.
func (d Distribution) Percentages() [outcomeCount]float64 {
	var out [outcomeCount]float64
	total := d.Total()
	if total == 0 {
		return out
	}
	for i, c := range d {
		out[i] = float64(c) / float64(total) * 100
	}
	return out
}

// MarshalJSON writes all five keys in display order.
func (d Distribution) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, label := range outcomeLabels {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = fmt.Appendf(buf, "%d", d[i])
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON reads an object keyed by outcome labels. Missing keys stay zero.
func (d *Distribution) UnmarshalJSON(b []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out Distribution
	for label, n := range raw {
		o, err := ParseOutcome(label)
		if err != nil {
			return err
		}
		out[o] = n
	}
	*d = out
	return nil
}
