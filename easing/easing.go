// Package easing maps linear phase progress onto eased progress.
//
// Every Func is pinned at the endpoints: f(p) == 0 for p <= 0 and f(p) == 1
// for p >= 1, and its output is clamped to [0, 1] in between. The catalog
// wraps the tanema/gween easing equations plus the power and smoothstep
// curves used by the dissolution profiles.
package easing

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"
)

// Func maps progress p in [0, 1] to eased progress in [0, 1].
type Func func(p float64) float64

// pin applies the endpoint and range guarantees around raw.
func pin(raw func(p float64) float64) Func {
	return func(p float64) float64 {
		if math.IsNaN(p) || p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		v := raw(p)
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
}

// FromTween adapts a gween TweenFunc to a unit-interval Func.
func FromTween(fn ease.TweenFunc) Func {
	return pin(func(p float64) float64 {
		return float64(fn(float32(p), 0, 1, 1))
	})
}

// Linear returns p unchanged.
var Linear = pin(func(p float64) float64 { return p })

// Smoothstep is p²(3−2p).
var Smoothstep = pin(func(p float64) float64 { return p * p * (3 - 2*p) })

// OutQuad is 1−(1−p)².
var OutQuad = FromTween(ease.OutQuad)

// Power returns p^k. k must be positive.
func Power(k float64) Func {
	return pin(func(p float64) float64 { return math.Pow(p, k) })
}

// catalog holds the monotonic curves selectable by name. Overshooting
// curves (back, elastic, bounce) are left out on purpose: phase progress
// must never leave [0, 1].
var catalog = map[string]Func{
	"linear":       Linear,
	"smoothstep":   Smoothstep,
	"in_quad":      FromTween(ease.InQuad),
	"out_quad":     OutQuad,
	"in_out_quad":  FromTween(ease.InOutQuad),
	"in_cubic":     FromTween(ease.InCubic),
	"out_cubic":    FromTween(ease.OutCubic),
	"in_out_cubic": FromTween(ease.InOutCubic),
	"in_quart":     FromTween(ease.InQuart),
	"out_quart":    FromTween(ease.OutQuart),
	"in_sine":      FromTween(ease.InSine),
	"out_sine":     FromTween(ease.OutSine),
	"in_out_sine":  FromTween(ease.InOutSine),
	"in_expo":      FromTween(ease.InExpo),
	"out_expo":     FromTween(ease.OutExpo),
	"in_circ":      FromTween(ease.InCirc),
	"out_circ":     FromTween(ease.OutCirc),
}

// Parse resolves an easing name. Besides the catalog names it accepts
// "power:<k>" (e.g. "power:1.5"). An empty name means linear.
func Parse(name string) (Func, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return Linear, nil
	}
	if rest, ok := strings.CutPrefix(name, "power:"); ok {
		k, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("easing %q: bad exponent: %w", name, err)
		}
		if k <= 0 || math.IsInf(k, 0) || math.IsNaN(k) {
			return nil, fmt.Errorf("easing %q: exponent must be positive", name)
		}
		return Power(k), nil
	}
	fn, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// Names returns the catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
