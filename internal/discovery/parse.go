// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package discovery

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParsePrice derives a numeric ordering key from a display price string by
// stripping every non-digit character. Missing or digit-free prices parse
// to +Inf so they sort last under ascending price.
func ParsePrice(v string) float64 {
	digits := digitsOf(v)
	if digits == "" {
		return math.Inf(1)
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return math.Inf(1)
	}
	return n
}

// ParseDiscount derives a comparable discount magnitude from a display
// label. Digits are extracted as an integer; labels containing '%' are
// scaled by 100 so percentage discounts always outrank absolute-currency
// discounts with equal digit value. A label with no digits parses to 0.
func ParseDiscount(v string) int {
	digits := digitsOf(v)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	if strings.Contains(v, "%") {
		return n * 100
	}
	return n
}

// digitsOf returns only the decimal digits of s.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// neverPublished stands in for records with no usable timestamp; they are
// treated as infinitely old.
const neverPublished = 9999

// daysSince returns fractional days elapsed from t to now, never negative.
// A zero t yields neverPublished.
func daysSince(now, t time.Time) float64 {
	if t.IsZero() {
		return neverPublished
	}
	d := now.Sub(t).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}
