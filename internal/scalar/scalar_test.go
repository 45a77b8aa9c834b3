// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scalar

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"-7", -7},
		{"0", 0},
		{"-0", 0},
		{"3.14", 3.14},
		{".5", 0.5},
		{"5.", 5},
		{"-0.25", -0.25},
		{"1/4", 0.25},
		{"-3/4", -0.75},
		{"6/4", 1.5},
		{"  12  ", 12},
		{"１２", 12}, // full-width digits
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Float64())
			assert.True(t, v.IsExact())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"abc", ErrInvalidCharacter},
		{"1e5", ErrInvalidCharacter},
		{"+3", ErrInvalidCharacter},
		{"1/2/3", ErrMalformed},
		{"1.2.3", ErrMalformed},
		{"-", ErrMalformed},
		{".", ErrMalformed},
		{"--1", ErrMalformed},
		{"1-2", ErrMalformed},
		{"1/", ErrMalformed},
		{"/2", ErrMalformed},
		{"1/-2", ErrMalformed},
		{"1.5/2", ErrMalformed},
		{"3/0", ErrZeroDenominator},
		{"-3/000", ErrZeroDenominator},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.in, pe.Text)
		})
	}
}

func TestParse_IntegerRoundTrip(t *testing.T) {
	for _, k := range []int64{0, 1, -1, 7, -42, 1 << 40, -(1 << 53), math.MaxInt64, math.MinInt64 + 1} {
		v, err := Parse(strconv.FormatInt(k, 10))
		require.NoError(t, err)
		assert.Equal(t, float64(k), v.Float64(), "k=%d", k)
	}
}

func TestParse_FractionNearestDouble(t *testing.T) {
	for _, tc := range []struct{ p, q int64 }{{1, 3}, {2, 3}, {-22, 7}, {1, 10}, {355, 113}, {-1, 49}} {
		text := strconv.FormatInt(tc.p, 10) + "/" + strconv.FormatInt(tc.q, 10)
		v, err := Parse(text)
		require.NoError(t, err)

		want, _ := big.NewRat(tc.p, tc.q).Float64()
		assert.Equal(t, want, v.Float64(), text)
		assert.Equal(t, float64(tc.p)/float64(tc.q), v.Float64(), text)
	}
}

func TestScalar_String(t *testing.T) {
	assert.Equal(t, "7", MustParse("7").String())
	assert.Equal(t, "1/2", MustParse("2/4").String())
	assert.Equal(t, "3/2", MustParse("1.5").String())
	assert.Equal(t, "0.1", FromFloat(0.1).String())
	assert.Equal(t, "0.33", MustParse("1/3").Format(2))
}

func TestScalar_RatIsCopy(t *testing.T) {
	v := MustParse("1/3")
	r := v.Rat()
	r.SetInt64(9)
	assert.Equal(t, "1/3", v.String())
	assert.Nil(t, FromFloat(2).Rat())
}

func TestFilter(t *testing.T) {
	assert.Equal(t, "-1/2", Filter("-1/2"))
	assert.Equal(t, "12.5", Filter("1a2.5x"))
	assert.Equal(t, "34", Filter("３４"))
	assert.True(t, Allowed('/'))
	assert.False(t, Allowed('e'))
}
