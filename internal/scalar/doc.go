// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scalar parses the numeric text typed into a matrix cell.
//
// A cell accepts integers, decimals and simple fractions:
//
//	42   -7   3.14   .5   1/3   -22/7
//
// Parsing is exact: the text is first turned into a big.Rat and only then
// rounded to the nearest float64, so "1/3" yields the double closest to one
// third rather than a truncated decimal.
//
// # Usage
//
//	v, err := scalar.Parse("-22/7")
//	if err != nil {
//	    var pe *scalar.ParseError
//	    errors.As(err, &pe) // pe.Text, pe.Err
//	}
//	f := v.Float64()
package scalar
