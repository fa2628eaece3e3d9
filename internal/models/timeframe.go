package models

import (
	"strconv"
	"strings"
)

// Timeframe is a duration label such as "2 Weeks" chosen when a goal is created
type Timeframe string

const (
	Timeframe1Week   Timeframe = "1 Week"
	Timeframe2Weeks  Timeframe = "2 Weeks"
	Timeframe1Month  Timeframe = "1 Month"
	Timeframe3Months Timeframe = "3 Months"
	Timeframe6Months Timeframe = "6 Months"
	Timeframe1Year   Timeframe = "1 Year"
)

// Timeframes lists the recognised timeframes from shortest to longest
var Timeframes = []Timeframe{
	Timeframe1Week,
	Timeframe2Weeks,
	Timeframe1Month,
	Timeframe3Months,
	Timeframe6Months,
	Timeframe1Year,
}

const (
	daysPerWeek  = 7
	daysPerMonth = 30
	daysPerYear  = 365
)

// Valid reports whether t is one of the enumerated timeframes
func (t Timeframe) Valid() bool {
	for _, known := range Timeframes {
		if t == known {
			return true
		}
	}
	return false
}

// Days returns the number of days the timeframe spans, or 0 for an unrecognised label.
// The count is the label's leading number times the unit multiplier: weeks are 7 days,
// a year is 365 days and every other unit is 30 days.
func (t Timeframe) Days() int {
	if !t.Valid() {
		return 0
	}
	fields := strings.Fields(string(t))
	if len(fields) != 2 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0
	}
	unit := strings.TrimSuffix(fields[1], "s")
	switch unit {
	case "Week":
		return n * daysPerWeek
	case "Year":
		return n * daysPerYear
	default:
		return n * daysPerMonth
	}
}
