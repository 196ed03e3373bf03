package tui

import "strings"

func abs[T int | float64](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func padRight(s string, n int) string {
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
