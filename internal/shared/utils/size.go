package utils

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders n with two decimals in the largest unit below 1024,
// e.g. 1536 -> "1.50 KB".
func FormatBytes(n int64) string {
	f := float64(n)
	if f < 0 {
		f = 0
	}
	i := 0
	for f >= 1024 && i < len(sizeUnits)-1 {
		f /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", f, sizeUnits[i])
}
