package analyzer

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count using binary units. Byte values are shown
// as integers, everything larger with a single decimal digit. TB is the
// largest unit, so petabyte-scale values are still reported in TB.
func FormatSize(bytes uint64) string {
	if bytes == 0 {
		return "0 B"
	}

	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d %s", bytes, sizeUnits[unit])
	}
	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}
