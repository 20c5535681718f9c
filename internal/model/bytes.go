package model

import "strconv"

// byteUnits are the binary unit labels after plain bytes.
var byteUnits = []string{"KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with binary units and one decimal,
// e.g. 100000 -> "97.7 KB". The output does not depend on locale.
func FormatBytes(n int64) string {
	if n < 1024 {
		if n < 0 {
			n = 0
		}
		return strconv.FormatInt(n, 10) + " B"
	}

	value := float64(n)
	unit := ""
	for _, u := range byteUnits {
		value /= 1024
		unit = u
		if value < 1024 {
			break
		}
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + unit
}
