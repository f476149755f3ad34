package command

import (
	"errors"
	"strconv"
	"strings"
)

// ParseDistance converts argument text to a number the way C's atof does:
// leading white space is skipped, the longest prefix that reads as a number
// is used and anything after it is ignored. Text with no numeric prefix,
// including the empty string, gives 0, which the sensor rejects as a
// calibration distance.
func ParseDistance(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	for end := len(s); end > 0; end-- {
		v, err := strconv.ParseFloat(s[:end], 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return v
		}
	}
	return 0
}
