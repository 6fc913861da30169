package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// UintToString converts a numeric ID to its decimal string form,
// matching the representation used inside the voters column.
func UintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
