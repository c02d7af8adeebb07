package level

import "strconv"

// itoa and itoaSlice back this package's trace.Event calls. Every call
// site guards field construction with "if trace.Enabled", so these never
// run in a normal build; there is no reason to avoid strconv here.
func itoa(n int) string { return strconv.Itoa(n) }

func itoaSlice(ns []int) string {
	s := "["
	for i, n := range ns {
		if i > 0 {
			s += ","
		}
		s += strconv.Itoa(n)
	}
	return s + "]"
}
