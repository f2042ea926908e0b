package route

// Label returns the spreadsheet-style name for the idx-th generated route:
// 0 -> "Route A", 25 -> "Route Z", 26 -> "Route AA", 701 -> "Route ZZ".
func Label(idx int) string {
	return "Route " + letters(idx)
}

// letters renders idx in the bijective base-26 numeral system over A-Z.
func letters(idx int) string {
	var out []byte
	for {
		out = append([]byte{byte('A' + idx%26)}, out...)
		idx /= 26
		if idx == 0 {
			break
		}
		idx--
	}
	return string(out)
}
