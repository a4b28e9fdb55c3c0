package utils

import "fmt"

// FormatBarcodeNumber builds a printable barcode number. The zero-padded
// 8 digit layout is shared with the label printers and must not change.
func FormatBarcodeNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%08d", prefix, n)
}

// GenerateBarcodeNumbers expands a batch range into its barcode numbers,
// ascending, inclusive on both ends. Calling it again with the same range
// always yields the same sequence, so batch expansion can be re-run.
func GenerateBarcodeNumbers(prefix string, start, end int) []string {
	if end < start {
		return nil
	}

	numbers := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		numbers = append(numbers, FormatBarcodeNumber(prefix, n))
	}
	return numbers
}
