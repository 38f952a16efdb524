package logic

// Convert returns count in the converted unit (Fahrenheit for a Celsius
// count), truncated toward zero.
func Convert(count int) int {
	return count*9/5 + 32
}
