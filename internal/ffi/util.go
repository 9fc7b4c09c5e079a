package ffi

// Sum adds two integers with 32-bit wraparound.
func Sum(x, y int32) int32 {
	return x + y
}

// Greeting returns "Hello, " + subject + "!".
func Greeting(subject []byte) []byte {
	out := make([]byte, 0, len("Hello, ")+len(subject)+1)
	out = append(out, "Hello, "...)
	out = append(out, subject...)
	return append(out, '!')
}
