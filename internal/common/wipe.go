package common

// WipeByteArray zeroes b. Used for OTP codes read from the terminal.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
