package utils

import (
	"crypto/rand"
	"errors"
)

const codeCharSet = "1234567890"

// bytes at or above this value are dropped so that every digit is equally likely
const maxUnbiasedByte = 256 - 256%len(codeCharSet)

// GenerateOTPCode generates a random OTP code of the given length
func GenerateOTPCode(length int) (string, error) {
	if length < 1 {
		return "", errors.New("invalid code length")
	}

	code := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(code) < length {
		_, err := rand.Read(buffer)
		if err != nil {
			return "", err
		}
		for _, b := range buffer {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			code = append(code, codeCharSet[int(b)%len(codeCharSet)])
			if len(code) == length {
				break
			}
		}
	}
	return string(code), nil
}
