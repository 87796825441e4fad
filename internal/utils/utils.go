package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ToStringSlice keeps the string elements of a decoded JSON array
func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// RandomHex returns n random bytes hex encoded
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("[utils.RandomHex] rand.Read: %w", err)
	}
	return hex.EncodeToString(b), nil
}
