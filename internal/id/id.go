package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// suffixAlphabet keeps generated names safe on case-insensitive filesystems.
const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Suffix returns a short random string suitable for a directory name.
func Suffix() (string, error) {
	s, err := gonanoid.Generate(suffixAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return s, nil
}
