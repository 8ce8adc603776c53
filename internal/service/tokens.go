package service

import (
	"crypto/rand"
	"encoding/base64"
)

// opaqueTokenBytes son 256 bits de aleatoriedad.
const opaqueTokenBytes = 32

// NewOpaqueToken genera un token de verificacion o reseteo no interpretable.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
