package tools

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// AccessToken gera o token opaco que dá acesso ao resultado de um sorteio.
// 32 bytes de crypto/rand, codificados em base64 URL-safe (não dá pra
// adivinhar a partir de IDs sequenciais).
func AccessToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand só falha se o SO estiver quebrado
		panic("tools: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// AccessCode gera o código de acesso de um grupo: 10 caracteres hex
// maiúsculos, também a partir de crypto/rand.
func AccessCode() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		panic("tools: crypto/rand unavailable: " + err.Error())
	}
	return strings.ToUpper(hex.EncodeToString(b))
}
