package utils

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

// CodeAlphabet - без 0/O/1/I, чтобы код можно было продиктовать.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomCode возвращает код длины n из CodeAlphabet.
func RandomCode(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("failed to generate random code: " + err.Error())
		}
		out[i] = CodeAlphabet[idx.Int64()]
	}
	return string(out)
}

// RandomToken возвращает prefix_<base64url от 24 случайных байт>.
func RandomToken(prefix string) string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random token: " + err.Error())
	}
	return prefix + "_" + base64.RawURLEncoding.EncodeToString(b)
}
