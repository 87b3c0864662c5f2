package lot

import "crypto/rand"

// Alfabeto sin 0/O ni 1/I para que el código se pueda dictar en mostrador.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const PickupCodeLength = 6

// NewPickupCode genera un código de retiro de 6 caracteres. La unicidad
// contra códigos vigentes se verifica en el caso de uso, con reintento.
func NewPickupCode() (string, error) {
	buf := make([]byte, PickupCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
