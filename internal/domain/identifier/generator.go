// Package identifier genera los identificadores públicos: código de empresa y ID de mensaje.
package identifier

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	CompanyCodePrefix   = "COMP"
	CompanyCodeSuffix   = 6
	MessageIDPrefix     = "FB"
	MessageIDSuffixSize = 8
)

// Generator produce identificadores aleatorios. No comprueba colisiones:
// eso lo hace quien persiste (reintento optimista).
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

// CompanyCode devuelve COMP + 6 caracteres alfanuméricos en mayúscula.
func (Generator) CompanyCode() string {
	return CompanyCodePrefix + randomString(CompanyCodeSuffix)
}

// MessageID devuelve FB-<año>-<8 caracteres>; el año es el marcador de periodo.
func (Generator) MessageID(now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", MessageIDPrefix, now.Year(), randomString(MessageIDSuffixSize))
}

func randomString(n int) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("identifier: crypto/rand no disponible: " + err.Error())
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}
