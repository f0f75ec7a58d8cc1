package game

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// IDProvider issues identifiers for persisted rows.
type IDProvider interface {
	NewID() (string, error)
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7 identifiers.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// CodeProvider issues candidate shareable game codes. Uniqueness is enforced
// by the caller against storage, not by the provider.
type CodeProvider interface {
	NewCode() (GameCode, error)
}

// codeAlphabet omits 0/O/1/I to keep codes unambiguous when read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type randomCodeProvider struct{}

// NewRandomCodeProvider constructs a CodeProvider backed by crypto/rand.
func NewRandomCodeProvider() CodeProvider {
	return &randomCodeProvider{}
}

func (p *randomCodeProvider) NewCode() (GameCode, error) {
	buf := make([]byte, gameCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, gameCodeLength)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return GameCode(out), nil
}
