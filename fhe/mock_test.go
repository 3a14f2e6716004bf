package fhe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockEncryptDecryptRoundTrip(t *testing.T) {
	ck, _ := NewMock()
	for b := 0; b < 256; b++ {
		ct := ck.Encrypt(byte(b))
		assert.Equal(t, byte(b), ck.Decrypt(ct))
	}
}

func TestMockEq(t *testing.T) {
	_, sk := NewMock()
	x := sk.EncryptBit(1)
	ck, _ := NewMock()
	assert.Equal(t, byte(1), ck.Decrypt(sk.Eq(x, 1)))
	assert.Equal(t, byte(0), ck.Decrypt(sk.Eq(x, 0)))
}

func TestMockGeLe(t *testing.T) {
	ck, sk := NewMock()
	x := ck.Encrypt('m')
	assert.Equal(t, byte(1), ck.Decrypt(sk.Ge(x, 'a')))
	assert.Equal(t, byte(0), ck.Decrypt(sk.Ge(x, 'z')))
	assert.Equal(t, byte(1), ck.Decrypt(sk.Le(x, 'z')))
	assert.Equal(t, byte(0), ck.Decrypt(sk.Le(x, 'a')))
}

func TestMockBooleanPrimitives(t *testing.T) {
	ck, sk := NewMock()
	one, zero := sk.EncryptBit(1), sk.EncryptBit(0)

	assert.Equal(t, byte(1), ck.Decrypt(sk.And(one, one)))
	assert.Equal(t, byte(0), ck.Decrypt(sk.And(one, zero)))
	assert.Equal(t, byte(1), ck.Decrypt(sk.Or(zero, one)))
	assert.Equal(t, byte(0), ck.Decrypt(sk.Or(zero, zero)))
	assert.Equal(t, byte(1), ck.Decrypt(sk.Not(zero)))
	assert.Equal(t, byte(0), ck.Decrypt(sk.Not(one)))
}

func TestMockEncryptBitNormalizesToZeroOrOne(t *testing.T) {
	ck, sk := NewMock()
	assert.Equal(t, byte(1), ck.Decrypt(sk.EncryptBit(7)))
	assert.Equal(t, byte(0), ck.Decrypt(sk.EncryptBit(0)))
}

func TestMockDecryptPanicsOnForeignCT(t *testing.T) {
	ck, _ := NewMock()
	assert.Panics(t, func() {
		ck.Decrypt(foreignCT{})
	})
}

type foreignCT struct{}

func (foreignCT) isCT() {}
