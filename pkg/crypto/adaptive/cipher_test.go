package adaptive

import (
	"bytes"
	"errors"
	"testing"
)

var key32 = func() []byte {
	k := make([]byte, KeySize)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}()

var allTypes = []CipherType{CipherAESGCM, CipherChaCha20}

func TestNew_UsesPreferred(t *testing.T) {
	c, err := New(key32)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Type() != Preferred() {
		t.Errorf("New().Type() = %s, want %s", c.Type(), Preferred())
	}
}

func TestNewWithType(t *testing.T) {
	for _, ct := range allTypes {
		t.Run(string(ct), func(t *testing.T) {
			c, err := NewWithType(key32, ct)
			if err != nil {
				t.Fatalf("NewWithType() error = %v", err)
			}
			if c.Type() != ct {
				t.Errorf("Type() = %s, want %s", c.Type(), ct)
			}
		})
	}

	if _, err := NewWithType(key32, "rot13"); err == nil {
		t.Error("NewWithType(unknown) should fail")
	}
}

func TestNewWithType_KeySize(t *testing.T) {
	for _, ct := range allTypes {
		for _, n := range []int{0, 16, 24, 31, 33} {
			if _, err := NewWithType(make([]byte, n), ct); err == nil {
				t.Errorf("NewWithType(%s, %d-byte key) should fail", ct, n)
			}
		}
	}
}

func TestCipher_EncryptDecrypt(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
		aad       []byte
	}{
		{"token", []byte("eyJhbGciOiJSUzI1NiJ9.payload.sig"), []byte("falcon-speak/token/v1")},
		{"empty plaintext", []byte{}, []byte("aad")},
		{"no aad", []byte("secret"), nil},
		{"large", bytes.Repeat([]byte("x"), 64*1024), nil},
	}

	for _, ct := range allTypes {
		c, err := NewWithType(key32, ct)
		if err != nil {
			t.Fatalf("NewWithType(%s) error = %v", ct, err)
		}
		for _, tt := range tests {
			t.Run(string(ct)+"/"+tt.name, func(t *testing.T) {
				sealed, err := c.Encrypt(tt.plaintext, tt.aad)
				if err != nil {
					t.Fatalf("Encrypt() error = %v", err)
				}
				if len(sealed) != len(tt.plaintext)+c.Overhead() {
					t.Errorf("len(sealed) = %d, want %d", len(sealed), len(tt.plaintext)+c.Overhead())
				}

				got, err := c.Decrypt(sealed, tt.aad)
				if err != nil {
					t.Fatalf("Decrypt() error = %v", err)
				}
				if !bytes.Equal(got, tt.plaintext) {
					t.Error("Decrypt() did not return the plaintext")
				}
			})
		}
	}
}

func TestCipher_DecryptRejects(t *testing.T) {
	for _, ct := range allTypes {
		t.Run(string(ct), func(t *testing.T) {
			c, _ := NewWithType(key32, ct)
			sealed, err := c.Encrypt([]byte("secret"), []byte("aad"))
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			tampered := append([]byte(nil), sealed...)
			tampered[len(tampered)-1] ^= 0xff
			if _, err := c.Decrypt(tampered, []byte("aad")); err == nil {
				t.Error("Decrypt(tampered) should fail")
			}
			if _, err := c.Decrypt(sealed, []byte("other")); err == nil {
				t.Error("Decrypt(wrong aad) should fail")
			}
			if _, err := c.Decrypt(sealed[:4], nil); !errors.Is(err, ErrCiphertextTooShort) {
				t.Errorf("Decrypt(short) error = %v, want ErrCiphertextTooShort", err)
			}

			other := bytes.Repeat([]byte{0x42}, KeySize)
			oc, _ := NewWithType(other, ct)
			if _, err := oc.Decrypt(sealed, []byte("aad")); err == nil {
				t.Error("Decrypt(wrong key) should fail")
			}
		})
	}
}

func TestCipher_FreshNonce(t *testing.T) {
	c, _ := New(key32)
	a, _ := c.Encrypt([]byte("same"), nil)
	b, _ := c.Encrypt([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same plaintext should differ")
	}
}
