package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required cipher key length (AES-256)
	KeySize = 32

	// keyInfo provides HKDF domain separation from any other use of the
	// same app key
	keyInfo = "sessionkit-vault-v1"
)

// deriveKey stretches the app key into the sealing key via HKDF-SHA256.
func deriveKey(appKey []byte) ([]byte, error) {
	if len(appKey) != KeySize {
		return nil, ErrInvalidKey
	}

	key := make([]byte, KeySize)
	reader := hkdf.New(sha256.New, appKey, nil, []byte(keyInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	return key, nil
}

// seal encrypts plaintext with AES-GCM, prepending the nonce to the
// returned ciphertext.
func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts ciphertext produced by seal.
func open(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	nonceSize := aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrDecryptionFailed
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	return plaintext, nil
}
