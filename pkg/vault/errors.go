package vault

import "errors"

var (
	// ErrInvalidKey indicates the cipher key is not the required length
	ErrInvalidKey = errors.New("vault.invalid_key")

	// ErrEncryptionFailed indicates the credential could not be sealed
	ErrEncryptionFailed = errors.New("vault.encryption_failed")

	// ErrDecryptionFailed indicates a stored credential could not be opened
	ErrDecryptionFailed = errors.New("vault.decryption_failed")

	// ErrCorrupted indicates the backing store is damaged. Recovered
	// internally by the health guard; callers never see it.
	ErrCorrupted = errors.New("vault.corrupted")
)
