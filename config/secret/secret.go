package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-config/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrEmptyPassphrase is returned when a cipher is created without a passphrase.
	ErrEmptyPassphrase = errors.New("empty passphrase")
	// ErrMalformedCiphertext is returned when a value is not valid ciphertext.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrDecryptionFailed is returned when the key does not open the ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")
)

const keyLength = 32

// Params are the argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams returns the argon2id parameters recommended for interactive use.
func DefaultParams() Params {
	return Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
	}
}

// Options configures a Cipher.
type Options struct {
	Params Params
}

// Option is a functional option for NewCipher.
type Option func(*Options)

// WithParams overrides the key derivation cost.
func WithParams(params Params) Option {
	return func(o *Options) {
		o.Params = params
	}
}

// Cipher seals and opens configuration values with a passphrase-derived key.
type Cipher struct {
	aead cipher.AEAD
}

var _ config.Decrypter = (*Cipher)(nil)

// NewCipher derives the key from passphrase and salt.
func NewCipher(passphrase string, salt []byte, opts ...Option) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	options := &Options{Params: DefaultParams()}
	for _, opt := range opts {
		opt(options)
	}

	params := options.Params
	key := argon2.IDKey([]byte(passphrase), salt, params.Time, params.Memory, params.Threads, keyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating block cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// ForConfiguration returns a cipher salted with the configuration id, so the same
// passphrase yields a different key for every configuration.
func ForConfiguration(passphrase string, cfg *config.Configuration, opts ...Option) (*Cipher, error) {
	if cfg == nil || cfg.Header == nil || cfg.Header.ID == "" {
		return nil, fmt.Errorf("%w: Header.ID", config.ErrPropertyMissing)
	}

	salt := sha3.Sum256([]byte(cfg.Header.ID))

	return NewCipher(passphrase, salt[:], opts...)
}

// Encrypt seals plaintext and returns base64 text.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())

	_, err := rand.Read(nonce)
	if err != nil {
		return "", fmt.Errorf("reading nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens text produced by Encrypt.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}

	size := c.aead.NonceSize()
	if len(sealed) < size+c.aead.Overhead() {
		return "", fmt.Errorf("%w: %d bytes is too short", ErrMalformedCiphertext, len(sealed))
	}

	plaintext, err := c.aead.Open(nil, sealed[:size], sealed[size:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// Seal encrypts the value of node in place and flags it encrypted. Already encrypted
// nodes are left unchanged.
func (c *Cipher) Seal(node *config.ValueNode) error {
	if node.Encrypted() {
		return nil
	}

	ciphertext, err := c.Encrypt(node.Value())
	if err != nil {
		return err
	}

	node.SetValue(ciphertext)
	node.SetEncrypted(true)

	return nil
}
