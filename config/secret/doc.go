// Package secret encrypts and decrypts the values of encrypted configuration nodes.
//
// A Cipher derives an AES-256-GCM key from a passphrase with argon2id. Ciphertext is
// the base64 encoding of nonce followed by the sealed value, so it can be stored as the
// text of any ValueNode. Cipher implements config.Decrypter:
//
//	cipher, err := secret.ForConfiguration(passphrase, cfg)
//	if err != nil {
//	    return err
//	}
//	password, err := cfg.Find("/billing/db/password").(*config.ValueNode).Decrypt(cipher)
package secret
