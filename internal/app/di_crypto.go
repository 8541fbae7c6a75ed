package app

import (
	"context"
	"fmt"

	"github.com/allisson/legacyvault/internal/anchor"
	cryptoService "github.com/allisson/legacyvault/internal/crypto/service"
	"github.com/allisson/legacyvault/internal/keystore"
)

// Cipher returns the chunked cipher used for asset files and message bodies.
func (c *Container) Cipher() (*cryptoService.ChunkedCipher, error) {
	err := c.lazy(&c.cipherInit, "cipher", func() error {
		alg, err := c.algorithm()
		if err != nil {
			return err
		}
		c.cipher = cryptoService.NewChunkedCipher(cryptoService.NewAEADManager(), alg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.cipher, nil
}

// KMSKeeper returns the keeper protecting the key store file, or nil when KMS_KEY_URI is unset.
func (c *Container) KMSKeeper(ctx context.Context) (cryptoService.KMSKeeper, error) {
	err := c.lazy(&c.kmsKeeperInit, "kmsKeeper", func() (err error) {
		if c.config.KMSKeyURI == "" {
			return nil
		}
		c.kmsKeeper, err = cryptoService.NewKMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.kmsKeeper, nil
}

// KeyStore returns the master key store at KEY_STORE_PATH.
func (c *Container) KeyStore(ctx context.Context) (*keystore.Store, error) {
	err := c.lazy(&c.keyStoreInit, "keyStore", func() error {
		cipher, err := c.Cipher()
		if err != nil {
			return fmt.Errorf("failed to get cipher for key store: %w", err)
		}

		opts := []keystore.Option{keystore.WithLogger(c.Logger())}

		keeper, err := c.KMSKeeper(ctx)
		if err != nil {
			return fmt.Errorf("failed to open kms keeper for key store: %w", err)
		}
		if keeper != nil {
			opts = append(opts, keystore.WithKeeper(keeper))
		}

		c.keyStore = keystore.New(c.config.KeyStorePath, cipher, opts...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.keyStore, nil
}

// KeyEncoder returns the encoder for per-asset and per-message keys. The master key
// is loaded (or created) here so wrapped keys can always be read back.
func (c *Container) KeyEncoder(ctx context.Context) (*keystore.KeyEncoder, error) {
	err := c.lazy(&c.keyEncoderInit, "keyEncoder", func() error {
		cipher, err := c.Cipher()
		if err != nil {
			return fmt.Errorf("failed to get cipher for key encoder: %w", err)
		}

		store, err := c.KeyStore(ctx)
		if err != nil {
			return err
		}

		master, err := store.EnsureKey(ctx)
		if err != nil {
			return fmt.Errorf("failed to load master key: %w", err)
		}

		c.keyEncoder = keystore.NewKeyEncoder(cipher, master, c.config.KeyWrappingEnabled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.keyEncoder, nil
}

// Anchorer returns the blockchain anchor stub.
func (c *Container) Anchorer() *anchor.Stub {
	c.anchorerInit.Do(func() {
		c.anchorer = anchor.NewStub(c.Logger())
	})
	return c.anchorer
}
