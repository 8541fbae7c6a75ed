package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/legacyvault/internal/crypto/domain"
)

// SupportedKMSSchemes lists the keeper URL schemes whose drivers are linked in.
var SupportedKMSSchemes = []string{"base64key", "awskms", "gcpkms", "azurekeyvault", "hashivault"}

// KMSService resolves the configured KMS key URI into a keeper that wraps the
// master key at rest.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

var _ KMSService = (*GoCloudKMS)(nil)

// GoCloudKMS opens keepers through gocloud.dev/secrets.
type GoCloudKMS struct {
	schemes []string
}

// NewKMSService returns a KMSService restricted to SupportedKMSSchemes.
func NewKMSService() *GoCloudKMS {
	return &GoCloudKMS{schemes: SupportedKMSSchemes}
}

// OpenKeeper rejects URIs without a supported scheme before handing them to the driver.
func (g *GoCloudKMS) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("failed to open KMS keeper: %w: missing scheme", cryptoDomain.ErrInvalidKMSURI)
	}
	if !slices.Contains(g.schemes, u.Scheme) {
		return nil, fmt.Errorf(
			"failed to open KMS keeper: %w: unsupported scheme %q", cryptoDomain.ErrInvalidKMSURI, u.Scheme,
		)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
