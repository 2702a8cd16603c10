package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/config"
)

var (
	scopes = []string{"https://management.azure.com/.default"}
)

// NewCredential returns a token credential for the configured authentication mode, pinned to the configured tenant.
func NewCredential(cfg *config.Config) (azcore.TokenCredential, error) {
	switch azure.AuthMode(cfg.Auth.Mode) {
	case azure.AuthModeCLI, "":
		cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: cfg.Tenant,
		})
		if err != nil {
			return nil, fmt.Errorf("creating azure cli credential: %w", err)
		}
		return cred, nil
	case azure.AuthModeDefault:
		cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: cfg.Tenant,
		})
		if err != nil {
			return nil, fmt.Errorf("creating default azure credential: %w", err)
		}
		return cred, nil
	case azure.AuthModeClientSecret:
		if len(cfg.Auth.ClientId) == 0 || len(cfg.Auth.ClientSecret) == 0 {
			return nil, fmt.Errorf("auth mode '%s' requires both %s and %s", azure.AuthModeClientSecret, config.AuthClientId, config.AuthClientSecret)
		}
		cred, err := azidentity.NewClientSecretCredential(cfg.Tenant, cfg.Auth.ClientId, cfg.Auth.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("creating client secret credential: %w", err)
		}
		return cred, nil
	}
	return nil, fmt.Errorf("unsupported auth mode '%s'", cfg.Auth.Mode)
}

type tokenClaims struct {
	TenantID   string `json:"tid"`
	ObjectID   string `json:"oid"`
	UPN        string `json:"upn"`
	UniqueName string `json:"unique_name"`
	AppID      string `json:"appid"`
}

func (t tokenClaims) principalName() string {
	switch {
	case len(t.UPN) > 0:
		return t.UPN
	case len(t.UniqueName) > 0:
		return t.UniqueName
	}
	return t.AppID
}

// parseClaims reads the claims of an access token issued for Resource Manager.
// The signature is not verified; the token came straight from the identity provider.
func parseClaims(raw string) (*tokenClaims, error) {
	token, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.RS256, jose.RS384, jose.RS512, jose.ES256, jose.PS256})
	if err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}

	var claims tokenClaims
	if err := token.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return nil, fmt.Errorf("reading access token claims: %w", err)
	}
	return &claims, nil
}

// WhoAmI acquires a Resource Manager token and describes the identity it was issued to.
func (c client) WhoAmI(ctx context.Context) (*azure.Account, error) {
	token, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: scopes})
	if err != nil {
		return nil, fmt.Errorf("fetching azure token: %w", err)
	}

	claims, err := parseClaims(token.Token)
	if err != nil {
		return nil, err
	}

	return &azure.Account{
		TenantID:      claims.TenantID,
		ObjectID:      claims.ObjectID,
		PrincipalName: claims.principalName(),
		ApplicationID: claims.AppID,
		ExpiresOn:     token.ExpiresOn,
	}, nil
}

// verifyTenant fails if the signed-in account belongs to a different tenant than the one requested.
// Tenants given as domain names cannot be compared locally and are accepted as-is.
func verifyTenant(requested string, account *azure.Account) error {
	if len(requested) == 0 || !isGUID(requested) {
		return nil
	}
	if !strings.EqualFold(requested, account.TenantID) {
		return fmt.Errorf("authenticated against tenant '%s', expected '%s'", account.TenantID, requested)
	}
	return nil
}
