package client

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"

	"github.com/nais/appsvcmigrator/pkg/azure"
)

func (c client) GetAppSettings(ctx context.Context, ref azure.AppRef) (map[string]string, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	resp, err := webApps.ListApplicationSettings(ctx, ref.ResourceGroup, ref.Name, nil)
	if err != nil {
		return nil, notFoundAsErr(err, "listing app settings for '%s'", ref)
	}
	return derefMap(resp.Properties), nil
}

func (c client) SetAppSettings(ctx context.Context, ref azure.AppRef, settings map[string]string) error {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return err
	}

	properties := make(map[string]*string, len(settings))
	for k, v := range settings {
		properties[k] = to.Ptr(v)
	}

	_, err = webApps.UpdateApplicationSettings(ctx, ref.ResourceGroup, ref.Name, armappservice.StringDictionary{
		Properties: properties,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating app settings for '%s': %w", ref, err)
	}
	return nil
}

func (c client) GetConnectionStrings(ctx context.Context, ref azure.AppRef) (map[string]azure.ConnectionString, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	resp, err := webApps.ListConnectionStrings(ctx, ref.ResourceGroup, ref.Name, nil)
	if err != nil {
		return nil, notFoundAsErr(err, "listing connection strings for '%s'", ref)
	}

	result := make(map[string]azure.ConnectionString, len(resp.Properties))
	for name, pair := range resp.Properties {
		if pair == nil {
			continue
		}
		result[name] = azure.ConnectionString{
			Value: deref(pair.Value),
			Type:  azure.ConnectionStringType(deref(pair.Type)),
		}
	}
	return result, nil
}

func (c client) SetConnectionStrings(ctx context.Context, ref azure.AppRef, connectionStrings map[string]azure.ConnectionString) error {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return err
	}

	properties := make(map[string]*armappservice.ConnStringValueTypePair, len(connectionStrings))
	for name, cs := range connectionStrings {
		csType := cs.Type
		if len(csType) == 0 {
			csType = azure.ConnectionStringTypeCustom
		}
		properties[name] = &armappservice.ConnStringValueTypePair{
			Value: to.Ptr(cs.Value),
			Type:  to.Ptr(armappservice.ConnectionStringType(csType)),
		}
	}

	_, err = webApps.UpdateConnectionStrings(ctx, ref.ResourceGroup, ref.Name, armappservice.ConnectionStringDictionary{
		Properties: properties,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating connection strings for '%s': %w", ref, err)
	}
	return nil
}

func (c client) GetGeneralConfig(ctx context.Context, ref azure.AppRef) (*azure.GeneralConfig, error) {
	siteConfig, err := c.siteConfig(ctx, ref)
	if err != nil {
		return nil, err
	}

	cfg := toGeneralConfig(*siteConfig)
	return &cfg, nil
}

// SetGeneralConfig patches the site configuration; fields outside GeneralConfig are left untouched.
func (c client) SetGeneralConfig(ctx context.Context, ref azure.AppRef, cfg azure.GeneralConfig) error {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return err
	}

	siteConfig := &armappservice.SiteConfig{
		AlwaysOn:              to.Ptr(cfg.AlwaysOn),
		Http20Enabled:         to.Ptr(cfg.HTTP20Enabled),
		WebSocketsEnabled:     to.Ptr(cfg.WebSocketsEnabled),
		Use32BitWorkerProcess: to.Ptr(cfg.Use32BitWorkerProcess),
		MinTLSVersion:         optional[armappservice.SupportedTLSVersions](cfg.MinTLSVersion),
		FtpsState:             optional[armappservice.FtpsState](cfg.FTPSState),
		HealthCheckPath:       optional[string](cfg.HealthCheckPath),
		LinuxFxVersion:        optional[string](cfg.LinuxFxVersion),
		WindowsFxVersion:      optional[string](cfg.WindowsFxVersion),
		NetFrameworkVersion:   optional[string](cfg.NetFrameworkVersion),
		PhpVersion:            optional[string](cfg.PHPVersion),
		PythonVersion:         optional[string](cfg.PythonVersion),
		NodeVersion:           optional[string](cfg.NodeVersion),
		JavaVersion:           optional[string](cfg.JavaVersion),
	}

	_, err = webApps.UpdateConfiguration(ctx, ref.ResourceGroup, ref.Name, armappservice.SiteConfigResource{
		Properties: siteConfig,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating configuration for '%s': %w", ref, err)
	}
	return nil
}

func (c client) siteConfig(ctx context.Context, ref azure.AppRef) (*armappservice.SiteConfig, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	resp, err := webApps.GetConfiguration(ctx, ref.ResourceGroup, ref.Name, nil)
	if err != nil {
		return nil, notFoundAsErr(err, "getting configuration for '%s'", ref)
	}
	if resp.Properties == nil {
		return &armappservice.SiteConfig{}, nil
	}
	return resp.Properties, nil
}

func toGeneralConfig(s armappservice.SiteConfig) azure.GeneralConfig {
	return azure.GeneralConfig{
		AlwaysOn:              deref(s.AlwaysOn),
		HTTP20Enabled:         deref(s.Http20Enabled),
		MinTLSVersion:         string(deref(s.MinTLSVersion)),
		FTPSState:             string(deref(s.FtpsState)),
		WebSocketsEnabled:     deref(s.WebSocketsEnabled),
		Use32BitWorkerProcess: deref(s.Use32BitWorkerProcess),
		HealthCheckPath:       deref(s.HealthCheckPath),
		LinuxFxVersion:        deref(s.LinuxFxVersion),
		WindowsFxVersion:      deref(s.WindowsFxVersion),
		NetFrameworkVersion:   deref(s.NetFrameworkVersion),
		PHPVersion:            deref(s.PhpVersion),
		PythonVersion:         deref(s.PythonVersion),
		NodeVersion:           deref(s.NodeVersion),
		JavaVersion:           deref(s.JavaVersion),
	}
}

// optional returns nil for empty strings so that PATCH requests leave the field unchanged.
func optional[T ~string](s string) *T {
	if len(s) == 0 {
		return nil
	}
	v := T(s)
	return &v
}
