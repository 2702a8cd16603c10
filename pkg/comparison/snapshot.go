package comparison

import (
	"context"
	"fmt"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/metrics"
)

// Snapshot is everything compared for one app. A category that could not be read is left empty.
type Snapshot struct {
	App               azure.AppRef
	AppSettings       map[string]string
	ConnectionStrings map[string]azure.ConnectionString
	// GeneralConfig is nil when the configuration could not be read.
	GeneralConfig   *azure.GeneralConfig
	CustomDomains   []azure.CustomDomain
	ManagedIdentity azure.ManagedIdentity
	VNetIntegration azure.VNetIntegration
	AuthSettings    azure.AuthSettings
	Cors            azure.CorsSettings
	DeploymentSlots []azure.DeploymentSlot
	IPRestrictions  []azure.IPRestriction
	// Warnings lists the categories that could not be read.
	Warnings []string
}

// Fetch reads every compared category of the app. Reads are independent; a failure degrades that category to no data.
func Fetch(ctx context.Context, reader azure.Reader, ref azure.AppRef) Snapshot {
	s := Snapshot{
		App:      ref,
		Warnings: make([]string, 0),
	}
	failed := func(category string, err error) {
		metrics.IncReadFailure(category)
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s: could not be read from '%s': %v", category, ref, err))
	}

	if v, err := reader.GetAppSettings(ctx, ref); err != nil {
		failed(CategoryAppSettings, err)
	} else {
		s.AppSettings = v
	}
	if v, err := reader.GetConnectionStrings(ctx, ref); err != nil {
		failed(CategoryConnectionStrings, err)
	} else {
		s.ConnectionStrings = v
	}
	if v, err := reader.GetGeneralConfig(ctx, ref); err != nil {
		failed(CategoryConfiguration, err)
	} else {
		s.GeneralConfig = v
	}
	if v, err := reader.GetCustomDomains(ctx, ref); err != nil {
		failed(CategoryCustomDomains, err)
	} else {
		s.CustomDomains = v
	}
	if v, err := reader.GetManagedIdentity(ctx, ref); err != nil {
		failed(CategoryManagedIdentity, err)
	} else if v != nil {
		s.ManagedIdentity = *v
	}
	if v, err := reader.GetVNetIntegration(ctx, ref); err != nil {
		failed(CategoryVNetIntegration, err)
	} else if v != nil {
		s.VNetIntegration = *v
	}
	if v, err := reader.GetAuthSettings(ctx, ref); err != nil {
		failed(CategoryAuthentication, err)
	} else if v != nil {
		s.AuthSettings = *v
	}
	if v, err := reader.GetCorsSettings(ctx, ref); err != nil {
		failed(CategoryCORS, err)
	} else if v != nil {
		s.Cors = *v
	}
	if v, err := reader.GetDeploymentSlots(ctx, ref); err != nil {
		failed(CategoryDeploymentSlots, err)
	} else {
		s.DeploymentSlots = v
	}
	if v, err := reader.GetIPRestrictions(ctx, ref); err != nil {
		failed(CategoryIPRestrictions, err)
	} else {
		s.IPRestrictions = v
	}
	return s
}
