package client

import (
	"context"
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nais/appsvcmigrator/pkg/azure"
	"github.com/nais/appsvcmigrator/pkg/azure/resource"
)

const defaultHostSuffix = ".azurewebsites.net"

func (c client) GetCustomDomains(ctx context.Context, ref azure.AppRef) ([]azure.CustomDomain, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.CustomDomain, 0)
	pager := webApps.NewListHostNameBindingsPager(ref.ResourceGroup, ref.Name, nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, notFoundAsErr(err, "listing host name bindings for '%s'", ref)
		}
		for _, binding := range next.Value {
			if binding == nil {
				continue
			}
			hostName := resource.LastSegment(deref(binding.Name))
			if len(hostName) == 0 || strings.HasSuffix(strings.ToLower(hostName), defaultHostSuffix) {
				continue
			}
			domain := azure.CustomDomain{
				HostName: hostName,
				SSLState: azure.SSLStateDisabled,
			}
			if p := binding.Properties; p != nil {
				if p.SSLState != nil {
					domain.SSLState = azure.SSLState(*p.SSLState)
				}
				domain.Thumbprint = deref(p.Thumbprint)
			}
			result = append(result, domain)
		}
	}
	return result, nil
}

// GetSSLCertificates returns the certificates in the app's resource group that are bound to, or issued for, one of its custom domains.
func (c client) GetSSLCertificates(ctx context.Context, ref azure.AppRef) ([]azure.Certificate, error) {
	domains, err := c.GetCustomDomains(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return []azure.Certificate{}, nil
	}

	thumbprints := make(map[string]bool)
	hostNames := make(map[string]bool)
	for _, d := range domains {
		if len(d.Thumbprint) > 0 {
			thumbprints[strings.ToUpper(d.Thumbprint)] = true
		}
		hostNames[strings.ToLower(d.HostName)] = true
	}

	certificates, err := c.certificates(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.Certificate, 0)
	pager := certificates.NewListByResourceGroupPager(ref.ResourceGroup, nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, notFoundAsErr(err, "listing certificates in resource group '%s'", ref.ResourceGroup)
		}
		for _, cert := range next.Value {
			if cert == nil || cert.Properties == nil {
				continue
			}
			p := cert.Properties
			certificate := azure.Certificate{
				Name:        deref(cert.Name),
				Thumbprint:  deref(p.Thumbprint),
				SubjectName: deref(p.SubjectName),
				HostNames:   derefAll(p.HostNames),
				KeyVaultID:  deref(p.KeyVaultID),
			}
			if p.ExpirationDate != nil {
				certificate.ExpirationDate = *p.ExpirationDate
			}

			matches := thumbprints[strings.ToUpper(certificate.Thumbprint)] ||
				slices.ContainsFunc(certificate.HostNames, func(h string) bool {
					return hostNames[strings.ToLower(h)]
				})
			if matches {
				result = append(result, certificate)
			}
		}
	}
	return result, nil
}

func (c client) GetManagedIdentity(ctx context.Context, ref azure.AppRef) (*azure.ManagedIdentity, error) {
	site, err := c.site(ctx, ref)
	if err != nil {
		return nil, err
	}

	identity := &azure.ManagedIdentity{
		UserAssigned: make(map[string]azure.UserAssignedIdentity),
	}
	if site.Identity == nil {
		return identity, nil
	}

	identity.SystemAssigned = strings.Contains(string(deref(site.Identity.Type)), "SystemAssigned")
	identity.PrincipalID = deref(site.Identity.PrincipalID)
	for id, uai := range site.Identity.UserAssignedIdentities {
		entry := azure.UserAssignedIdentity{ID: id}
		if uai != nil {
			entry.ClientID = deref(uai.ClientID)
			entry.PrincipalID = deref(uai.PrincipalID)
		}
		identity.UserAssigned[resource.Name(id)] = entry
	}
	return identity, nil
}

func (c client) GetVNetIntegration(ctx context.Context, ref azure.AppRef) (*azure.VNetIntegration, error) {
	site, err := c.site(ctx, ref)
	if err != nil {
		return nil, err
	}

	vnet := &azure.VNetIntegration{}
	if site.Properties == nil || len(deref(site.Properties.VirtualNetworkSubnetID)) == 0 {
		return vnet, nil
	}
	vnet.SubnetID = deref(site.Properties.VirtualNetworkSubnetID)

	if siteConfig, err := c.siteConfig(ctx, ref); err == nil {
		vnet.RouteAll = deref(siteConfig.VnetRouteAllEnabled)
	}

	id, err := resource.Parse(vnet.SubnetID)
	if err != nil {
		return vnet, nil
	}
	vnet.VNetName = id.ParentName
	vnet.SubnetName = id.Name

	// The address prefix is informational; the subnet may live in a subscription we cannot read.
	subnets, err := c.subnets(id.SubscriptionID)
	if err != nil {
		return vnet, nil
	}
	resp, err := subnets.Get(ctx, id.ResourceGroup, id.ParentName, id.Name, nil)
	if err != nil {
		log.WithField("subnet", vnet.SubnetID).Debugf("resolving subnet address prefix: %v", err)
		return vnet, nil
	}
	if resp.Properties != nil {
		vnet.AddressPrefix = deref(resp.Properties.AddressPrefix)
		if len(vnet.AddressPrefix) == 0 {
			if prefixes := derefAll(resp.Properties.AddressPrefixes); len(prefixes) > 0 {
				vnet.AddressPrefix = prefixes[0]
			}
		}
	}
	return vnet, nil
}

func (c client) GetPrivateEndpoints(ctx context.Context, ref azure.AppRef) ([]azure.PrivateEndpoint, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.PrivateEndpoint, 0)
	pager := webApps.NewGetPrivateEndpointConnectionListPager(ref.ResourceGroup, ref.Name, nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, notFoundAsErr(err, "listing private endpoint connections for '%s'", ref)
		}
		for _, conn := range next.Value {
			if conn == nil {
				continue
			}
			endpoint := azure.PrivateEndpoint{Name: deref(conn.Name)}
			if p := conn.Properties; p != nil {
				if p.PrivateEndpoint != nil {
					endpoint.PrivateEndpointID = deref(p.PrivateEndpoint.ID)
				}
				if p.PrivateLinkServiceConnectionState != nil {
					endpoint.Status = deref(p.PrivateLinkServiceConnectionState.Status)
				}
			}
			result = append(result, endpoint)
		}
	}
	return result, nil
}

// GetHybridConnections lists the hybrid connections configured on the app's App Service plan.
func (c client) GetHybridConnections(ctx context.Context, ref azure.AppRef) ([]azure.HybridConnection, error) {
	site, err := c.site(ctx, ref)
	if err != nil {
		return nil, err
	}
	if site.Properties == nil || len(deref(site.Properties.ServerFarmID)) == 0 {
		return []azure.HybridConnection{}, nil
	}

	planID, err := resource.Parse(deref(site.Properties.ServerFarmID))
	if err != nil {
		return nil, err
	}

	plans, err := c.plans(planID.SubscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.HybridConnection, 0)
	pager := plans.NewListHybridConnectionsPager(planID.ResourceGroup, planID.Name, nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			if isNotFound(err) {
				return result, nil
			}
			return nil, fmt.Errorf("listing hybrid connections on plan '%s': %w", planID.Name, err)
		}
		for _, hc := range next.Value {
			if hc == nil {
				continue
			}
			connection := azure.HybridConnection{Name: resource.LastSegment(deref(hc.Name))}
			if p := hc.Properties; p != nil {
				connection.Namespace = deref(p.ServiceBusNamespace)
				connection.HostName = deref(p.Hostname)
				connection.Port = deref(p.Port)
				if len(deref(p.RelayName)) > 0 {
					connection.Name = deref(p.RelayName)
				}
			}
			result = append(result, connection)
		}
	}
	return result, nil
}

func (c client) GetAuthSettings(ctx context.Context, ref azure.AppRef) (*azure.AuthSettings, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	resp, err := webApps.GetAuthSettings(ctx, ref.ResourceGroup, ref.Name, nil)
	if err != nil {
		return nil, notFoundAsErr(err, "getting auth settings for '%s'", ref)
	}

	auth := &azure.AuthSettings{}
	if p := resp.Properties; p != nil {
		auth.Enabled = deref(p.Enabled)
		auth.DefaultProvider = string(deref(p.DefaultProvider))
		auth.UnauthenticatedClientAction = string(deref(p.UnauthenticatedClientAction))
		auth.ClientID = deref(p.ClientID)
		auth.Issuer = deref(p.Issuer)
	}
	return auth, nil
}

func (c client) GetCorsSettings(ctx context.Context, ref azure.AppRef) (*azure.CorsSettings, error) {
	siteConfig, err := c.siteConfig(ctx, ref)
	if err != nil {
		return nil, err
	}

	cors := &azure.CorsSettings{AllowedOrigins: []string{}}
	if siteConfig.Cors != nil {
		cors.AllowedOrigins = derefAll(siteConfig.Cors.AllowedOrigins)
		cors.SupportCredentials = deref(siteConfig.Cors.SupportCredentials)
	}
	return cors, nil
}

func (c client) GetDeploymentSlots(ctx context.Context, ref azure.AppRef) ([]azure.DeploymentSlot, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.DeploymentSlot, 0)
	pager := webApps.NewListSlotsPager(ref.ResourceGroup, ref.Name, nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, notFoundAsErr(err, "listing deployment slots for '%s'", ref)
		}
		for _, s := range next.Value {
			if s == nil {
				continue
			}
			slot := azure.DeploymentSlot{Name: resource.LastSegment(deref(s.Name))}
			if s.Properties != nil {
				slot.State = deref(s.Properties.State)
				slot.DefaultHostName = deref(s.Properties.DefaultHostName)
			}
			result = append(result, slot)
		}
	}
	return result, nil
}

func (c client) GetIPRestrictions(ctx context.Context, ref azure.AppRef) ([]azure.IPRestriction, error) {
	siteConfig, err := c.siteConfig(ctx, ref)
	if err != nil {
		return nil, err
	}

	result := make([]azure.IPRestriction, 0)
	for _, scm := range []bool{false, true} {
		rules := siteConfig.IPSecurityRestrictions
		if scm {
			rules = siteConfig.ScmIPSecurityRestrictions
		}
		for _, r := range rules {
			if r == nil {
				continue
			}
			address := deref(r.IPAddress)
			if len(address) == 0 {
				address = deref(r.VnetSubnetResourceID)
			}
			result = append(result, azure.IPRestriction{
				Name:      deref(r.Name),
				Action:    deref(r.Action),
				IPAddress: address,
				Priority:  deref(r.Priority),
				Tag:       string(deref(r.Tag)),
				SCM:       scm,
			})
		}
	}
	return result, nil
}

func (c client) GetVirtualApplications(ctx context.Context, ref azure.AppRef) ([]azure.VirtualApplication, error) {
	siteConfig, err := c.siteConfig(ctx, ref)
	if err != nil {
		return nil, err
	}

	result := make([]azure.VirtualApplication, 0)
	for _, va := range siteConfig.VirtualApplications {
		if va == nil {
			continue
		}
		result = append(result, azure.VirtualApplication{
			VirtualPath:    deref(va.VirtualPath),
			PhysicalPath:   deref(va.PhysicalPath),
			PreloadEnabled: deref(va.PreloadEnabled),
		})
	}
	return result, nil
}

func (c client) GetWebJobs(ctx context.Context, ref azure.AppRef) ([]azure.WebJob, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	result := make([]azure.WebJob, 0)
	pager := webApps.NewListWebJobsPager(ref.ResourceGroup, ref.Name, nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, notFoundAsErr(err, "listing webjobs for '%s'", ref)
		}
		for _, job := range next.Value {
			if job == nil {
				continue
			}
			webJob := azure.WebJob{Name: resource.LastSegment(deref(job.Name))}
			if job.Properties != nil {
				webJob.Type = string(deref(job.Properties.WebJobType))
			}
			result = append(result, webJob)
		}
	}
	return result, nil
}

// GetBackupConfig returns a disabled configuration when no backup has been set up; the API answers 404 in that case.
func (c client) GetBackupConfig(ctx context.Context, ref azure.AppRef) (*azure.BackupConfig, error) {
	webApps, err := c.webApps(ref.SubscriptionID)
	if err != nil {
		return nil, err
	}

	resp, err := webApps.GetBackupConfiguration(ctx, ref.ResourceGroup, ref.Name, nil)
	if err != nil {
		if isNotFound(err) {
			return &azure.BackupConfig{}, nil
		}
		return nil, fmt.Errorf("getting backup configuration for '%s': %w", ref, err)
	}

	backup := &azure.BackupConfig{}
	if p := resp.Properties; p != nil {
		backup.Enabled = deref(p.Enabled)
		if s := p.BackupSchedule; s != nil {
			backup.FrequencyInterval = deref(s.FrequencyInterval)
			backup.FrequencyUnit = string(deref(s.FrequencyUnit))
			backup.RetentionPeriodInDays = deref(s.RetentionPeriodInDays)
		}
	}
	return backup, nil
}
