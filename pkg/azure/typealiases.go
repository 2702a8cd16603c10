package azure

// SubscriptionId is the GUID of an Azure subscription
type SubscriptionId = string

// TenantId is the GUID of an Azure AD tenant
type TenantId = string

// ResourceId is a fully qualified Azure Resource Manager ID, e.g. /subscriptions/.../resourceGroups/.../providers/...
type ResourceId = string

// HostName is a DNS host name bound to an App Service app
type HostName = string
