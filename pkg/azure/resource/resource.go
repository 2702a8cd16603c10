package resource

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"

	"github.com/nais/appsvcmigrator/pkg/azure"
)

// ID contains the parts of an Azure Resource Manager ID that the migrator cares about.
type ID struct {
	SubscriptionID azure.SubscriptionId
	ResourceGroup  string
	Name           string
	// ParentName is set for child resources, e.g. the virtual network of a subnet.
	ParentName string
}

// Parse splits a fully qualified resource ID into its parts.
func Parse(id azure.ResourceId) (ID, error) {
	parsed, err := arm.ParseResourceID(id)
	if err != nil {
		return ID{}, fmt.Errorf("parsing resource id '%s': %w", id, err)
	}

	result := ID{
		SubscriptionID: parsed.SubscriptionID,
		ResourceGroup:  parsed.ResourceGroupName,
		Name:           parsed.Name,
	}
	if p := parsed.Parent; p != nil && strings.EqualFold(p.ResourceType.Namespace, parsed.ResourceType.Namespace) {
		result.ParentName = p.Name
	}
	return result, nil
}

// Name returns the last segment of a resource ID, or the input itself if it cannot be parsed.
func Name(id azure.ResourceId) string {
	if parsed, err := Parse(id); err == nil && len(parsed.Name) > 0 {
		return parsed.Name
	}
	return LastSegment(id)
}

// ResourceGroup returns the resource group segment of a resource ID, or the empty string.
func ResourceGroup(id azure.ResourceId) string {
	parsed, err := Parse(id)
	if err != nil {
		return ""
	}
	return parsed.ResourceGroup
}

// LastSegment returns the part after the last '/', used for nested names such as "app/slot" or "app/host.example.com".
func LastSegment(name string) string {
	name = strings.TrimSuffix(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PlanID builds the resource ID of an App Service plan.
func PlanID(subscriptionID azure.SubscriptionId, resourceGroup, name string) azure.ResourceId {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Web/serverfarms/%s", subscriptionID, resourceGroup, name)
}

// AppID builds the resource ID of an App Service app.
func AppID(ref azure.AppRef) azure.ResourceId {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Web/sites/%s", ref.SubscriptionID, ref.ResourceGroup, ref.Name)
}
