package settings

import (
	"github.com/nais/appsvcmigrator/pkg/azure"
)

type configField struct {
	name string
	get  func(*azure.GeneralConfig) string
	set  func(*azure.GeneralConfig, string)
}

func boolField(name string, field func(*azure.GeneralConfig) *bool) configField {
	return configField{
		name: name,
		get: func(g *azure.GeneralConfig) string {
			if *field(g) {
				return "true"
			}
			return ""
		},
		set: func(g *azure.GeneralConfig, v string) {
			*field(g) = v == "true"
		},
	}
}

func stringField(name string, field func(*azure.GeneralConfig) *string) configField {
	return configField{
		name: name,
		get: func(g *azure.GeneralConfig) string {
			return *field(g)
		},
		set: func(g *azure.GeneralConfig, v string) {
			*field(g) = v
		},
	}
}

// generalConfigFields are the copied site configuration fields. Disabled flags and empty strings count as unset.
var generalConfigFields = []configField{
	boolField("alwaysOn", func(g *azure.GeneralConfig) *bool { return &g.AlwaysOn }),
	boolField("http20Enabled", func(g *azure.GeneralConfig) *bool { return &g.HTTP20Enabled }),
	stringField("minTlsVersion", func(g *azure.GeneralConfig) *string { return &g.MinTLSVersion }),
	stringField("ftpsState", func(g *azure.GeneralConfig) *string { return &g.FTPSState }),
	boolField("webSocketsEnabled", func(g *azure.GeneralConfig) *bool { return &g.WebSocketsEnabled }),
	boolField("use32BitWorkerProcess", func(g *azure.GeneralConfig) *bool { return &g.Use32BitWorkerProcess }),
	stringField("healthCheckPath", func(g *azure.GeneralConfig) *string { return &g.HealthCheckPath }),
	stringField("linuxFxVersion", func(g *azure.GeneralConfig) *string { return &g.LinuxFxVersion }),
	stringField("windowsFxVersion", func(g *azure.GeneralConfig) *string { return &g.WindowsFxVersion }),
	stringField("netFrameworkVersion", func(g *azure.GeneralConfig) *string { return &g.NetFrameworkVersion }),
	stringField("phpVersion", func(g *azure.GeneralConfig) *string { return &g.PHPVersion }),
	stringField("pythonVersion", func(g *azure.GeneralConfig) *string { return &g.PythonVersion }),
	stringField("nodeVersion", func(g *azure.GeneralConfig) *string { return &g.NodeVersion }),
	stringField("javaVersion", func(g *azure.GeneralConfig) *string { return &g.JavaVersion }),
}

func configFields(g azure.GeneralConfig) map[string]string {
	fields := make(map[string]string, len(generalConfigFields))
	for _, f := range generalConfigFields {
		if v := f.get(&g); len(v) > 0 {
			fields[f.name] = v
		}
	}
	return fields
}
