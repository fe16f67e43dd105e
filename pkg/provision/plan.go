package provision

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/hullhq/bosun/pkg/config"
	"github.com/hullhq/bosun/pkg/types"
)

// BuildPlan resolves the declared configuration into the ordered resource
// plan for one provisioning run. Order matters: data directories and config
// files come before the containers that mount them, the database before the
// application that connects to it, and firewall rules last so ports are only
// opened for services that exist.
func BuildPlan(cfg *config.Config) types.Plan {
	webData := filepath.Join(cfg.DataDir, cfg.StackName, "web")
	dbData := filepath.Join(cfg.DataDir, cfg.StackName, "db")
	appConfigPath := filepath.Join(cfg.StackDir, cfg.StackName+".conf")
	stackPath := filepath.Join(cfg.StackDir, "stack.yml")

	dbContainer := cfg.DBContainerName()
	webContainer := cfg.WebContainerName()

	return types.Plan{Resources: []types.ManagedResource{
		{
			Kind: types.KindNetwork,
			Name: cfg.StackName + "-data",
			Network: &types.NetworkSpec{
				DataDirs: []string{webData, dbData},
			},
		},
		{
			Kind: types.KindComposeStack,
			Name: cfg.StackName,
			Stack: &types.StackSpec{
				Path: stackPath,
				Services: map[string]types.StackService{
					"web": {
						Image:   cfg.WebImage,
						Restart: "unless-stopped",
						Ports:   []string{fmt.Sprintf("%d:%d", cfg.WebPort, cfg.WebPort)},
						Volumes: []string{webData + ":/var/lib/odoo"},
						Env: map[string]string{
							"HOST": "127.0.0.1",
							"PORT": strconv.Itoa(cfg.DBPort),
							"USER": cfg.DBUser,
						},
						DependsOn: []string{"db"},
					},
					"db": {
						Image:   cfg.DBImage,
						Restart: "unless-stopped",
						Volumes: []string{dbData + ":/var/lib/postgresql/data"},
						Env: map[string]string{
							"POSTGRES_DB":   cfg.DBName,
							"POSTGRES_USER": cfg.DBUser,
						},
					},
				},
				Volumes: []string{cfg.StackName + "-web-data", cfg.StackName + "-db-data"},
			},
		},
		{
			Kind: types.KindConfigFile,
			Name: cfg.StackName + ".conf",
			File: &types.FileSpec{
				Path:      appConfigPath,
				Content:   appConfig(cfg),
				Sensitive: true,
			},
		},
		{
			Kind: types.KindContainer,
			Name: dbContainer,
			Container: &types.ContainerSpec{
				Image: cfg.DBImage,
				Env: []string{
					"POSTGRES_DB=" + cfg.DBName,
					"POSTGRES_USER=" + cfg.DBUser,
					"POSTGRES_PASSWORD=" + cfg.DBPassword,
				},
				Mounts: []types.BindMount{
					{Source: dbData, Destination: "/var/lib/postgresql/data"},
				},
				Ports: []types.PortMapping{
					{HostPort: cfg.DBPort, ContainerPort: cfg.DBPort, Protocol: "tcp"},
				},
			},
		},
		{
			Kind: types.KindContainer,
			Name: webContainer,
			Container: &types.ContainerSpec{
				Image: cfg.WebImage,
				Env: []string{
					"HOST=127.0.0.1",
					"PORT=" + strconv.Itoa(cfg.DBPort),
					"USER=" + cfg.DBUser,
					"PASSWORD=" + cfg.DBPassword,
				},
				Mounts: []types.BindMount{
					{Source: webData, Destination: "/var/lib/odoo"},
					{Source: appConfigPath, Destination: "/etc/odoo/odoo.conf", ReadOnly: true},
				},
				Ports: []types.PortMapping{
					{HostPort: cfg.WebPort, ContainerPort: cfg.WebPort, Protocol: "tcp"},
				},
			},
		},
		{
			Kind:     types.KindFirewallRule,
			Name:     fmt.Sprintf("%d/tcp", cfg.WebPort),
			Firewall: &types.FirewallSpec{Rule: fmt.Sprintf("%d/tcp", cfg.WebPort)},
		},
	}}
}

// appConfig renders the application configuration with settings derived from
// the declared configuration: database coordinates and the master password.
func appConfig(cfg *config.Config) []byte {
	content := fmt.Sprintf(`[options]
admin_passwd = %s
db_host = 127.0.0.1
db_port = %d
db_name = %s
db_user = %s
db_password = %s
proxy_mode = True
`, cfg.AdminPassword, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPassword)
	return []byte(content)
}
