package cli

import (
	"strings"

	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/internal/ui"
)

func (a *App) cloudScreen() error {
	return a.submenu("Cloud", func() []menu.Item {
		return []menu.Item{
			{Label: "Azure login", Run: func() error { return a.run("Azure login", exec.New("az", "login")) }},
			{Label: "Show account", Run: func() error {
				return a.run("Azure account", exec.New("az", "account", "show", "--output", "table"))
			}},
			{Label: "List AKS clusters", Run: a.listClusters},
			{Label: "Get AKS credentials", Run: a.getCredentials},
		}
	})
}

func (a *App) listClusters() error {
	args := []string{"aks", "list", "--output", "table"}
	if a.Config.AzResourceGroup != "" {
		args = append(args, "--resource-group", a.Config.AzResourceGroup)
	}
	return a.run("List AKS clusters", exec.New("az", args...))
}

// getCredentials merges the cluster's kubeconfig, asking for the resource
// group and cluster when they aren't configured.
func (a *App) getCredentials() error {
	group := a.Config.AzResourceGroup
	if group == "" {
		g, err := a.Prompt.Input("Resource group", "Set AZ_RESOURCE_GROUP in the config to skip this", ui.NotEmpty("resource group"))
		if err != nil {
			return err
		}
		group = strings.TrimSpace(g)
	}
	cluster := a.Config.AksCluster
	if cluster == "" {
		c, err := a.Prompt.Input("AKS cluster", "Set AKS_CLUSTER in the config to skip this", ui.NotEmpty("cluster"))
		if err != nil {
			return err
		}
		cluster = strings.TrimSpace(c)
	}

	return a.run("Get credentials for "+cluster,
		exec.New("az", "aks", "get-credentials", "--resource-group", group, "--name", cluster, "--overwrite-existing"))
}
