package cli

import (
	"encoding/json"
	"sort"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/pkg/sshutil"
)

func (a *App) orchestrationScreen() error {
	return a.submenu("Orchestration", func() []menu.Item {
		return []menu.Item{
			{Label: "List pods", Run: func() error { return a.run("List pods", a.kubectl("get", "pods")) }},
			{Label: "Pod logs", Run: a.podLogs},
			{Label: "Shell into pod", Run: a.podShell},
			{Label: "Switch context", Run: a.switchContext},
			{Label: "SSH to host", Run: a.sshToHost},
		}
	})
}

// kubectl builds a kubectl command in KUBE_NAMESPACE when one is set.
func (a *App) kubectl(args ...string) exec.Command {
	if ns := a.Config.KubeNamespace; ns != "" {
		args = append([]string{"--namespace", ns}, args...)
	}
	return exec.New("kubectl", args...)
}

type podList struct {
	Items []struct {
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"items"`
}

// parsePodNames reads pod names from `kubectl get pods -o json`.
func parsePodNames(data []byte) ([]string, error) {
	var list podList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't read the pod list from kubectl",
			"Check that kubectl can reach the cluster: kubectl get pods")
	}
	names := make([]string, 0, len(list.Items))
	for _, it := range list.Items {
		if it.Metadata.Name != "" {
			names = append(names, it.Metadata.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// pickPod asks for one pod. It returns "" when the user cancels.
func (a *App) pickPod(title string) (string, error) {
	out, err := a.output(a.kubectl("get", "pods", "--output", "json"))
	if err != nil {
		return "", err
	}
	pods, err := parsePodNames([]byte(out))
	if err != nil {
		return "", err
	}
	if len(pods) == 0 {
		return "", errors.New(errors.ErrExec,
			"No pods found",
			"Check the namespace (KUBE_NAMESPACE) and the current context.")
	}
	idx, err := a.choose(title, pods)
	if err != nil || idx < 0 {
		return "", err
	}
	return pods[idx], nil
}

func (a *App) podLogs() error {
	pod, err := a.pickPod("Follow logs of")
	if err != nil || pod == "" {
		return err
	}
	return a.run("Logs of "+pod, a.kubectl("logs", "--follow", "--tail", "200", pod))
}

func (a *App) podShell() error {
	pod, err := a.pickPod("Shell into")
	if err != nil || pod == "" {
		return err
	}
	return a.run("Shell in "+pod, a.kubectl("exec", "--stdin", "--tty", pod, "--", "sh"))
}

func (a *App) switchContext() error {
	out, err := a.output(exec.New("kubectl", "config", "get-contexts", "--output", "name"))
	if err != nil {
		return err
	}
	contexts := lines(out)
	if len(contexts) == 0 {
		return errors.New(errors.ErrExec, "No kubectl contexts configured",
			"Use Cloud > Get AKS credentials first.")
	}
	idx, err := a.choose("Switch context", contexts)
	if err != nil || idx < 0 {
		return err
	}
	return a.run("Use context "+contexts[idx], exec.New("kubectl", "config", "use-context", contexts[idx]))
}

func (a *App) sshToHost() error {
	hosts, err := sshutil.Hosts(a.SSHConfig)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read "+a.SSHConfig, "Check the file's syntax with: ssh -G <host>")
	}
	if len(hosts) == 0 {
		return errors.New(errors.ErrConfig,
			"No hosts in "+a.SSHConfig,
			"Add a Host block to your ssh config.")
	}

	labels := make([]string, len(hosts))
	for i, h := range hosts {
		labels[i] = h.Label()
	}
	idx, err := a.choose("SSH to", labels)
	if err != nil || idx < 0 {
		return err
	}
	return a.run("SSH to "+hosts[idx].Alias, exec.New("ssh", hosts[idx].Alias))
}
