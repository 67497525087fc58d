/*
 * Copyright 2026 The Clusterboot Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bootstrap

import (
	"bytes"
	"context"
	"testing"

	"github.com/clusterboot/clusterboot/internal/pkg/config"
	"github.com/clusterboot/clusterboot/internal/pkg/constants"
	"github.com/clusterboot/clusterboot/internal/pkg/kubeconfig"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/mock"
	"github.com/clusterboot/clusterboot/internal/pkg/printer"
	"github.com/clusterboot/clusterboot/internal/pkg/program"
	"github.com/clusterboot/clusterboot/internal/pkg/runner"
	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

const criticalPatch = `{"spec":{"template":{"spec":{"tolerations":[{"key":"CriticalAddonsOnly","operator":"Exists"}]}}}}`
const hostNetworkPatch = `{"spec":{"template":{"spec":{"hostNetwork":true}}}}`

var managedCommands = []string{
	"kubectl --ignore-not-found=true -n kube-system delete daemonset/aws-node",
	"kubectl apply -k calico",
	"helm upgrade --install karpenter oci://public.ecr.aws/karpenter/karpenter " +
		"--version 1.4.0 --namespace kube-system " +
		"--set controller.resources.limits.cpu=1500m " +
		"--set controller.resources.limits.memory=1Gi " +
		"--set controller.resources.requests.cpu=200m " +
		"--set controller.resources.requests.memory=1Gi " +
		"--set settings.clusterName=prod-1",
}

var commonCommands = []string{
	"kubectl apply -k cert-manager",
	"kubectl -n cattle-system patch deployment/cattle-cluster-agent --type=merge --patch " + criticalPatch,
	"kubectl -n cattle-system patch deployment/rancher-webhook --type=merge --patch " + criticalPatch,
	"kubectl -n cattle-system patch deployment/rancher-webhook --type=merge --patch " + hostNetworkPatch,
}

func init() {
	log.ConfigureLogger("debug", false)
	printer.SetPlain(true)
	printer.SetOutput(&bytes.Buffer{})
}

// config equivalent to the built-in defaults
func testConf() config.Conf {
	return config.Conf{
		RoleName: "pet_terraform",
		Binaries: config.Binaries{Aws: "aws", Kubectl: "kubectl", Helm: "helm"},
		Cni: config.Cni{
			Namespace:     "kube-system",
			DaemonSet:     "aws-node",
			Kustomization: "calico",
		},
		CertManager: config.CertManager{Kustomization: "cert-manager"},
		Autoscaler: config.Autoscaler{
			Release:   "karpenter",
			Chart:     "oci://public.ecr.aws/karpenter/karpenter",
			Namespace: "kube-system",
			Set: []string{
				"controller.resources.requests.cpu=200m",
				"controller.resources.requests.memory=1Gi",
				"controller.resources.limits.cpu=1500m",
				"controller.resources.limits.memory=1Gi",
			},
		},
	}
}

// Writes a kubeconfig the way `aws eks update-kubeconfig` would instead of
// talking to AWS
type fakeProvisioner struct {
	baseDir string
	// current context to write into the kubeconfig
	currentContext string
	err            error
	calls          []string
}

func (p *fakeProvisioner) ResolveAndWriteKubeconfig(ctx context.Context, accountId string,
	cluster string) (*structs.CredentialContext, error) {

	p.calls = append(p.calls, accountId+"/"+cluster)
	if p.err != nil {
		return nil, p.err
	}

	alias := kubeconfig.ContextAlias(cluster)
	arn := "arn:aws:eks:ap-southeast-2:123456789012:cluster/" + cluster

	kubeConfig := clientcmdapi.NewConfig()
	kubeConfig.Clusters[arn] = &clientcmdapi.Cluster{Server: "https://example.eks.amazonaws.com"}
	kubeConfig.AuthInfos[arn] = &clientcmdapi.AuthInfo{Token: "token"}
	kubeConfig.Contexts[alias] = &clientcmdapi.Context{Cluster: arn, AuthInfo: arn}
	kubeConfig.Contexts["other"] = &clientcmdapi.Context{Cluster: arn, AuthInfo: arn}
	kubeConfig.CurrentContext = p.currentContext

	path := kubeconfig.Path(p.baseDir, cluster)
	if err := clientcmd.WriteToFile(*kubeConfig, path); err != nil {
		return nil, err
	}

	return &structs.CredentialContext{
		AccountId:      accountId,
		RoleName:       "pet_terraform",
		RoleArn:        "arn:aws:iam::123456789012:role/pet_terraform",
		KubeConfigPath: path,
		ContextAlias:   alias,
	}, nil
}

type testHarness struct {
	bootstrapper *Bootstrapper
	executor     *mock.Executor
	provisioner  *fakeProvisioner
	baseDir      string
}

func newHarness(t *testing.T, managed bool, oneclick bool, conf config.Conf) testHarness {
	baseDir := t.TempDir()
	target := structs.ClusterTarget{Name: "prod-1", IsManagedCloud: managed}

	options := Options{Oneclick: oneclick}
	if managed {
		options.AccountId = "prod-account"
	}

	executor := &mock.Executor{}
	r, err := runner.New(executor, target, kubeconfig.Path(baseDir, target.Name), baseDir,
		conf.Binaries, conf.ExtraArgs)
	require.Nil(t, err)

	provisioner := &fakeProvisioner{
		baseDir:        baseDir,
		currentContext: kubeconfig.ContextAlias(target.Name),
	}

	b, err := New(target, options, conf, provisioner, r)
	require.Nil(t, err)

	return testHarness{
		bootstrapper: b,
		executor:     executor,
		provisioner:  provisioner,
		baseDir:      baseDir,
	}
}

func stepNames(steps []Step) []string {
	names := make([]string, len(steps))
	for i, step := range steps {
		names[i] = step.Name
	}
	return names
}

func TestManagedSteps(t *testing.T) {
	h := newHarness(t, true, true, testConf())

	assert.Equal(t, []string{
		constants.StepProvisionCredentials,
		constants.StepConfigureKubeconfig,
		constants.StepRemoveDefaultCNI,
		constants.StepInstallReplacementCNI,
		constants.StepInstallAutoscaler,
		constants.StepInstallCertManager,
		constants.StepPatchClusterAgentTolerations,
		constants.StepPatchWebhookTolerations,
		constants.StepPatchWebhookHostNetwork,
		constants.StepApplyExtraResources,
	}, stepNames(h.bootstrapper.Steps()))
}

func TestUnmanagedSteps(t *testing.T) {
	h := newHarness(t, false, false, testConf())

	assert.Equal(t, []string{
		constants.StepInstallCertManager,
		constants.StepPatchClusterAgentTolerations,
		constants.StepPatchWebhookTolerations,
		constants.StepPatchWebhookHostNetwork,
	}, stepNames(h.bootstrapper.Steps()))
}

func TestManagedRun(t *testing.T) {
	h := newHarness(t, true, false, testConf())

	err := h.bootstrapper.Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, []string{"prod-account/prod-1"}, h.provisioner.calls)
	assert.Equal(t, append(managedCommands, commonCommands...), h.executor.CommandLines())

	kubeConfigPath := kubeconfig.Path(h.baseDir, "prod-1")
	for _, command := range h.executor.Commands {
		assert.Equal(t, map[string]string{"KUBECONFIG": kubeConfigPath}, command.Env,
			"unexpected env for '%s'", command)
		assert.Equal(t, h.baseDir, command.Dir)
	}
}

func TestUnmanagedRun(t *testing.T) {
	h := newHarness(t, false, false, testConf())

	err := h.bootstrapper.Run(context.Background())
	require.Nil(t, err)

	assert.Empty(t, h.provisioner.calls, "no credentials should be set up")
	assert.Equal(t, commonCommands, h.executor.CommandLines())
	for _, command := range h.executor.Commands {
		assert.NotContains(t, command.Env, "AWS_PROFILE")
		assert.Equal(t, kubeconfig.Path(h.baseDir, "prod-1"), command.Env["KUBECONFIG"])
	}
}

func TestConfigureKubeconfigSwitchesContext(t *testing.T) {
	h := newHarness(t, true, false, testConf())
	h.provisioner.currentContext = "other"

	err := h.bootstrapper.Run(context.Background())
	require.Nil(t, err)

	loaded, err := clientcmd.LoadFromFile(kubeconfig.Path(h.baseDir, "prod-1"))
	require.Nil(t, err)
	assert.Equal(t, "prod-1-bootstrap", loaded.CurrentContext)
}

func TestCredentialFailureStopsEverything(t *testing.T) {
	h := newHarness(t, true, false, testConf())
	h.provisioner.err = errors.WithStack(&program.CredentialLookupError{
		Profile: "prod-account",
		Role:    "pet_terraform",
		Err:     errors.New("role doesn't exist"),
	})

	err := h.bootstrapper.Run(context.Background())
	require.Error(t, err)

	var lookupErr *program.CredentialLookupError
	assert.True(t, errors.As(err, &lookupErr))
	assert.Contains(t, err.Error(), constants.StepProvisionCredentials)
	assert.Empty(t, h.executor.Commands, "nothing should touch the cluster")
}

func TestKubeconfigPathMismatch(t *testing.T) {
	h := newHarness(t, true, false, testConf())
	h.provisioner.baseDir = t.TempDir()

	err := h.bootstrapper.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, h.executor.Commands)
}

func TestDefaultCNINotFoundContinues(t *testing.T) {
	h := newHarness(t, true, false, testConf())
	h.executor.FailWhen = mock.FailContaining("daemonset/aws-node",
		`Error from server (NotFound): daemonsets.apps "aws-node" not found`)

	err := h.bootstrapper.Run(context.Background())
	require.Nil(t, err)

	assert.Equal(t, append(managedCommands, commonCommands...), h.executor.CommandLines())
}

func TestDefaultCNIOtherFailureStops(t *testing.T) {
	h := newHarness(t, true, false, testConf())
	h.executor.FailWhen = mock.FailContaining("daemonset/aws-node",
		`error: You must be logged in to the server (Unauthorized)`)

	err := h.bootstrapper.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), constants.StepRemoveDefaultCNI)
	assert.Len(t, h.executor.Commands, 1)
}

func TestDefaultCNIClientErrorsStop(t *testing.T) {
	for _, stderr := range []string{
		"Unable to connect to the server: getting credentials: exec: executable aws not found",
		`error: context "prod-1-bootstrap" not found`,
	} {
		h := newHarness(t, true, false, testConf())
		h.executor.FailWhen = mock.FailContaining("daemonset/aws-node", stderr)

		err := h.bootstrapper.Run(context.Background())
		require.Error(t, err, "'%s' should stop the run", stderr)
		assert.Contains(t, err.Error(), constants.StepRemoveDefaultCNI)
		assert.Len(t, h.executor.Commands, 1, "no step should run after '%s'", stderr)
	}
}

func TestFailureHaltsSequence(t *testing.T) {
	h := newHarness(t, true, false, testConf())
	h.executor.FailWhen = mock.FailContaining("apply -k calico", "error: unable to recognize")

	err := h.bootstrapper.Run(context.Background())
	require.Error(t, err)

	var failure *program.ExternalCommandFailure
	assert.True(t, errors.As(err, &failure))
	assert.Contains(t, err.Error(), constants.StepInstallReplacementCNI)
	assert.Equal(t, managedCommands[:2], h.executor.CommandLines(),
		"no step should run after the failure")
}

func TestPatchMissingTargetFailsEveryRun(t *testing.T) {
	h := newHarness(t, false, false, testConf())
	h.executor.FailWhen = mock.FailContaining("deployment/rancher-webhook",
		`Error from server (NotFound): deployments.apps "rancher-webhook" not found`)

	for i := 0; i < 2; i++ {
		err := h.bootstrapper.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), constants.StepPatchWebhookTolerations)
	}

	// cert-manager, cattle-cluster-agent and the first webhook patch, twice
	assert.Len(t, h.executor.Commands, 6)
}

func TestRerunIssuesSameCommands(t *testing.T) {
	h := newHarness(t, true, false, testConf())

	require.Nil(t, h.bootstrapper.Run(context.Background()))
	first := h.executor.CommandLines()

	require.Nil(t, h.bootstrapper.Run(context.Background()))
	all := h.executor.CommandLines()

	require.Len(t, all, 2*len(first))
	assert.Equal(t, first, all[len(first):])
	assert.Len(t, h.provisioner.calls, 2)
}

func TestAutoscalerValuesFromConfig(t *testing.T) {
	conf := testConf()
	conf.Autoscaler.Set = []string{
		"settings.clusterName=someone-else",
		"settings.interruptionQueue={{ .Cluster }}-interruptions",
		"controller.resources.requests.cpu={{ if .Managed }}400m{{ else }}100m{{ end }}",
	}
	h := newHarness(t, true, false, conf)

	release, err := h.bootstrapper.autoscalerRelease()
	require.Nil(t, err)

	assert.Equal(t, "1.4.0", release.Version)
	assert.Equal(t, map[string]string{
		"settings.clusterName":              "prod-1",
		"settings.interruptionQueue":        "prod-1-interruptions",
		"controller.resources.requests.cpu": "400m",
	}, release.Values)

	args := release.UpgradeArgs()
	assert.Contains(t, args, "settings.clusterName=prod-1")
	assert.NotContains(t, args, "settings.clusterName=someone-else")
}

func TestAutoscalerWithoutConfiguredValues(t *testing.T) {
	conf := testConf()
	conf.Autoscaler.Set = nil
	h := newHarness(t, true, false, conf)

	release, err := h.bootstrapper.autoscalerRelease()
	require.Nil(t, err)
	assert.Equal(t, map[string]string{"settings.clusterName": "prod-1"}, release.Values)
}

func TestAutoscalerBadTemplate(t *testing.T) {
	conf := testConf()
	conf.Autoscaler.Set = []string{"settings.interruptionQueue={{ .Queue }}"}
	h := newHarness(t, true, false, conf)

	err := h.bootstrapper.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), constants.StepInstallAutoscaler)
	assert.Equal(t, managedCommands[:2], h.executor.CommandLines())
}

func TestOneclickNothingConfigured(t *testing.T) {
	h := newHarness(t, false, true, testConf())

	err := h.bootstrapper.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, commonCommands, h.executor.CommandLines())
}

func TestOneclickPaths(t *testing.T) {
	conf := testConf()
	conf.Oneclick = config.Oneclick{
		Paths:        []string{"oneclick/priorityclasses.yaml"},
		ManagedPaths: []string{"oneclick/nodepools"},
	}

	managed := newHarness(t, true, true, conf)
	require.Nil(t, managed.bootstrapper.Run(context.Background()))
	lines := managed.executor.CommandLines()
	assert.Equal(t, []string{
		"kubectl apply -R -f oneclick/nodepools",
		"kubectl apply -R -f oneclick/priorityclasses.yaml",
	}, lines[len(lines)-2:])

	unmanaged := newHarness(t, false, true, conf)
	require.Nil(t, unmanaged.bootstrapper.Run(context.Background()))
	assert.Equal(t, append(append([]string{}, commonCommands...),
		"kubectl apply -R -f oneclick/priorityclasses.yaml"), unmanaged.executor.CommandLines())
}

func TestOneclickNotRequested(t *testing.T) {
	conf := testConf()
	conf.Oneclick = config.Oneclick{Paths: []string{"oneclick/priorityclasses.yaml"}}
	h := newHarness(t, false, false, conf)

	require.Nil(t, h.bootstrapper.Run(context.Background()))
	assert.Equal(t, commonCommands, h.executor.CommandLines())
}

func TestCancelledContext(t *testing.T) {
	h := newHarness(t, true, false, testConf())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.bootstrapper.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, h.provisioner.calls)
	assert.Empty(t, h.executor.Commands)
}

func TestNewValidation(t *testing.T) {
	executor := &mock.Executor{}
	r, err := runner.New(executor, structs.ClusterTarget{Name: "prod-1"}, "/tmp/kc", "",
		config.Binaries{}, config.ExtraArgs{})
	require.Nil(t, err)
	provisioner := &fakeProvisioner{}

	_, err = New(structs.ClusterTarget{}, Options{}, testConf(), provisioner, r)
	assert.Error(t, err, "a cluster name is required")

	_, err = New(structs.ClusterTarget{Name: "prod-1"}, Options{}, testConf(), provisioner, nil)
	assert.Error(t, err, "a runner is required")

	managed := structs.ClusterTarget{Name: "prod-1", IsManagedCloud: true}
	_, err = New(managed, Options{}, testConf(), provisioner, r)
	assert.Error(t, err, "managed clusters need an account")

	_, err = New(managed, Options{AccountId: "prod-account"}, testConf(), nil, r)
	assert.Error(t, err, "managed clusters need a provisioner")

	_, err = New(structs.ClusterTarget{Name: "prod-1"}, Options{}, testConf(), nil, r)
	assert.Nil(t, err)
}
