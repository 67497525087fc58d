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

// Package credentials sets up access to EKS clusters: it resolves the
// bootstrap role for an AWS profile and has the AWS CLI write a kubeconfig
// that assumes it.
package credentials

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/clusterboot/clusterboot/internal/pkg/constants"
	"github.com/clusterboot/clusterboot/internal/pkg/interfaces"
	"github.com/clusterboot/clusterboot/internal/pkg/kubeconfig"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/program"
	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/clusterboot/clusterboot/internal/pkg/utils"
	"github.com/pkg/errors"
)

type Provisioner struct {
	executor   interfaces.IExecutor
	newClients ClientFactory
	baseDir    string
	region     string
	roleName   string
	awsBinary  string
}

// Creates a provisioner that writes kubeconfig files to baseDir. If
// newClients is nil real AWS clients are used.
func New(executor interfaces.IExecutor, newClients ClientFactory, baseDir string,
	region string, roleName string, awsBinary string) *Provisioner {

	if newClients == nil {
		newClients = NewAwsClients
	}

	return &Provisioner{
		executor:   executor,
		newClients: newClients,
		baseDir:    baseDir,
		region:     region,
		roleName:   roleName,
		awsBinary:  awsBinary,
	}
}

// Resolves the bootstrap role for the AWS profile named by accountId, then
// runs `aws eks update-kubeconfig` to write a kubeconfig for the cluster that
// assumes the role. The context is aliased so reruns overwrite it.
func (p Provisioner) ResolveAndWriteKubeconfig(ctx context.Context, accountId string,
	cluster string) (*structs.CredentialContext, error) {

	if accountId == "" {
		return nil, errors.New("An account is required to set up credentials")
	}

	lookupError := func(err error) error {
		return errors.WithStack(&program.CredentialLookupError{
			Profile: accountId,
			Role:    p.roleName,
			Err:     err,
		})
	}

	iamClient, stsClient, err := p.newClients(ctx, accountId, p.region)
	if err != nil {
		return nil, lookupError(err)
	}

	identity, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, lookupError(errors.Wrap(err, describeLookupError(err)))
	}
	log.Logger.Infof("Using AWS profile '%s' as '%s' in account %s", accountId,
		aws.ToString(identity.Arn), aws.ToString(identity.Account))

	roleArn, err := lookupRoleArn(ctx, iamClient, p.roleName)
	if err != nil {
		return nil, lookupError(err)
	}
	log.Logger.Infof("%s role arn: %s", p.roleName, roleArn)

	credentialContext := &structs.CredentialContext{
		AccountId:      accountId,
		RoleName:       p.roleName,
		RoleArn:        roleArn,
		KubeConfigPath: kubeconfig.Path(p.baseDir, cluster),
		ContextAlias:   kubeconfig.ContextAlias(cluster),
	}

	err = p.executor.Run(ctx, p.updateKubeconfigCommand(credentialContext, cluster))
	if err != nil {
		return nil, errors.Wrapf(err, "Error writing kubeconfig for cluster '%s'", cluster)
	}

	log.Logger.Infof("Kubeconfig for cluster '%s' written to '%s'", cluster,
		credentialContext.KubeConfigPath)

	return credentialContext, nil
}

func (p Provisioner) updateKubeconfigCommand(credentialContext *structs.CredentialContext,
	cluster string) utils.Command {

	args := []string{
		"eks",
		"update-kubeconfig",
		"--name",
		cluster,
		"--alias",
		credentialContext.ContextAlias,
		"--role-arn",
		credentialContext.RoleArn,
	}
	if p.region != "" {
		args = append(args, "--region", p.region)
	}

	return utils.Command{
		Binary: p.awsBinary,
		Args:   args,
		Env: map[string]string{
			constants.EnvKubeConfig: credentialContext.KubeConfigPath,
			constants.EnvAwsProfile: credentialContext.AccountId,
		},
		Dir: p.baseDir,
	}
}
