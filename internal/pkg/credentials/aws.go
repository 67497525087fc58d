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

package credentials

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

// The subset of the IAM API used to resolve role ARNs
type IamAPI interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput,
		optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

// The subset of the STS API used to report who we're running as
type StsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Creates AWS clients for a shared config profile
type ClientFactory func(ctx context.Context, profile string, region string) (IamAPI, StsAPI, error)

// Loads the shared config profile and creates clients from it. This is the
// equivalent of `AWS_PROFILE=<profile> aws ...`.
func NewAwsClients(ctx context.Context, profile string, region string) (IamAPI, StsAPI, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithSharedConfigProfile(profile),
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Failed to load AWS config for profile '%s'", profile)
	}

	return iam.NewFromConfig(cfg), sts.NewFromConfig(cfg), nil
}

// Looks up the ARN of a role by name
func lookupRoleArn(ctx context.Context, client IamAPI, roleName string) (string, error) {
	output, err := client.GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		return "", errors.Wrap(err, describeLookupError(err))
	}

	if output.Role == nil || aws.ToString(output.Role.Arn) == "" {
		return "", errors.New("GetRole returned no ARN")
	}

	return aws.ToString(output.Role.Arn), nil
}

// Gives a short reason for common IAM failures
func describeLookupError(err error) string {
	var noSuchEntity *iamtypes.NoSuchEntityException
	if errors.As(err, &noSuchEntity) {
		return "role doesn't exist"
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return "not permitted to read the role"
		case "ExpiredToken", "ExpiredTokenException", "InvalidClientTokenId":
			return "credentials are invalid or expired"
		}
		return apiErr.ErrorCode()
	}

	return "IAM request failed"
}
