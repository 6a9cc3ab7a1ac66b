package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterReader is the subset of the SSM client used by LoadSSM.
type ParameterReader interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// LoadSSM overlays every parameter stored under prefix onto config. The last
// path element of a parameter name becomes the key, so
// /portfolio/prod/JWT_SECRET sets JWT_SECRET. Values already present in the
// environment win over SSM.
func LoadSSM(ctx context.Context, client ParameterReader, config map[string]string, prefix string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return loaded, fmt.Errorf("reading SSM parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			key := path.Base(strings.TrimSuffix(*p.Name, "/"))
			if existing, ok := config[key]; ok && existing != "" {
				continue
			}
			config[key] = *p.Value
			loaded++
		}
	}
	return loaded, nil
}
