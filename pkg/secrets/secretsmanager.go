package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/sakakuai/askbot/config"
)

type secretsManagerStore struct {
	client *secretsmanager.SecretsManager
}

// NewSecretsManagerStore builds a Store on AWS Secrets Manager. The
// underlying client is long-lived and shared across requests.
func NewSecretsManagerStore(cfg config.SecretsConfigs) Store {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	session, _ := session.NewSession(awsConfig)

	return &secretsManagerStore{
		client: secretsmanager.New(session),
	}
}

func (s *secretsManagerStore) Get(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("cannot get secret %s: %w", name, err)
	}

	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	return *out.SecretString, nil
}
