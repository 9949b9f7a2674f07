package dockerfile

import (
	"bufio"
	"context"
	"os"
	"regexp"

	"github.com/numen06/app2docker-engine/clients/cache"
	"github.com/rs/zerolog/log"
)

var fromStageRegex = regexp.MustCompile(`(?i)^\s*FROM\s+\S+\s+AS\s+(\S+)`)

// Client is the interface for listing the service stages declared in a multi-stage dockerfile
//go:generate mockgen -package=dockerfile -destination ./mock.go -source=client.go
type Client interface {
	GetServices(ctx context.Context, dockerfilePath string) ([]string, error)
	Rescan(ctx context.Context, dockerfilePath string) ([]string, error)
}

// NewClient returns a new dockerfile.Client; scans are read-through cached per path
func NewClient(ctx context.Context, cacheClient cache.Client) (Client, error) {
	return &client{
		cacheClient: cacheClient,
	}, nil
}

type client struct {
	cacheClient cache.Client
}

func (c *client) GetServices(ctx context.Context, dockerfilePath string) ([]string, error) {
	return c.cacheClient.FetchOrCompute(ctx, dockerfilePath, func(ctx context.Context) ([]string, error) {
		return c.scan(dockerfilePath)
	})
}

// Rescan drops the cached stage list for the path and scans again, for after the dockerfile
// changed in the repository
func (c *client) Rescan(ctx context.Context, dockerfilePath string) ([]string, error) {
	c.cacheClient.Invalidate(dockerfilePath)
	return c.GetServices(ctx, dockerfilePath)
}

func (c *client) scan(dockerfilePath string) ([]string, error) {

	log.Debug().Msgf("Scanning %v for service stages...", dockerfilePath)

	file, err := os.Open(dockerfilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	services := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if match := fromStageRegex.FindStringSubmatch(scanner.Text()); match != nil {
			services = append(services, match[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return services, nil
}
