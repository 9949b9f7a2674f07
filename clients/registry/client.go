package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethgrid/pester"
)

// Client is the interface for the console backend's pipeline registry, used to check name
// uniqueness when validating a pipeline definition
//go:generate mockgen -package=registry -destination ./mock.go -source=client.go
type Client interface {
	NameTaken(ctx context.Context, name string) (bool, error)
}

// NewClient returns a new registry.Client for the console api at apiBaseURL
func NewClient(ctx context.Context, apiBaseURL, apiToken string) (Client, error) {
	return &client{
		apiBaseURL: apiBaseURL,
		apiToken:   apiToken,
	}, nil
}

type client struct {
	apiBaseURL string
	apiToken   string
}

type nameTakenResponse struct {
	Taken bool `json:"taken"`
}

func (c *client) NameTaken(ctx context.Context, name string) (bool, error) {

	nameTakenURL := fmt.Sprintf("%v/api/pipelines/name-taken?name=%v", c.apiBaseURL, url.QueryEscape(name))

	// create client, in order to add headers
	client := pester.New()
	client.MaxRetries = 3
	client.Backoff = pester.ExponentialJitterBackoff
	client.KeepLog = true
	client.Timeout = time.Second * 10

	request, err := http.NewRequest("GET", nameTakenURL, nil)
	if err != nil {
		log.Error().Err(err).Msgf("Failed creating http request to %v", nameTakenURL)
		return false, err
	}
	request = request.WithContext(ctx)

	// add headers
	if c.apiToken != "" {
		request.Header.Add("Authorization", fmt.Sprintf("Bearer %v", c.apiToken))
	}

	// perform actual request
	response, err := client.Do(request)
	if err != nil {
		log.Error().Err(err).Str("pesterLogs", client.LogString()).Msgf("Failed performing http request to %v", nameTakenURL)
		return false, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return false, fmt.Errorf("request to %v responded with status code %v", nameTakenURL, response.StatusCode)
	}

	var body nameTakenResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		log.Error().Err(err).Msgf("Failed decoding response from %v", nameTakenURL)
		return false, err
	}

	return body.Taken, nil
}
