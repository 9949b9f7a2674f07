package trigger

import (
	"context"

	"github.com/numen06/app2docker-engine/api"
	"github.com/rs/zerolog/log"
)

// Service decides whether a webhook push event fires a pipeline and which branch to build
//go:generate mockgen -package=trigger -destination ./mock.go -source=service.go
type Service interface {
	Evaluate(ctx context.Context, config api.PipelineConfig, event api.TriggerEvent) api.TriggerResult
}

// NewService returns a new trigger.Service
func NewService(ctx context.Context) (Service, error) {
	return &service{}, nil
}

type service struct {
}

func (s *service) Evaluate(ctx context.Context, config api.PipelineConfig, event api.TriggerEvent) api.TriggerResult {

	if !config.Enabled {
		return api.TriggerResult{Fire: false, Reason: "pipeline disabled"}
	}

	switch config.WebhookBranchStrategy {

	case api.WebhookBranchStrategyUsePush:
		if event.PushedBranch == "" {
			return api.TriggerResult{Fire: false, Reason: "missing branch in event"}
		}
		return api.TriggerResult{Fire: true, Branch: event.PushedBranch}

	case api.WebhookBranchStrategyFilterMatch:
		if event.PushedBranch == "" {
			return api.TriggerResult{Fire: false, Reason: "missing branch in event"}
		}
		// exact match only, wildcards are not applied here
		if event.PushedBranch != config.Branch {
			log.Debug().Msgf("Pushed branch %v does not equal configured branch %v for pipeline %v", event.PushedBranch, config.Branch, config.Name)
			return api.TriggerResult{Fire: false, Reason: "pushed branch does not match configured branch"}
		}
		return api.TriggerResult{Fire: true, Branch: event.PushedBranch}

	case api.WebhookBranchStrategyUseConfigured:
		branch := config.Branch
		if branch == "" {
			branch = api.DefaultBranch
		}
		return api.TriggerResult{Fire: true, Branch: branch}

	case api.WebhookBranchStrategySelectBranches:
		// an empty selection can linger after a config migration, treat it as never firing
		if len(config.WebhookAllowedBranches) == 0 {
			return api.TriggerResult{Fire: false, Reason: "no branches selected"}
		}
		if event.PushedBranch == "" {
			return api.TriggerResult{Fire: false, Reason: "missing branch in event"}
		}
		for _, b := range config.WebhookAllowedBranches {
			if b == event.PushedBranch {
				return api.TriggerResult{Fire: true, Branch: event.PushedBranch}
			}
		}
		return api.TriggerResult{Fire: false, Reason: "pushed branch not in selected branches"}
	}

	return api.TriggerResult{Fire: false, Reason: "unknown webhook branch strategy"}
}
