package plan

import (
	"context"

	"github.com/numen06/app2docker-engine/api"
	"github.com/numen06/app2docker-engine/services/image"
	"github.com/numen06/app2docker-engine/services/tag"
	"github.com/numen06/app2docker-engine/services/trigger"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
)

// Service assembles an immutable build plan out of a pipeline definition and a trigger event
//go:generate mockgen -package=plan -destination ./mock.go -source=service.go
type Service interface {
	Assemble(ctx context.Context, config *api.PipelineConfig, event *api.TriggerEvent) api.BuildPlan
}

// NewService returns a new plan.Service
func NewService(ctx context.Context, triggerService trigger.Service, tagService tag.Service, imageService image.Service) (Service, error) {
	return &service{
		triggerService: triggerService,
		tagService:     tagService,
		imageService:   imageService,
	}, nil
}

type service struct {
	triggerService trigger.Service
	tagService     tag.Service
	imageService   image.Service
}

// Assemble is deterministic and side-effect free; identical inputs always produce identical
// plans, so retried or re-run triggers resolve to exactly the same build. A nil config or event
// is a caller bug and panics instead of being silently tolerated.
func (s *service) Assemble(ctx context.Context, config *api.PipelineConfig, event *api.TriggerEvent) api.BuildPlan {

	if config == nil {
		panic("assembling a build plan requires a non-nil pipeline config")
	}
	if event == nil {
		panic("assembling a build plan requires a non-nil trigger event")
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "AssembleBuildPlan")
	defer span.Finish()

	if !config.Enabled {
		return api.BuildPlan{PipelineName: config.Name, ShouldBuild: false, SkipReason: "disabled"}
	}

	resolvedBranch := ""
	if event.Source == api.TriggerSourceWebhook {
		result := s.triggerService.Evaluate(ctx, *config, *event)
		if !result.Fire {
			log.Debug().Msgf("Webhook for pipeline %v does not fire: %v", config.Name, result.Reason)
			return api.BuildPlan{PipelineName: config.Name, ShouldBuild: false, SkipReason: result.Reason}
		}
		resolvedBranch = result.Branch
	} else {
		resolvedBranch = s.resolveDirectBranch(*config, *event)
	}

	resolvedTags := s.tagService.ResolveTags(ctx, config.BranchTagMapping, resolvedBranch)
	services := s.imageService.ResolveServices(ctx, *config, resolvedBranch)

	return api.BuildPlan{
		PipelineName:   config.Name,
		ShouldBuild:    true,
		ResolvedBranch: resolvedBranch,
		ResolvedTags:   resolvedTags,
		Services:       services,
	}
}

// resolveDirectBranch resolves the branch for manual and cron triggers, which bypass webhook
// strategy evaluation entirely
func (s *service) resolveDirectBranch(config api.PipelineConfig, event api.TriggerEvent) string {

	if event.Source == api.TriggerSourceManual && event.ManualBranchOverride != "" {
		return event.ManualBranchOverride
	}
	if config.Branch != "" {
		return config.Branch
	}

	return api.DefaultBranch
}
