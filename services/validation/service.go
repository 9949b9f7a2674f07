package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/numen06/app2docker-engine/api"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// NameTakenFunc checks against the pipeline registry whether a name is already in use
type NameTakenFunc func(ctx context.Context, name string) (bool, error)

// Service cross-checks a candidate pipeline definition for internal consistency before it is
// accepted as build plan input
//go:generate mockgen -package=validation -destination ./mock.go -source=service.go
type Service interface {
	Validate(ctx context.Context, config api.PipelineConfig) api.ValidationResult
}

// NewService returns a new validation.Service; nameTaken may be nil to skip the uniqueness check
func NewService(ctx context.Context, nameTaken NameTakenFunc) (Service, error) {
	return &service{
		nameTaken:  nameTaken,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}, nil
}

type service struct {
	nameTaken  NameTakenFunc
	cronParser cron.Parser
}

// Validate collects every violation instead of failing fast; the caller decides whether to block
// the save or just warn
func (s *service) Validate(ctx context.Context, config api.PipelineConfig) api.ValidationResult {

	errors := []string{}

	if strings.TrimSpace(config.Name) == "" {
		errors = append(errors, "pipeline name is required")
	} else if s.nameTaken != nil {
		taken, err := s.nameTaken(ctx, config.Name)
		if err != nil {
			log.Warn().Err(err).Msgf("Checking name uniqueness for pipeline %v failed", config.Name)
			errors = append(errors, fmt.Sprintf("pipeline name uniqueness could not be verified: %v", err))
		} else if taken {
			errors = append(errors, fmt.Sprintf("pipeline name %v is already taken", config.Name))
		}
	}

	if config.UseProjectDockerfile && config.Template != "" {
		errors = append(errors, "useProjectDockerfile and template are mutually exclusive")
	}
	if !config.UseProjectDockerfile && config.Template == "" {
		errors = append(errors, "either enable useProjectDockerfile or set a template")
	}

	if config.TriggerSchedule {
		if config.CronExpression == "" {
			errors = append(errors, "cronExpression is required when triggerSchedule is enabled")
		} else if _, err := s.cronParser.Parse(config.CronExpression); err != nil {
			errors = append(errors, fmt.Sprintf("cronExpression %v is not a valid five-field cron expression", config.CronExpression))
		}
	}

	if config.WebhookBranchStrategy == api.WebhookBranchStrategySelectBranches && len(config.WebhookAllowedBranches) == 0 {
		errors = append(errors, "webhookAllowedBranches must not be empty for strategy select_branches")
	}

	if config.PushMode == api.PushModeMulti && len(config.SelectedServices) == 0 {
		errors = append(errors, "selectedServices must not be empty in multi push mode")
	}

	for i, m := range config.BranchTagMapping {
		if m.BranchPattern == "" {
			errors = append(errors, fmt.Sprintf("branchTagMapping entry %v has an empty branchPattern", i))
		}
		if !hasNonEmptyTag(m.Tags) {
			errors = append(errors, fmt.Sprintf("branchTagMapping entry %v has no non-empty tags", i))
		}
	}

	return api.ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func hasNonEmptyTag(tags api.TagList) bool {
	for _, rawTag := range tags.Values {
		for _, segment := range strings.Split(rawTag, ",") {
			if strings.TrimSpace(segment) != "" {
				return true
			}
		}
	}
	return false
}
