package plan

import (
	"context"
	"testing"

	"github.com/numen06/app2docker-engine/api"
	"github.com/numen06/app2docker-engine/services/image"
	"github.com/numen06/app2docker-engine/services/tag"
	"github.com/numen06/app2docker-engine/services/trigger"
	"github.com/stretchr/testify/assert"
)

func getPlanService() Service {
	ctx := context.Background()
	tagService, _ := tag.NewService(ctx)
	triggerService, _ := trigger.NewService(ctx)
	imageService, _ := image.NewService(ctx, tagService)
	planService, _ := NewService(ctx, triggerService, tagService, imageService)
	return planService
}

func TestAssemble(t *testing.T) {

	t.Run("ReturnsSkipPlanIfPipelineIsDisabled", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{Name: "app", Enabled: false}
		event := api.TriggerEvent{Source: api.TriggerSourceManual}

		// act
		buildPlan := planService.Assemble(context.Background(), &config, &event)

		assert.False(t, buildPlan.ShouldBuild)
		assert.Equal(t, "disabled", buildPlan.SkipReason)
	})

	t.Run("ReturnsSkipPlanCarryingTriggerReasonIfWebhookDoesNotFire", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{
			Name:                  "app",
			Enabled:               true,
			WebhookBranchStrategy: api.WebhookBranchStrategySelectBranches,
		}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "main"}

		// act
		buildPlan := planService.Assemble(context.Background(), &config, &event)

		assert.False(t, buildPlan.ShouldBuild)
		assert.Equal(t, "no branches selected", buildPlan.SkipReason)
	})

	t.Run("ReturnsBuildPlanForFiringWebhook", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{
			Name:                  "app",
			Enabled:               true,
			WebhookBranchStrategy: api.WebhookBranchStrategyUsePush,
			BranchTagMapping:      []api.BranchTagMapping{{BranchPattern: "main", Tags: api.TagList{Values: []string{"stable"}}}},
			PushMode:              api.PushModeSingle,
			ImageName:             "org/app",
			Tag:                   "latest",
		}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "main"}

		// act
		buildPlan := planService.Assemble(context.Background(), &config, &event)

		assert.True(t, buildPlan.ShouldBuild)
		assert.Equal(t, "main", buildPlan.ResolvedBranch)
		assert.Equal(t, []string{"stable"}, buildPlan.ResolvedTags)
		assert.Equal(t, 1, len(buildPlan.Services))
		assert.Equal(t, api.SingleServiceName, buildPlan.Services[0].Name)
		assert.Equal(t, "org/app", buildPlan.Services[0].ImageName)
		assert.Equal(t, "stable", buildPlan.Services[0].Tag)
		assert.False(t, buildPlan.Services[0].Push)
	})

	t.Run("UsesManualBranchOverrideForManualTriggers", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{Name: "app", Enabled: true, Branch: "main", PushMode: api.PushModeSingle, ImageName: "org/app"}
		event := api.TriggerEvent{Source: api.TriggerSourceManual, ManualBranchOverride: "hotfix/crash"}

		// act
		buildPlan := planService.Assemble(context.Background(), &config, &event)

		assert.True(t, buildPlan.ShouldBuild)
		assert.Equal(t, "hotfix/crash", buildPlan.ResolvedBranch)
	})

	t.Run("UsesConfiguredBranchForCronTriggers", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{Name: "app", Enabled: true, Branch: "main", PushMode: api.PushModeSingle, ImageName: "org/app"}
		event := api.TriggerEvent{Source: api.TriggerSourceCron}

		// act
		buildPlan := planService.Assemble(context.Background(), &config, &event)

		assert.True(t, buildPlan.ShouldBuild)
		assert.Equal(t, "main", buildPlan.ResolvedBranch)
	})

	t.Run("UsesDefaultBranchIfNothingIsConfigured", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{Name: "app", Enabled: true, PushMode: api.PushModeSingle, ImageName: "org/app"}
		event := api.TriggerEvent{Source: api.TriggerSourceManual}

		// act
		buildPlan := planService.Assemble(context.Background(), &config, &event)

		assert.True(t, buildPlan.ShouldBuild)
		assert.Equal(t, api.DefaultBranch, buildPlan.ResolvedBranch)
	})

	t.Run("MatchesMappingAgainstResolvedBranchNotPushedBranch", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{
			Name:                  "app",
			Enabled:               true,
			Branch:                "main",
			WebhookBranchStrategy: api.WebhookBranchStrategyUseConfigured,
			BranchTagMapping:      []api.BranchTagMapping{{BranchPattern: "main", Tags: api.TagList{Values: []string{"stable"}}}},
			PushMode:              api.PushModeSingle,
			ImageName:             "org/app",
		}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "feature/login"}

		// act
		buildPlan := planService.Assemble(context.Background(), &config, &event)

		assert.Equal(t, "main", buildPlan.ResolvedBranch)
		assert.Equal(t, []string{"stable"}, buildPlan.ResolvedTags)
	})

	t.Run("ReturnsIdenticalPlansForIdenticalInputs", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{
			Name:                  "app",
			Enabled:               true,
			WebhookBranchStrategy: api.WebhookBranchStrategyUsePush,
			BranchTagMapping:      []api.BranchTagMapping{{BranchPattern: "release-*", Tags: api.TagList{Values: []string{"stable, ${DATE}"}}}},
			PushMode:              api.PushModeMulti,
			ImageName:             "org/app",
			SelectedServices:      []string{"api", "worker", "frontend"},
		}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "release-1.2"}

		// act
		first := planService.Assemble(context.Background(), &config, &event)
		second := planService.Assemble(context.Background(), &config, &event)

		assert.Equal(t, first, second)
	})

	t.Run("PanicsIfConfigIsNil", func(t *testing.T) {

		planService := getPlanService()
		event := api.TriggerEvent{Source: api.TriggerSourceManual}

		// act
		assert.Panics(t, func() { planService.Assemble(context.Background(), nil, &event) })
	})

	t.Run("PanicsIfEventIsNil", func(t *testing.T) {

		planService := getPlanService()
		config := api.PipelineConfig{Name: "app", Enabled: true}

		// act
		assert.Panics(t, func() { planService.Assemble(context.Background(), &config, nil) })
	})
}
