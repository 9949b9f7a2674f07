package trigger

import (
	"context"
	"testing"

	"github.com/numen06/app2docker-engine/api"
	"github.com/stretchr/testify/assert"
)

func getTriggerService() Service {
	triggerService, _ := NewService(context.Background())
	return triggerService
}

func TestEvaluate(t *testing.T) {

	t.Run("ReturnsNoFireIfPipelineIsDisabled", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: false, WebhookBranchStrategy: api.WebhookBranchStrategyUsePush}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "main"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.False(t, result.Fire)
		assert.Equal(t, "pipeline disabled", result.Reason)
	})

	t.Run("ReturnsFireWithPushedBranchForUsePushStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategyUsePush, Branch: "main"}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "feature/login"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.True(t, result.Fire)
		assert.Equal(t, "feature/login", result.Branch)
	})

	t.Run("ReturnsNoFireIfPushedBranchIsMissingForUsePushStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategyUsePush}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.False(t, result.Fire)
		assert.Equal(t, "missing branch in event", result.Reason)
	})

	t.Run("ReturnsFireIfPushedBranchEqualsConfiguredBranchForFilterMatchStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategyFilterMatch, Branch: "main"}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "main"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.True(t, result.Fire)
		assert.Equal(t, "main", result.Branch)
	})

	t.Run("ReturnsNoFireIfPushedBranchOnlyPrefixMatchesForFilterMatchStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategyFilterMatch, Branch: "main"}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "main-2"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.False(t, result.Fire)
	})

	t.Run("ReturnsFireWithConfiguredBranchForUseConfiguredStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategyUseConfigured, Branch: "main"}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "feature/login"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.True(t, result.Fire)
		assert.Equal(t, "main", result.Branch)
	})

	t.Run("ReturnsFireWithDefaultBranchIfNoBranchConfiguredForUseConfiguredStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategyUseConfigured}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "feature/login"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.True(t, result.Fire)
		assert.Equal(t, api.DefaultBranch, result.Branch)
	})

	t.Run("ReturnsFireIfPushedBranchIsSelectedForSelectBranchesStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategySelectBranches, WebhookAllowedBranches: []string{"main", "develop"}}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "develop"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.True(t, result.Fire)
		assert.Equal(t, "develop", result.Branch)
	})

	t.Run("ReturnsNoFireIfPushedBranchIsNotSelectedForSelectBranchesStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategySelectBranches, WebhookAllowedBranches: []string{"main"}}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "develop"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.False(t, result.Fire)
		assert.Equal(t, "pushed branch not in selected branches", result.Reason)
	})

	t.Run("ReturnsNoFireIfSelectedBranchesAreEmptyForSelectBranchesStrategy", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: api.WebhookBranchStrategySelectBranches, WebhookAllowedBranches: []string{}}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "main"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.False(t, result.Fire)
		assert.Equal(t, "no branches selected", result.Reason)
	})

	t.Run("ReturnsNoFireIfStrategyIsUnknown", func(t *testing.T) {

		triggerService := getTriggerService()
		config := api.PipelineConfig{Enabled: true, WebhookBranchStrategy: "something_else"}
		event := api.TriggerEvent{Source: api.TriggerSourceWebhook, PushedBranch: "main"}

		// act
		result := triggerService.Evaluate(context.Background(), config, event)

		assert.False(t, result.Fire)
		assert.Equal(t, "unknown webhook branch strategy", result.Reason)
	})
}
