package api

// TriggerSource identifies what caused a resolution pass
type TriggerSource string

const (
	// TriggerSourceWebhook is a push event delivered by a git provider webhook
	TriggerSourceWebhook TriggerSource = "webhook"
	// TriggerSourceManual is an operator starting a build from the console
	TriggerSourceManual TriggerSource = "manual"
	// TriggerSourceCron is a scheduled tick
	TriggerSourceCron TriggerSource = "cron"
)

// TriggerEvent is a normalized trigger; provider-specific webhook payloads get normalized into this shape before reaching the engine
type TriggerEvent struct {
	Source               TriggerSource `yaml:"source" json:"source"`
	PushedBranch         string        `yaml:"pushedBranch,omitempty" json:"pushedBranch,omitempty"`
	ManualBranchOverride string        `yaml:"manualBranchOverride,omitempty" json:"manualBranchOverride,omitempty"`
}

// TriggerResult is the outcome of evaluating a webhook trigger against a pipeline
type TriggerResult struct {
	Fire   bool   `json:"fire"`
	Branch string `json:"branch,omitempty"`
	Reason string `json:"reason,omitempty"`
}
