package api

import (
	"io/ioutil"
	"os"

	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v2"
)

// WebhookBranchStrategy determines how a push event maps to a branch to build
type WebhookBranchStrategy string

const (
	// WebhookBranchStrategyUsePush builds whatever branch got pushed
	WebhookBranchStrategyUsePush WebhookBranchStrategy = "use_push"
	// WebhookBranchStrategyFilterMatch builds only when the pushed branch equals the configured branch
	WebhookBranchStrategyFilterMatch WebhookBranchStrategy = "filter_match"
	// WebhookBranchStrategyUseConfigured always builds the configured branch, whatever got pushed
	WebhookBranchStrategyUseConfigured WebhookBranchStrategy = "use_configured"
	// WebhookBranchStrategySelectBranches builds only pushes to an explicitly allowed branch
	WebhookBranchStrategySelectBranches WebhookBranchStrategy = "select_branches"
)

// PushMode determines whether one image or one image per service gets pushed
type PushMode string

const (
	// PushModeSingle pushes a single image for the whole pipeline
	PushModeSingle PushMode = "single"
	// PushModeMulti pushes one image per selected service
	PushModeMulti PushMode = "multi"
)

const (
	// DefaultTag is the tag used when neither a mapping nor the global tag yields one
	DefaultTag = "latest"
	// DefaultBranch is the branch used when no branch is configured nor passed by the trigger
	DefaultBranch = "default"
	// DefaultDockerfileName is the dockerfile name used when none is configured
	DefaultDockerfileName = "Dockerfile"
	// SingleServiceName is the synthetic service name used in single push mode
	SingleServiceName = "<default>"
)

// BranchTagMapping maps a branch pattern to the tags images built from matching branches get
type BranchTagMapping struct {
	BranchPattern string  `yaml:"branchPattern" json:"branchPattern"`
	Tags          TagList `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// ServicePushConfig overrides push behaviour for a single service in multi push mode
type ServicePushConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Push      bool   `yaml:"push,omitempty" json:"push,omitempty"`
	ImageName string `yaml:"imageName,omitempty" json:"imageName,omitempty"`
	Tag       string `yaml:"tag,omitempty" json:"tag,omitempty"`
}

// IsEnabled indicates whether the service takes part in the build plan; unset means enabled
func (s ServicePushConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// PipelineConfig is the persisted definition of a docker image build pipeline
type PipelineConfig struct {
	Name     string `yaml:"name" json:"name"`
	GitURL   string `yaml:"gitUrl" json:"gitUrl"`
	SourceID string `yaml:"sourceId,omitempty" json:"sourceId,omitempty"`
	Branch   string `yaml:"branch,omitempty" json:"branch,omitempty"`

	WebhookBranchStrategy  WebhookBranchStrategy `yaml:"webhookBranchStrategy,omitempty" json:"webhookBranchStrategy,omitempty"`
	WebhookAllowedBranches []string              `yaml:"webhookAllowedBranches,omitempty" json:"webhookAllowedBranches,omitempty"`
	BranchTagMapping       []BranchTagMapping    `yaml:"branchTagMapping,omitempty" json:"branchTagMapping,omitempty"`

	UseProjectDockerfile bool   `yaml:"useProjectDockerfile,omitempty" json:"useProjectDockerfile,omitempty"`
	DockerfileName       string `yaml:"dockerfileName,omitempty" json:"dockerfileName,omitempty"`
	Template             string `yaml:"template,omitempty" json:"template,omitempty"`
	SubPath              string `yaml:"subPath,omitempty" json:"subPath,omitempty"`

	ImageName string   `yaml:"imageName,omitempty" json:"imageName,omitempty"`
	Tag       string   `yaml:"tag,omitempty" json:"tag,omitempty"`
	Push      bool     `yaml:"push,omitempty" json:"push,omitempty"`
	PushMode  PushMode `yaml:"pushMode,omitempty" json:"pushMode,omitempty"`

	SelectedServices  []string                     `yaml:"selectedServices,omitempty" json:"selectedServices,omitempty"`
	ServicePushConfig map[string]ServicePushConfig `yaml:"servicePushConfig,omitempty" json:"servicePushConfig,omitempty"`

	CronExpression  string `yaml:"cronExpression,omitempty" json:"cronExpression,omitempty"`
	TriggerSchedule bool   `yaml:"triggerSchedule,omitempty" json:"triggerSchedule,omitempty"`

	Enabled bool `yaml:"enabled" json:"enabled"`
}

// SetDefaults sets defaults for properties the operator left empty
func (c *PipelineConfig) SetDefaults() {
	if c.WebhookBranchStrategy == "" {
		c.WebhookBranchStrategy = WebhookBranchStrategyUsePush
	}
	if c.PushMode == "" {
		c.PushMode = PushModeSingle
	}
	if c.UseProjectDockerfile && c.DockerfileName == "" {
		c.DockerfileName = DefaultDockerfileName
	}
}

// Exists checks whether the pipeline definition file exists
func Exists(pipelinePath string) bool {

	if _, err := os.Stat(pipelinePath); os.IsNotExist(err) {
		// does not exist
		return false
	}

	// does exist
	return true
}

// ReadPipelineFromFile reads a pipeline definition file into a PipelineConfig object
func ReadPipelineFromFile(pipelinePath string) (config PipelineConfig, err error) {

	log.Debug().Msgf("Reading %v file...", pipelinePath)

	data, err := ioutil.ReadFile(pipelinePath)
	if err != nil {
		return config, err
	}

	return ReadPipeline(string(data))
}

// ReadPipeline reads the string representation of a pipeline definition into a PipelineConfig object
func ReadPipeline(pipelineString string) (config PipelineConfig, err error) {

	// unmarshal strict, so non-defined properties or incorrect nesting will fail
	if err := yaml.UnmarshalStrict([]byte(pipelineString), &config); err != nil {
		return config, err
	}

	// set defaults
	config.SetDefaults()

	return
}
