package api

// ServiceImageSpec is the concrete image a single service gets built and pushed as
type ServiceImageSpec struct {
	Name      string `json:"name"`
	ImageName string `json:"imageName"`
	Tag       string `json:"tag"`
	Push      bool   `json:"push"`
}

// BuildPlan is the resolved, immutable outcome of one trigger against one pipeline; it is handed
// to the build executor as is and is suitable for serialization to json for audit logging
type BuildPlan struct {
	PipelineName   string             `json:"pipelineName,omitempty"`
	ShouldBuild    bool               `json:"shouldBuild"`
	SkipReason     string             `json:"skipReason,omitempty"`
	ResolvedBranch string             `json:"resolvedBranch,omitempty"`
	ResolvedTags   []string           `json:"resolvedTags,omitempty"`
	Services       []ServiceImageSpec `json:"services,omitempty"`
}

// ValidationResult collects every consistency violation found in a pipeline definition
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
