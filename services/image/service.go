package image

import (
	"context"
	"strings"

	"github.com/numen06/app2docker-engine/api"
	"github.com/numen06/app2docker-engine/services/tag"
)

// Service computes the concrete image name, tag and push flag for every service in a pipeline
//go:generate mockgen -package=image -destination ./mock.go -source=service.go
type Service interface {
	ResolveServices(ctx context.Context, config api.PipelineConfig, resolvedBranch string) []api.ServiceImageSpec
}

// NewService returns a new image.Service
func NewService(ctx context.Context, tagService tag.Service) (Service, error) {
	return &service{
		tagService: tagService,
	}, nil
}

type service struct {
	tagService tag.Service
}

func (s *service) ResolveServices(ctx context.Context, config api.PipelineConfig, resolvedBranch string) []api.ServiceImageSpec {

	mappedTags := s.tagService.ResolveTags(ctx, config.BranchTagMapping, resolvedBranch)

	if config.PushMode == api.PushModeMulti {
		return s.resolveMultiService(config, mappedTags)
	}

	return s.resolveSingleService(config, mappedTags)
}

func (s *service) resolveSingleService(config api.PipelineConfig, mappedTags []string) []api.ServiceImageSpec {

	spec := api.ServiceImageSpec{
		Name:      api.SingleServiceName,
		ImageName: config.ImageName,
		Tag:       firstNonEmpty(firstOrEmpty(mappedTags), config.Tag, api.DefaultTag),
		Push:      config.Push,
	}

	// with a single selected service its overrides apply to the one image that gets built
	if len(config.SelectedServices) == 1 {
		serviceName := config.SelectedServices[0]
		spec.Name = serviceName
		if override, ok := config.ServicePushConfig[serviceName]; ok {
			if override.ImageName != "" {
				spec.ImageName = override.ImageName
			}
			if override.Tag != "" {
				spec.Tag = override.Tag
			}
		}
	}

	return []api.ServiceImageSpec{spec}
}

// resolveMultiService walks selectedServices in stored order; that order is the single source of
// truth for output ordering, map iteration order never leaks into the plan
func (s *service) resolveMultiService(config api.PipelineConfig, mappedTags []string) []api.ServiceImageSpec {

	specs := make([]api.ServiceImageSpec, 0, len(config.SelectedServices))

	for _, serviceName := range config.SelectedServices {

		// keys in servicePushConfig for services no longer in the dockerfile are stale leftovers
		// of a rescan and get ignored by never looking them up
		override, hasOverride := config.ServicePushConfig[serviceName]
		if hasOverride && !override.IsEnabled() {
			continue
		}

		imageName := override.ImageName
		if imageName == "" {
			imageName = joinImageName(config.ImageName, serviceName)
		}

		specs = append(specs, api.ServiceImageSpec{
			Name:      serviceName,
			ImageName: imageName,
			Tag:       firstNonEmpty(override.Tag, firstOrEmpty(mappedTags), config.Tag, api.DefaultTag),
			Push:      override.Push,
		})
	}

	return specs
}

// joinImageName appends the service name to the global image name prefix, unless the prefix
// already ends in the service name; that prevents doubling up like myapp/api/api
func joinImageName(prefix, serviceName string) string {

	prefix = strings.TrimRight(prefix, "/")

	if prefix == "" {
		return serviceName
	}
	if prefix == serviceName || strings.HasSuffix(prefix, "/"+serviceName) {
		return prefix
	}

	return prefix + "/" + serviceName
}

func firstOrEmpty(values []string) string {
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
