package tag

import (
	"context"
	"strings"

	"github.com/numen06/app2docker-engine/api"
	"github.com/rs/zerolog/log"
)

// Service resolves the docker image tags for a branch from the ordered branch-tag mapping of a pipeline
//go:generate mockgen -package=tag -destination ./mock.go -source=service.go
type Service interface {
	ResolveTags(ctx context.Context, mapping []api.BranchTagMapping, branch string) []string
}

// NewService returns a new tag.Service
func NewService(ctx context.Context) (Service, error) {
	return &service{}, nil
}

type service struct {
}

// ResolveTags returns the tags of the first mapping entry whose pattern matches the branch; first
// match wins, so more specific patterns listed before catch-alls take precedence. Tag values are
// comma-split, trimmed and cleared of empty segments. Placeholder tokens like ${DATE} or
// ${TIMESTAMP} pass through verbatim; expanding them is up to the templating run at build time.
func (s *service) ResolveTags(ctx context.Context, mapping []api.BranchTagMapping, branch string) []string {

	for _, m := range mapping {
		if !MatchesBranchPattern(m.BranchPattern, branch) {
			continue
		}

		tags := make([]string, 0, len(m.Tags.Values))
		for _, rawTag := range m.Tags.Values {
			for _, segment := range strings.Split(rawTag, ",") {
				segment = strings.TrimSpace(segment)
				if segment != "" {
					tags = append(tags, segment)
				}
			}
		}

		log.Debug().Msgf("Branch %v matched pattern %v, resolving to tags %v", branch, m.BranchPattern, tags)

		return tags
	}

	return nil
}

// MatchesBranchPattern matches a branch against a pattern that is literal except for a single
// trailing *, which matches any suffix including the empty one. No other glob metacharacters are
// interpreted. Matching is case-sensitive and never matches an empty branch.
func MatchesBranchPattern(pattern, branch string) bool {

	if branch == "" {
		return false
	}

	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(branch, strings.TrimSuffix(pattern, "*"))
	}

	return pattern == branch
}
