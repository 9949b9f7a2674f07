package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin"
	foundation "github.com/estafette/estafette-foundation"
	"github.com/rs/zerolog/log"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"golang.org/x/sync/errgroup"

	"github.com/numen06/app2docker-engine/api"
	"github.com/numen06/app2docker-engine/clients/cache"
	"github.com/numen06/app2docker-engine/clients/dockerfile"
	"github.com/numen06/app2docker-engine/clients/registry"
	"github.com/numen06/app2docker-engine/services/image"
	"github.com/numen06/app2docker-engine/services/plan"
	"github.com/numen06/app2docker-engine/services/tag"
	"github.com/numen06/app2docker-engine/services/trigger"
	"github.com/numen06/app2docker-engine/services/validation"
)

var (
	appgroup  string
	app       string
	version   string
	branch    string
	revision  string
	buildDate string
)

var (
	pipelinePaths  = kingpin.Flag("pipeline", "Path to a pipeline definition file; repeat for multiple pipelines.").Envar("APP2DOCKER_PIPELINE").Required().Strings()
	triggerSource  = kingpin.Flag("trigger", "Source of the trigger event: webhook, manual or cron.").Default("manual").Envar("APP2DOCKER_TRIGGER").String()
	pushedBranch   = kingpin.Flag("pushed-branch", "Branch carried by the webhook push event.").Envar("APP2DOCKER_PUSHED_BRANCH").String()
	manualBranch   = kingpin.Flag("branch", "Operator-chosen branch override for manual triggers.").Envar("APP2DOCKER_BRANCH").String()
	dockerfilePath = kingpin.Flag("dockerfile", "Dockerfile to scan for service stages when a definition has no selectedServices.").Envar("APP2DOCKER_DOCKERFILE").String()
	outputFormat   = kingpin.Flag("output", "Output format for the resolved build plans: table or json.").Default("table").Envar("APP2DOCKER_OUTPUT").String()
	apiBaseURL     = kingpin.Flag("api-base-url", "Base url of the console api, used to verify pipeline name uniqueness.").Envar("APP2DOCKER_API_BASE_URL").String()
	apiToken       = kingpin.Flag("api-token", "Bearer token for the console api.").Envar("APP2DOCKER_API_TOKEN").String()
	validateOnly   = kingpin.Flag("validate-only", "Only validate the pipeline definitions, do not resolve build plans.").Bool()
)

func main() {

	// parse command line parameters
	kingpin.Parse()

	applicationInfo := foundation.NewApplicationInfo(appgroup, app, version, branch, revision, buildDate)

	// init log format from envvar ESTAFETTE_LOG_FORMAT
	foundation.InitLoggingFromEnv(applicationInfo)

	closer := initJaeger(app)
	defer closer.Close()

	ctx := context.Background()

	// collaborators the engine consumes through well-defined inputs
	var nameTaken validation.NameTakenFunc
	if *apiBaseURL != "" {
		registryClient, err := registry.NewClient(ctx, *apiBaseURL, *apiToken)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed creating registry client")
		}
		nameTaken = registryClient.NameTaken
	}

	cacheClient, err := cache.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating cache client")
	}

	dockerfileClient, err := dockerfile.NewClient(ctx, cacheClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating dockerfile client")
	}

	tagService, err := tag.NewService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating tag service")
	}

	triggerService, err := trigger.NewService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating trigger service")
	}

	imageService, err := image.NewService(ctx, tagService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating image service")
	}

	validationService, err := validation.NewService(ctx, nameTaken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating validation service")
	}

	planService, err := plan.NewService(ctx, triggerService, tagService, imageService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating plan service")
	}

	event := api.TriggerEvent{
		Source:               api.TriggerSource(*triggerSource),
		PushedBranch:         *pushedBranch,
		ManualBranchOverride: *manualBranch,
	}

	// resolution is pure and touches no shared state, so pipelines resolve concurrently
	plans := make([]api.BuildPlan, len(*pipelinePaths))
	g, gctx := errgroup.WithContext(ctx)
	for i, pipelinePath := range *pipelinePaths {
		planIndex := i
		path := pipelinePath

		g.Go(func() error {
			config, err := api.ReadPipelineFromFile(path)
			if err != nil {
				return fmt.Errorf("reading pipeline definition %v failed: %w", path, err)
			}

			if len(config.SelectedServices) == 0 && *dockerfilePath != "" {
				services, err := dockerfileClient.GetServices(gctx, *dockerfilePath)
				if err != nil {
					return fmt.Errorf("scanning %v for service stages failed: %w", *dockerfilePath, err)
				}
				config.SelectedServices = services
			}

			result := validationService.Validate(gctx, config)
			if !result.Valid {
				for _, e := range result.Errors {
					log.Warn().Msgf("Pipeline definition %v is invalid: %v", path, e)
				}
				return fmt.Errorf("pipeline definition %v has %v validation errors", path, len(result.Errors))
			}

			if !*validateOnly {
				plans[planIndex] = planService.Assemble(gctx, &config, &event)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Failed resolving build plans")
	}

	if *validateOnly {
		log.Info().Msgf("Validated %v pipeline definitions successfully", len(*pipelinePaths))
		return
	}

	switch *outputFormat {
	case "json":
		encoded, err := json.MarshalIndent(plans, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed marshalling build plans")
		}
		fmt.Println(string(encoded))
	default:
		renderPlans(plans)
		renderSummary(plans)
	}
}

// initJaeger returns an instance of Jaeger Tracer that can be configured with environment variables
// https://github.com/jaegertracing/jaeger-client-go#environment-variables
func initJaeger(service string) io.Closer {

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger config from environment variables failed")
	}

	closer, err := cfg.InitGlobalTracer(service, jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger tracer failed")
	}

	return closer
}
