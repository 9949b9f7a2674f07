package main

import (
	"fmt"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"

	"github.com/numen06/app2docker-engine/api"
)

func renderPlans(plans []api.BuildPlan) {

	data := make([][]string, 0)

	buildTotal := 0
	skipTotal := 0

	for _, p := range plans {

		if !p.ShouldBuild {
			skipTotal++
			data = append(data, []string{p.PipelineName, "skip", "", "", "", "", p.SkipReason})
			continue
		}

		buildTotal++
		for _, s := range p.Services {
			data = append(data, []string{
				p.PipelineName,
				"build",
				p.ResolvedBranch,
				s.Name,
				s.ImageName + ":" + s.Tag,
				boolToYesNo(s.Push),
				"",
			})
		}
	}

	fmt.Println("")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Pipeline", "Decision", "Branch", "Service", "Image", "Push", "Reason"})
	table.SetFooter([]string{"", "Total", "", "", "", fmt.Sprintf("%v build", buildTotal), fmt.Sprintf("%v skip", skipTotal)})
	table.SetBorder(false)
	table.AppendBulk(data)
	table.Render()
	fmt.Println("")
}

func renderSummary(plans []api.BuildPlan) {

	for _, p := range plans {
		if p.ShouldBuild {
			fmt.Printf("%v %v on branch %v\n", aurora.Green("build"), p.PipelineName, p.ResolvedBranch)
		} else {
			fmt.Printf("%v %v: %v\n", aurora.Red("skip"), p.PipelineName, p.SkipReason)
		}
	}
}

func boolToYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
