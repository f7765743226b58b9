package main

import (
	"context"

	"github.com/tathmini/tathmini/core/criteria"
)

// demoCriteria is the default rubric installed on a fresh deployment.
var demoCriteria = []criteria.NewCriterion{
	{
		Name:        "Originality of the idea",
		Description: "Novelty and creativity of the proposed solution",
		MaxScore:    10,
		Weight:      0.25,
	},
	{
		Name:        "Depth of topic research",
		Description: "Thoroughness and completeness of the research",
		MaxScore:    10,
		Weight:      0.25,
	},
	{
		Name:        "Presentation quality",
		Description: "Structure and clarity of the material",
		MaxScore:    10,
		Weight:      0.2,
	},
	{
		Name:        "Technical execution",
		Description: "Quality of the technical implementation",
		MaxScore:    10,
		Weight:      0.2,
	},
	{
		Name:        "Practical relevance",
		Description: "Applicability of the results in practice",
		MaxScore:    10,
		Weight:      0.1,
	},
}

// seedCriteria installs the demo rubric. It is a no-op when any criterion
// already exists so re-runs never duplicate the rubric.
func (cli *commandLine) seedCriteria() error {
	ctx := context.Background()

	existing, err := cli.critSvc.QueryAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Printf("criteria already present (%d); nothing to do", len(existing))
		return nil
	}

	for _, nc := range demoCriteria {
		if _, err := cli.critSvc.Create(ctx, nc); err != nil {
			return err
		}
	}
	logger.Printf("seeded %d criteria", len(demoCriteria))
	return nil
}
