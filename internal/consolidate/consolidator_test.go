package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/zynxdata/flowmerge/pkg/models"
)

type ConsolidateSuite struct {
	suite.Suite
	cluster *models.Cluster
}

func TestConsolidateSuite(t *testing.T) {
	suite.Run(t, new(ConsolidateSuite))
}

func (s *ConsolidateSuite) SetupTest() {
	s.cluster = &models.Cluster{
		ID:    "cluster_0",
		Label: "PR Management",
		Members: []*models.Workflow{
			{
				ID:       "pr-review.yml",
				Name:     "PR Review",
				Triggers: []string{"pull_request"},
				Actions:  []string{"run: npm test", "run: npm run lint"},
			},
			{
				ID:                "review-bot.yml",
				Name:              "Code Review Bot",
				Triggers:          []string{"pull_request", "schedule"},
				Actions:           []string{"uses: actions/checkout@v3"},
				Emotion:           "focused",
				ClassificationTag: "pr-review",
				MemoryRef:         "mem_1",
				PromptRef:         "prompt_1",
				ReasoningScore:    8.0,
			},
		},
	}
}

func (s *ConsolidateSuite) TestMergedTriggersUnionWithBranchScopes() {
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	s.Len(cw.Triggers, 2)
	s.Equal([]string{"main", "develop"}, cw.Triggers["pull_request"].Branches)
	s.Empty(cw.Triggers["schedule"].Branches)
}

func (s *ConsolidateSuite) TestMergedTriggersContainEveryMemberTrigger() {
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	for _, member := range s.cluster.Members {
		for _, trigger := range member.Triggers {
			s.Contains(cw.Triggers, trigger)
		}
	}
}

func (s *ConsolidateSuite) TestOneJobPerMember() {
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	s.Require().Len(cw.Jobs, 2)
	s.Equal("pr_review_0", cw.Jobs[0].Name)
	s.Equal("code_review_bot_1", cw.Jobs[1].Name)
	s.Equal("ubuntu-latest", cw.Jobs[0].RunsOn)
}

func (s *ConsolidateSuite) TestDuplicateMemberNamesYieldUniqueJobs() {
	s.cluster.Members[1].Name = "PR Review"
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	s.Equal("pr_review_0", cw.Jobs[0].Name)
	s.Equal("pr_review_1", cw.Jobs[1].Name)
}

func (s *ConsolidateSuite) TestRunDirectiveExtraction() {
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	steps := cw.Jobs[0].Steps
	s.Require().Len(steps, 2)
	s.Equal("npm test", steps[0].Run)
	s.Equal("Run: npm test", steps[0].Name)
	s.Equal("npm run lint", steps[1].Run)
}

func (s *ConsolidateSuite) TestNonRunActionsWrappedVerbatim() {
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	steps := cw.Jobs[1].Steps
	s.Require().Len(steps, 1)
	s.Equal("uses: actions/checkout@v3", steps[0].Run)
	s.Equal("Action: uses: actions/checkout@v3", steps[0].Name)
}

func (s *ConsolidateSuite) TestMergedEnvFlags() {
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	s.Equal("true", cw.Env["PR_REVIEW_ENABLED"])
	s.Equal("true", cw.Env["CODE_REVIEW_BOT_ENABLED"])
	s.Equal("focused", cw.Env["CODE_REVIEW_BOT_EMOTION"])
	s.Equal("8", cw.Env["CODE_REVIEW_BOT_REASONING_SCORE"])
	s.NotContains(cw.Env, "PR_REVIEW_EMOTION")
}

func (s *ConsolidateSuite) TestContextSummaries() {
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	s.Equal([]string{"focused"}, cw.MemoryContext.Emotions)
	s.Equal([]string{"pr-review"}, cw.MemoryContext.Tags)
	s.Equal([]string{"mem_1"}, cw.MemoryContext.MemoryIDs)
	s.Equal([]string{"prompt_1"}, cw.PromptContext.PromptIDs)
	s.Equal([]float64{8.0}, cw.PromptContext.ReasoningScores)
	s.InDelta(8.0, cw.PromptContext.AverageReasoningScore, 1e-9)
}

func (s *ConsolidateSuite) TestAverageReasoningScore() {
	s.cluster.Members[0].ReasoningScore = 4.0
	cw := Cluster(s.cluster)
	s.Require().NotNil(cw)

	s.InDelta(6.0, cw.PromptContext.AverageReasoningScore, 1e-9)
}

func (s *ConsolidateSuite) TestSingletonClusterNotConsolidated() {
	singleton := &models.Cluster{
		ID:      "cluster_1",
		Label:   "Deployment",
		Members: s.cluster.Members[:1],
	}

	s.Nil(Cluster(singleton))
	s.Nil(Cluster(nil))
}

func TestRenderYAML(t *testing.T) {
	cluster := &models.Cluster{
		ID:    "cluster_0",
		Label: "Deployment",
		Members: []*models.Workflow{
			{ID: "a", Name: "Deploy Prod", Triggers: []string{"push"}, Actions: []string{"run: make deploy"}},
			{ID: "b", Name: "Deploy Staging", Triggers: []string{"push"}},
		},
	}
	cw := Cluster(cluster)

	data, err := RenderYAML(cw)
	assert.NoError(t, err)

	var doc map[string]interface{}
	assert.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "Deployment Master Workflow", doc["name"])

	on, ok := doc["on"].(map[string]interface{})
	assert.True(t, ok)
	assert.Contains(t, on, "push")

	jobs, ok := doc["jobs"].(map[string]interface{})
	assert.True(t, ok)
	assert.Contains(t, jobs, "deploy_prod_0")
	assert.Contains(t, jobs, "deploy_staging_1")
}

func TestTruncate(t *testing.T) {
	long := "run something with a command line well over the fifty character limit"
	step := stepsFromActions([]string{"run: " + long})[0]

	assert.Equal(t, long, step.Run)
	assert.Equal(t, "Run: "+long[:50]+"...", step.Name)
}
