package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zynxdata/flowmerge/pkg/models"
)

func TestTerms(t *testing.T) {
	terms := Terms("Deploy the production release")

	assert.Contains(t, terms, "deploy")
	assert.Contains(t, terms, "production")
	assert.Contains(t, terms, "release")
	assert.Contains(t, terms, "deploy production")
	assert.Contains(t, terms, "production release")

	// Stop words are excluded from unigrams and never bridge bigrams.
	assert.NotContains(t, terms, "the")
	assert.NotContains(t, terms, "the production")
	assert.NotContains(t, terms, "deploy the")
}

func TestTerms_ShortTokensDropped(t *testing.T) {
	terms := Terms("x ci pipeline")

	assert.NotContains(t, terms, "x")
	assert.Contains(t, terms, "ci")
	assert.Contains(t, terms, "ci pipeline")
}

func TestActionContent(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		expected string
	}{
		{"run directive stripped", "run: npm test", "npm test"},
		{"uses directive stripped", "uses: actions/checkout@v4", "actions/checkout@v4"},
		{"run as a command word kept", "run: npm run lint", "npm run lint"},
		{"no directive untouched", "notify the release channel", "notify the release channel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, actionContent(tt.action))
		})
	}
}

func TestVectorize_DirectiveMarkersAreNotTerms(t *testing.T) {
	review := &models.Workflow{
		ID:      "review.yml",
		Name:    "PR Review",
		Actions: []string{"run: npm test", "run: npm run lint"},
	}
	deploy := &models.Workflow{
		ID:      "deploy.yml",
		Name:    "Deploy Production",
		Actions: []string{"run: docker build"},
	}
	workflows := []*models.Workflow{review, deploy}

	vocab := BuildVocabulary(workflows, Options{})
	deployVec := Vectorize(deploy, vocab, Options{})

	// The marker must never become a shared term between workflows whose only
	// commonality is using run directives.
	assert.NotContains(t, deployVec, "run")
	reviewVec := Vectorize(review, vocab, Options{})
	assert.Contains(t, reviewVec, "npm", "command text survives marker stripping")
}

func TestBuildVocabulary_DocumentFrequencies(t *testing.T) {
	workflows := []*models.Workflow{
		{ID: "a", Name: "Deploy Service", Actions: []string{"run: make deploy"}},
		{ID: "b", Name: "Deploy Docs"},
		{ID: "c", Name: "Review Bot"},
	}

	vocab := BuildVocabulary(workflows, Options{})

	require.NotZero(t, vocab.Len())
	assert.True(t, vocab.Contains("deploy"))
	assert.True(t, vocab.Contains("review"))
	assert.Equal(t, 3, vocab.numDocs)
	assert.Equal(t, 2, vocab.docFreq["deploy"])
	assert.Equal(t, 1, vocab.docFreq["review"])
}

func TestBuildVocabulary_CapSelectsMostFrequent(t *testing.T) {
	workflows := []*models.Workflow{
		{ID: "a", Name: "deploy deploy deploy rare1"},
		{ID: "b", Name: "deploy deploy rare2"},
	}

	vocab := BuildVocabulary(workflows, Options{MaxTerms: 1})

	assert.Equal(t, 1, vocab.Len())
	assert.True(t, vocab.Contains("deploy"))
	assert.False(t, vocab.Contains("rare1"))
}

func TestBuildVocabulary_Empty(t *testing.T) {
	vocab := BuildVocabulary(nil, Options{})

	assert.Zero(t, vocab.Len())
	assert.Empty(t, Vectorize(&models.Workflow{Name: "anything"}, vocab, Options{}))
}

func TestVectorize_RareTermsWeighMore(t *testing.T) {
	workflows := []*models.Workflow{
		{ID: "a", Name: "deploy audit"},
		{ID: "b", Name: "deploy build"},
		{ID: "c", Name: "deploy publish"},
	}

	vocab := BuildVocabulary(workflows, Options{})
	vec := Vectorize(workflows[0], vocab, Options{})

	// "audit" appears in one document, "deploy" in all three; with equal term
	// frequency the rarer term must carry the higher weight.
	require.Contains(t, vec, "audit")
	require.Contains(t, vec, "deploy")
	assert.Greater(t, vec["audit"], vec["deploy"])
}

func TestVectorize_EnrichmentContext(t *testing.T) {
	w := &models.Workflow{
		ID:            "a",
		Name:          "Validation",
		MemoryContext: "frustrated about flaky deploys",
	}
	workflows := []*models.Workflow{w, {ID: "b", Name: "frustrated deploys"}}

	opts := Options{IncludeEnrichment: true}
	vocab := BuildVocabulary(workflows, opts)
	vec := Vectorize(w, vocab, opts)

	assert.Contains(t, vec, "frustrated")

	plain := Vectorize(w, BuildVocabulary(workflows, Options{}), Options{})
	assert.NotContains(t, plain, "frustrated")
}

func TestExtractAll_OneVectorPerWorkflow(t *testing.T) {
	workflows := []*models.Workflow{
		{ID: "a", Name: "Deploy"},
		{ID: "b", Name: "Review"},
		{ID: "c"},
	}

	vectors := ExtractAll(workflows, Options{})

	require.Len(t, vectors, 3)
	assert.NotEmpty(t, vectors[0])
	assert.NotEmpty(t, vectors[1])
	assert.Empty(t, vectors[2], "workflow with no text yields the zero vector")
}
