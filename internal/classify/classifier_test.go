package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zynxdata/flowmerge/pkg/models"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "review keywords",
			text:     "automated pull request review and merge gate",
			expected: "PR Management",
		},
		{
			name:     "deployment keywords",
			text:     "docker build then deploy the release",
			expected: "Deployment",
		},
		{
			name:     "testing keywords",
			text:     "validate and verify with assert statements",
			expected: "Testing",
		},
		{
			name:     "security keywords",
			text:     "vulnerability scan plus compliance audit",
			expected: "Security",
		},
		{
			name:     "dependency keywords",
			text:     "npm install then yarn update lockfiles",
			expected: "Dependency Management",
		},
		{
			name:     "no keyword hits",
			text:     "weekly calendar sync",
			expected: DefaultLabel,
		},
		{
			name:     "empty text",
			text:     "",
			expected: DefaultLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.text))
		})
	}
}

func TestText_TieBreaksByTableOrder(t *testing.T) {
	// One hit for PR Management ("merge") and one for Deployment ("deploy");
	// the earlier table entry wins.
	assert.Equal(t, "PR Management", Text("merge then deploy"))
}

func TestText_KeywordCountsOnce(t *testing.T) {
	// Three distinct testing keywords beat one review keyword repeated.
	assert.Equal(t, "Testing", Text("review: test test validate check"))
}

func TestCluster(t *testing.T) {
	c := &models.Cluster{
		ID: "cluster_0",
		Members: []*models.Workflow{
			{Name: "PR Review", Actions: []string{"run: npm test"}},
			{Name: "Code Review Bot", Description: "reviews pull requests before merge"},
		},
	}

	assert.Equal(t, "PR Management", Cluster(c))
}

func TestCluster_EnrichmentContextParticipates(t *testing.T) {
	c := &models.Cluster{
		ID: "cluster_1",
		Members: []*models.Workflow{
			{Name: "Nightly Job", MemoryContext: "vulnerability scan audit trail, security posture"},
		},
	}

	assert.Equal(t, "Security", Cluster(c))
}
