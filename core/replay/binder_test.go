package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTargetInstances(t *testing.T) {
	tests := []struct {
		name      string
		instances []ServiceInstance
		want      []ServiceInstance
	}{
		{
			name:      "Empty",
			instances: nil,
			want:      []ServiceInstance{},
		},
		{
			name: "SingleInstancePerIP",
			instances: []ServiceInstance{
				{IP: "10.0.0.1", Protocol: "grpc"},
				{IP: "10.0.0.2", Protocol: "http"},
			},
			want: []ServiceInstance{
				{IP: "10.0.0.1", Protocol: "grpc"},
				{IP: "10.0.0.2", Protocol: "http"},
			},
		},
		{
			name: "DuplicateIPKeepsHTTP",
			instances: []ServiceInstance{
				{IP: "10.0.0.1", Port: 9090, Protocol: "dubbo"},
				{IP: "10.0.0.1", Port: 8080, Protocol: "HTTP"},
			},
			want: []ServiceInstance{
				{IP: "10.0.0.1", Port: 8080, Protocol: "HTTP"},
			},
		},
		{
			name: "DuplicateIPWithoutHTTPIsDropped",
			instances: []ServiceInstance{
				{IP: "10.0.0.1", Protocol: "dubbo"},
				{IP: "10.0.0.1", Protocol: "grpc"},
				{IP: "10.0.0.2", Protocol: "grpc"},
			},
			want: []ServiceInstance{
				{IP: "10.0.0.2", Protocol: "grpc"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterTargetInstances(tt.instances))
		})
	}
}

func TestFilterTargetInstances_Idempotent(t *testing.T) {
	instances := []ServiceInstance{
		{IP: "10.0.0.1", Protocol: "dubbo"},
		{IP: "10.0.0.1", Protocol: "http"},
		{IP: "10.0.0.2", Protocol: "grpc"},
		{IP: "10.0.0.3", Protocol: "http"},
		{IP: "10.0.0.3", Protocol: "https"},
	}

	once := FilterTargetInstances(instances)
	twice := FilterTargetInstances(once)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 3)
}

func TestBindParents(t *testing.T) {
	plan := &Plan{ID: "plan-1"}
	action := &ActionItem{
		ID:         "action-1",
		PlanID:     "plan-1",
		ActionType: "Servlet",
		TargetInstances: []ServiceInstance{
			{IP: "10.0.0.1", Protocol: "dubbo"},
			{IP: "10.0.0.1", Protocol: "http"},
		},
	}
	cases := []*ActionCaseItem{{ID: "case-1"}, {ID: "case-2"}}

	BindActionParent([]*ActionItem{action}, plan)
	BindCaseParent(cases, action)

	assert.Same(t, plan, action.Parent)
	require.Len(t, action.TargetInstances, 1)
	assert.Equal(t, "http", action.TargetInstances[0].Protocol)
	for _, c := range cases {
		assert.Same(t, action, c.Parent)
		assert.Equal(t, "Servlet", c.CaseType)
		assert.Equal(t, "plan-1", c.PlanID())
	}
}

func TestBindCaseParent_NoCasesLeavesInstances(t *testing.T) {
	action := &ActionItem{
		TargetInstances: []ServiceInstance{
			{IP: "10.0.0.1", Protocol: "dubbo"},
			{IP: "10.0.0.1", Protocol: "grpc"},
		},
	}
	BindCaseParent(nil, action)
	assert.Len(t, action.TargetInstances, 2)
}

func TestComparisonConfig_Ignore(t *testing.T) {
	cfg := &ComparisonConfig{
		IgnoreCategories: []string{CategoryDatabase},
		IgnoreKeys:       []string{"/health"},
	}
	assert.True(t, cfg.IgnoreCategory(CategoryDatabase))
	assert.False(t, cfg.IgnoreCategory(CategoryServlet))
	assert.True(t, cfg.IgnoreKey("/health"))
	assert.False(t, cfg.IgnoreKey("/orders"))
}
