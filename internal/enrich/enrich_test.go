package enrich

import (
	"reflect"
	"testing"

	"github.com/saidulalimallick04/smart-to-do-api/internal/domain"
)

func TestEnhance_Priority(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        domain.Priority
	}{
		{name: "no keywords", title: "Water the plants", want: domain.PriorityMedium},
		{name: "urgent in title", title: "Urgent: renew passport", want: domain.PriorityHigh},
		{name: "deadline in description", title: "Quarterly report", description: "deadline is Friday", want: domain.PriorityHigh},
		{name: "asap uppercase", title: "Reply ASAP", want: domain.PriorityHigh},
		{name: "whenever lowers", title: "Sort photos whenever", want: domain.PriorityLow},
		{name: "maybe lowers", title: "Maybe repaint the fence", want: domain.PriorityLow},
		{name: "high beats low", title: "urgent but maybe later", want: domain.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Enhance(tt.title, tt.description, nil)
			if got != tt.want {
				t.Errorf("Enhance() priority = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnhance_Tags(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		currentTags []string
		want        []string
	}{
		{name: "no keywords", title: "Water the plants", want: []string{}},
		{name: "shopping", title: "Buy new shoes", want: []string{"shopping"}},
		{name: "work", title: "Debug the login flow", want: []string{"work"}},
		{name: "health", title: "Morning gym session", want: []string{"health"}},
		{name: "communication", title: "Call the landlord", want: []string{"communication"}},
		{
			name:  "multiple categories",
			title: "Email the vendor and purchase licenses",
			want:  []string{"communication", "shopping"},
		},
		{
			name:        "merges with user tags",
			title:       "Buy groceries",
			currentTags: []string{"errand"},
			want:        []string{"errand", "shopping"},
		},
		{
			name:        "no duplicates",
			title:       "Buy groceries",
			currentTags: []string{"shopping"},
			want:        []string{"shopping"},
		},
		{
			name:        "user tags kept without keywords",
			title:       "Water the plants",
			currentTags: []string{"home"},
			want:        []string{"home"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := Enhance(tt.title, tt.description, tt.currentTags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Enhance() tags = %v, want %v", got, tt.want)
			}
		})
	}
}
