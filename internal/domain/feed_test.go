package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestFormatActivity(t *testing.T) {
	rating := 8
	actor := &UserProfile{ID: uuid.New(), Name: "Maya"}

	tests := []struct {
		name     string
		activity *Activity
		want     string
	}{
		{
			name: "visited with restaurant name",
			activity: &Activity{
				Type:    ActivityVisited,
				Actor:   actor,
				Payload: Map{"restaurant_name": "Taco Haven"},
			},
			want: "Maya visited Taco Haven",
		},
		{
			name: "rated appends the score",
			activity: &Activity{
				Type:    ActivityRated,
				Actor:   actor,
				Payload: Map{"restaurant_name": "Taco Haven"},
				Rating:  &rating,
			},
			want: "Maya rated Taco Haven (8/10)",
		},
		{
			name: "connection accepted has no subject",
			activity: &Activity{
				Type:  ActivityConnectionAccepted,
				Actor: actor,
			},
			want: "Maya made a new connection",
		},
		{
			name: "missing actor falls back to Someone",
			activity: &Activity{
				Type:    ActivityFavorited,
				Payload: Map{"restaurant_name": "Pho Corner"},
			},
			want: "Someone favorited Pho Corner",
		},
		{
			name: "unknown type gets generic sentence",
			activity: &Activity{
				Type:  ActivityType("mystery"),
				Actor: actor,
			},
			want: "Maya did something new",
		},
		{
			name: "non-string restaurant name is ignored",
			activity: &Activity{
				Type:    ActivityReviewed,
				Actor:   actor,
				Payload: Map{"restaurant_name": 42},
			},
			want: "Maya reviewed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := FormatActivity(tt.activity)
			if item.Sentence != tt.want {
				t.Errorf("sentence = %q, want %q", item.Sentence, tt.want)
			}
			if item.Icon == "" {
				t.Error("icon must never be empty")
			}
			if item.Activity != tt.activity {
				t.Error("feed item should wrap the original activity")
			}
		})
	}
}
