package domain

import "fmt"

// feedTemplate maps an activity type to its feed rendering. The sentence
// verbs take the actor name and, where present, a restaurant name from the
// payload. This is a fixed, stateless lookup table.
type feedTemplate struct {
	icon string
	verb string // used as "<actor> <verb>" or "<actor> <verb> <subject>"
}

var feedTemplates = map[ActivityType]feedTemplate{
	ActivityVisited:                {icon: "📍", verb: "visited"},
	ActivityReviewed:               {icon: "✍️", verb: "reviewed"},
	ActivityRated:                  {icon: "⭐", verb: "rated"},
	ActivityFavorited:              {icon: "❤️", verb: "favorited"},
	ActivityConnectionAccepted:     {icon: "🤝", verb: "made a new connection"},
	ActivityRecommendationSent:     {icon: "💌", verb: "recommended"},
	ActivityRecommendationAccepted: {icon: "✅", verb: "accepted a recommendation for"},
	ActivitySessionCreated:         {icon: "🗳️", verb: "started a group decision"},
	ActivitySessionClosed:          {icon: "🏁", verb: "closed a group decision"},
	ActivityVoteCast:               {icon: "🙋", verb: "voted in a group decision"},
}

// FormatActivity renders one activity into a human-readable sentence and
// icon. Unknown types fall back to a generic rendering rather than failing.
func FormatActivity(a *Activity) FeedItem {
	actor := "Someone"
	if a.Actor != nil && a.Actor.Name != "" {
		actor = a.Actor.Name
	}

	tpl, ok := feedTemplates[a.Type]
	if !ok {
		return FeedItem{
			Activity: a,
			Sentence: fmt.Sprintf("%s did something new", actor),
			Icon:     "✨",
		}
	}

	sentence := fmt.Sprintf("%s %s", actor, tpl.verb)
	if name, ok := a.Payload["restaurant_name"].(string); ok && name != "" {
		sentence = fmt.Sprintf("%s %s %s", actor, tpl.verb, name)
	}
	if a.Type == ActivityRated && a.Rating != nil {
		sentence = fmt.Sprintf("%s (%d/10)", sentence, *a.Rating)
	}

	return FeedItem{Activity: a, Sentence: sentence, Icon: tpl.icon}
}
