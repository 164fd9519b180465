package classifier

// Fixed vocabulary driving the deterministic scorer. Order matters for the
// content-type groups: the first matching group wins.

var positiveWords = []string{
	"amazing", "awesome", "great", "love", "beautiful", "happy",
	"wonderful", "excellent", "best", "incredible", "inspiring",
	"fantastic", "good", "win", "celebrate", "success",
}

var negativeWords = []string{
	"terrible", "awful", "hate", "horrible", "sad", "angry",
	"worst", "disgusting", "tragic", "scary", "disaster",
	"bad", "fail", "crisis", "death", "fear",
}

type keywordGroup struct {
	name  string
	terms []string
}

// contentGroups are tried in enumeration order; first match wins.
var contentGroups = []keywordGroup{
	{"news", []string{"breaking", "news", "report", "headline", "politics", "election", "economy", "announced"}},
	{"entertainment", []string{"funny", "meme", "celebrity", "movie", "music", "game", "show", "trailer", "episode"}},
	{"educational", []string{"learn", "tutorial", "how to", "course", "explain", "guide", "science", "history", "lesson"}},
	{"promotional", []string{"sale", "discount", "buy now", "offer", "deal", "sponsored", "promo", "limited time", "shop"}},
	{"personal", []string{"my life", "vlog", "diary", "journey", "family", "wedding", "birthday", "anniversary"}},
}

// Doom-score keyword tiers. A tier contributes its adjustment once when any
// of its terms appears; tiers are not mutually exclusive.
var (
	highAddictiveTerms = []string{
		"shocking", "outrage", "viral", "drama", "exposed", "scandal",
		"gossip", "you won't believe", "must watch", "can't stop",
		"binge", "addictive", "waste time", "scrolling", "doomscroll",
	}
	mediumEngagementTerms = []string{
		"news", "update", "trending", "popular", "latest", "breaking",
		"live", "just in", "new video",
	}
	lowInterestTerms = []string{
		"boring", "tutorial", "lecture", "documentation", "manual",
		"reference", "study", "whitepaper",
	}
)

// shortFormTypes are the content types that earn the short-form video bonus.
var shortFormTypes = map[string]bool{
	"short": true,
	"reel":  true,
	"clip":  true,
}
