package mood

import (
	"math"
	"strings"
)

// Label tags the dominant mood of a chat turn.
type Label string

const (
	Neutral  Label = "neutral"
	Grieving Label = "grieving"
	Angry    Label = "angry"
	Anxious  Label = "anxious"
	Lonely   Label = "lonely"
	Hopeful  Label = "hopeful"
)

// Decision is the scored analysis result. Scale runs 1..5 and hints at how
// strongly the mood should colour the reply rendering.
type Decision struct {
	Mood  Label
	Scale float32
	Score int
}

var keywordBuckets = map[Label][]string{
	Grieving: {
		"heartbroken", "devastated", "crying", "cried", "miss her", "miss him",
		"miss them", "can't stop thinking", "lost", "grief", "mourning", "tears",
		"broke up with me", "dumped", "it's over", "shattered", "empty inside",
	},
	Angry: {
		"angry", "furious", "rage", "hate", "cheated", "lied to me", "betrayed",
		"unfair", "ghosted", "blocked me", "how dare", "pissed", "resent",
	},
	Anxious: {
		"anxious", "worried", "panic", "can't sleep", "overthinking", "what if",
		"scared", "afraid", "nervous", "spiraling", "obsessing", "checking their",
	},
	Lonely: {
		"alone", "lonely", "no one", "nobody", "isolated", "by myself",
		"empty apartment", "quiet house", "no friends", "abandoned",
	},
	Hopeful: {
		"better", "moving on", "progress", "healing", "new hobby", "gym",
		"thank you", "thanks", "helped", "optimistic", "ready", "fresh start",
		"feel good", "feeling good", "improving",
	},
}

var punctuationBoost = map[Label]int{
	Angry:   3,
	Hopeful: 2,
}

// Analyze infers the mood a reply should acknowledge, from the user's words
// first and the therapist's reply as a tiebreaker.
func Analyze(userUtterance, replyUtterance string) Decision {
	userScore := scoreText(userUtterance)
	replyScore := scoreText(replyUtterance)

	final := userScore
	if final.Score == 0 && replyScore.Score > 0 {
		final = replyScore
	}

	if final.Score == 0 {
		return Decision{Mood: Neutral, Scale: 2, Score: 0}
	}

	scale := 1 + float32(final.Score)/4
	if final.Mood == Angry {
		scale += 0.5
	}
	if final.Mood == Hopeful {
		scale = float32(math.Min(3.5, float64(scale)))
	}

	if scale < 1 {
		scale = 1
	}
	if scale > 5 {
		scale = 5
	}

	return Decision{Mood: final.Mood, Scale: scale, Score: final.Score}
}

func scoreText(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{Mood: Neutral}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label] += 3
			}
		}
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 0 {
		scores[Angry] += exclamations * punctuationBoost[Angry]
		scores[Hopeful] += punctuationBoost[Hopeful]
	}

	bestLabel := Neutral
	bestScore := 0
	for label, s := range scores {
		if s > bestScore {
			bestScore = s
			bestLabel = label
		}
	}

	if bestScore == 0 {
		return Decision{Mood: Neutral}
	}

	return Decision{Mood: bestLabel, Score: bestScore}
}
