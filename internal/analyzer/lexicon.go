package analyzer

// Keyword lexicons for the lexical scorers. Phrases are matched against the
// case-folded turn text with substring containment, longest lists first is
// not required; every hit counts once.

// #region sentiment-lexicons

var sentimentLexicons = map[Sentiment][]string{
	SentimentJoyful: {
		"happy", "glad", "grateful", "wonderful", "amazing", "love this",
		"so good", "proud of", "delighted", "great news",
	},
	SentimentExcited: {
		"excited", "thrilled", "can't wait", "cant wait", "pumped",
		"so ready", "let's go", "lets go", "finally happening",
	},
	SentimentCalm: {
		"calm", "peaceful", "settled", "relieved", "at ease", "resolved",
		"better now", "okay now", "clearer now", "i can breathe",
	},
	SentimentStressed: {
		"stressed", "under pressure", "deadline", "anxious", "worried",
		"nervous", "on edge", "so much to do", "running out of time",
	},
	SentimentOverwhelmed: {
		"overwhelmed", "drowning", "too much", "can't keep up",
		"cant keep up", "exhausted", "burned out", "burnt out",
		"falling apart", "at my limit",
	},
	SentimentConfused: {
		"confused", "don't understand", "dont understand", "not sure",
		"unclear", "torn between", "stuck between", "what do i do",
		"no idea what", "lost on",
	},
	SentimentSad: {
		"sad", "feeling down", "lonely", "i miss", "grief", "grieving",
		"heartbroken", "crying", "hurts so much", "aching",
	},
	SentimentDespairing: {
		"hopeless", "no way out", "can't go on", "cant go on",
		"no point anymore", "want to disappear", "can't do this anymore",
		"cant do this anymore", "give up on everything", "nothing matters anymore",
	},
}

// sentimentOrder fixes iteration order for determinism. Despairing is
// checked first so an acute-distress cue is never shadowed by a milder one.
var sentimentOrder = []Sentiment{
	SentimentDespairing, SentimentOverwhelmed, SentimentStressed,
	SentimentSad, SentimentConfused, SentimentExcited, SentimentJoyful,
	SentimentCalm,
}

// #endregion

// #region theme-lexicons

var themeLexicons = map[Theme][]string{
	ThemeDecision: {
		"should i", "decide", "decision", "choice", "choose", "options",
		"whether to", "which one", "weighing", "crossroads",
	},
	ThemeEmotional: {
		"i feel", "i'm feeling", "im feeling", "felt", "my feelings",
		"process this", "sit with", "my heart", "emotionally", "grief",
		"anger", "resentment",
	},
	ThemeCreative: {
		"create", "creative", "idea for", "imagine", "write a", "project",
		"design", "brainstorm", "compose", "make something",
	},
	ThemePractical: {
		"plan", "schedule", "steps", "organize", "budget", "logistics",
		"checklist", "to-do", "how do i get", "set up",
	},
	ThemePhilosophical: {
		"meaning", "purpose", "why are we", "existence", "soul",
		"spiritual", "universe", "bigger picture", "sacred", "what it all",
	},
}

var themeOrder = []Theme{
	ThemeEmotional, ThemeDecision, ThemeCreative, ThemePractical,
	ThemePhilosophical,
}

// #endregion

// #region energy-lexicons

var highEnergyWords = []string{
	"now", "urgent", "immediately", "right away", "hurry", "asap",
	"so much", "really really", "totally", "absolutely", "insane",
}

var lowEnergyWords = []string{
	"tired", "drained", "slow", "quiet", "weary", "heavy", "numb",
	"sleepy", "worn out", "barely",
}

// #endregion

// #region element-lexicons

// Element vocabularies follow the five oracle archetypes: fire is catalytic
// intensity, water emotional depth, earth grounded practicality, air mental
// clarity, aether integration.
var elementLexicons = map[Element][]string{
	ElementFire: {
		"stuck", "ignite", "burn", "passion", "transform", "drive",
		"bold", "urgent", "furious", "intense", "breakthrough", "fired up",
		"change everything", "can't wait", "cant wait", "now",
	},
	ElementWater: {
		"feel", "feeling", "flow", "tears", "grief", "heart", "miss",
		"tender", "wave", "deep down", "longing", "soothe", "soften",
		"hurt", "lonely",
	},
	ElementEarth: {
		"ground", "grounded", "practical", "steady", "plan", "build",
		"routine", "stable", "step by step", "solid", "body", "home",
		"budget", "schedule",
	},
	ElementAir: {
		"think", "thinking", "idea", "clarity", "perspective",
		"understand", "curious", "question", "figure out", "makes sense",
		"see it differently", "wonder why", "confused",
	},
	ElementAether: {
		"whole", "connected", "meaning", "sacred", "mystery", "spirit",
		"paradox", "both at once", "integration", "presence", "stillness",
		"everything at once", "bigger picture",
	},
}

// #endregion

// #region count-hits

// countHits returns how many lexicon phrases occur in the turn.
func countHits(f features, lexicon []string) int {
	hits := 0
	for _, phrase := range lexicon {
		if containsPhrase(f, phrase) {
			hits++
		}
	}
	return hits
}

// #endregion
