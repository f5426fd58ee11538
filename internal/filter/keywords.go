package filter

// Weights are the per-match and flat bonus points added to the raw score.
type Weights struct {
	EmotionKeywordMatch   int `yaml:"emotion_keyword_match"`
	RoleKeywordMatch      int `yaml:"role_keyword_match"`
	TechnicalKeywordMatch int `yaml:"technical_keyword_match"`
	RemoteAvailable       int `yaml:"remote_available"`
	LocationMatch         int `yaml:"location_match"`
	ResearchBonus         int `yaml:"research_bonus"`
	AdoptionBonus         int `yaml:"adoption_bonus"`
}

// Preferences is the keyword registry consumed by the blocker checker and
// the scorers. It is plain data, loaded from YAML or taken from DefaultPreferences.
type Preferences struct {
	CitizenshipBlockers []string `yaml:"citizenship_blockers"`
	LocationBlockers    []string `yaml:"location_blockers"`
	ExperienceBlockers  []string `yaml:"experience_blockers"`

	EmotionKeywords   []string `yaml:"emotion_keywords"`
	ResearchKeywords  []string `yaml:"research_keywords"`
	AdoptionKeywords  []string `yaml:"adoption_keywords"`
	RoleKeywords      []string `yaml:"role_keywords"`
	TechnicalKeywords []string `yaml:"technical_keywords"`

	RemoteTerms      []string `yaml:"remote_terms"`
	AllowedLocations []string `yaml:"allowed_locations"`

	AdoptionSpecificKeywords []string `yaml:"adoption_specific_keywords"`
	AdoptionCompanyKeywords  []string `yaml:"adoption_company_keywords"`

	Weights         Weights `yaml:"weights"`
	ScoreDivisor    int     `yaml:"score_divisor"`
	MinDisplayScore int     `yaml:"min_display_score"`
	ExplanationMax  int     `yaml:"explanation_max"`
}

const (
	defaultScoreDivisor    = 150
	defaultMinDisplayScore = 10
	defaultExplanationMax  = 700
)

var citizenshipBlockers = []string{
	"us citizen", "us citizenship", "american citizen", "u.s. citizen",
	"must be a us citizen", "requires us citizenship",
	"us work authorization", "work authorization in the us",
	"authorized to work in the us", "requires us authorization",
	"canadian citizen", "canada citizen", "canadian citizenship",
	"must be canadian", "requires canadian citizenship",
	"uk citizen required", "british citizen required",
}

var locationBlockers = []string{
	"on-site only", "onsite only", "no remote", "on site only",
	"relocation required", "must relocate", "willing to relocate",
	"must be willing to relocate", "local only", "on premises",
	"physically present", "in-office required",
}

var experienceBlockers = []string{
	"senior", "lead", "staff", "principal",
	"5+ years", "10+ years", "7+ years", "8+ years",
	"phd required", "doctorate required", "phd mandatory",
	"master's degree required", "m.sc required",
}

var emotionKeywords = []string{
	"emotion", "emotional", "emotions", "affective", "affect", "sentiment",
	"feeling", "feelings", "mood", "moods",
	"facial expression", "face recognition", "facial analysis", "face detection",
	"expression recognition", "micro-expression", "facial coding",
	"speech emotion", "voice emotion", "prosody", "vocal affect",
	"text emotion", "emotion classification", "emotion detection",
	"physiological signals", "biosignal", "eeg emotion", "heart rate variability",
	"computer vision", "cv", "image recognition", "video analysis",
	"natural language processing", "nlp", "text analysis", "sentiment analysis",
	"deep learning", "neural network", "cnn", "rnn", "lstm", "transformer",
	"machine learning", "ml", "pattern recognition",
	"human-computer interaction", "hci", "user experience", "ux research",
	"human-centered ai", "human-ai interaction", "social robotics",
	"mental health", "wellbeing", "psychological", "behavioral analysis",
	"customer experience", "user engagement", "personalization",
	"opencv", "tensorflow", "pytorch", "keras", "scikit-learn",
	"facial landmark", "action unit", "fer", "multimodal",
	"affective computing", "computational psychology", "emotion ai",
	"emotion understanding", "empathetic ai", "emotional intelligence",
	"social signal processing", "behavioral computing",
}

var researchKeywords = []string{
	"research", "research intern", "research assistant",
	"research project", "research collaboration",
	"funded research", "research grant",
	"academic collaboration", "industry partnership",
	"thesis", "master thesis", "student project",
	"open research", "call for proposals",
	"innovation lab", "r&d", "applied research",
	"lab intern", "supervised research", "publication opportunity",
	"peer-reviewed", "academic journal", "conference publication",
}

var adoptionKeywords = []string{
	"adopt", "adoption", "idea adoption",
	"student idea", "student project",
	"prototype", "proof of concept", "poc",
	"innovation challenge", "hackathon winner",
	"incubation", "accelerator",
	"funding available", "stipend", "grant",
	"paid research", "sponsored project",
	"open innovation", "idea proposal",
	"startup", "venture", "startup program",
}

var roleKeywords = []string{
	"intern", "internship", "student", "junior", "entry level",
	"graduate", "trainee", "apprentice", "co-op", "stage",
	"student project", "idea proposal", "innovation challenge",
}

var technicalKeywords = []string{
	"python", "machine learning", "deep learning", "ai", "artificial intelligence",
	"computer vision", "nlp", "data science", "research", "opencv",
	"tensorflow", "pytorch", "backend", "api", "automation",
}

var allowedLocations = []string{
	"remote", "tunisia", "monastir", "sousse", "tunis", "sfax", "emea", "europe",
}

var adoptionSpecificKeywords = []string{
	"startup", "accelerator", "incubator", "venture",
	"innovation lab", "innovation challenge", "hackathon",
	"proof of concept", "poc", "prototype", "beta",
	"student idea", "student project", "project proposal",
	"idea submission", "proposal", "pitch", "competition",
	"funding available", "grant", "grant funding", "budget",
	"sponsored", "stipend", "award", "prize",
	"open innovation", "open source", "community driven",
	"collaborative", "partnership", "ecosystem",
	"program", "fellowship", "scholar", "development program",
	"mentorship", "mentoring", "coaching",
	"flexible", "autonomous", "self-directed", "independent project",
	"work from anywhere", "distributed team",
}

var adoptionCompanyKeywords = []string{
	"devpost", "hackerearth", "ideascale", "challengepost",
	"mlh", "major league hacking",
	"y combinator", "techstars", "plug and play",
	"500 global", "anterra capital",
	"accelerator", "incubator", "startup studio",
	"venture studio", "innovation hub",
	"mit", "stanford", "carnegie mellon", "berkeley",
	"oxford", "cambridge", "eth zurich",
	"alan turing", "deepmind", "openai", "meta ai",
	"google research", "bell labs",
	"nserc", "nsf", "erasmus", "horizon europe",
	"google summer of code", "outreachy",
	"linux foundation", "mozilla", "apache",
}

// DefaultPreferences returns a fresh copy of the built-in registry.
// Weight values and the divisor are calibrated together; change them as a set.
func DefaultPreferences() *Preferences {
	return &Preferences{
		CitizenshipBlockers:      clone(citizenshipBlockers),
		LocationBlockers:         clone(locationBlockers),
		ExperienceBlockers:       clone(experienceBlockers),
		EmotionKeywords:          clone(emotionKeywords),
		ResearchKeywords:         clone(researchKeywords),
		AdoptionKeywords:         clone(adoptionKeywords),
		RoleKeywords:             clone(roleKeywords),
		TechnicalKeywords:        clone(technicalKeywords),
		RemoteTerms:              []string{"remote"},
		AllowedLocations:         clone(allowedLocations),
		AdoptionSpecificKeywords: clone(adoptionSpecificKeywords),
		AdoptionCompanyKeywords:  clone(adoptionCompanyKeywords),
		Weights: Weights{
			EmotionKeywordMatch:   5,
			RoleKeywordMatch:      3,
			TechnicalKeywordMatch: 2,
			RemoteAvailable:       10,
			LocationMatch:         8,
			ResearchBonus:         8,
			AdoptionBonus:         10,
		},
		ScoreDivisor:    defaultScoreDivisor,
		MinDisplayScore: defaultMinDisplayScore,
		ExplanationMax:  defaultExplanationMax,
	}
}

// WithDefaults fills every unset list or number from DefaultPreferences.
// A YAML file therefore only needs to name what it overrides.
func (p *Preferences) WithDefaults() *Preferences {
	d := DefaultPreferences()
	if p == nil {
		return d
	}
	out := *p
	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = src
		}
	}
	fill(&out.CitizenshipBlockers, d.CitizenshipBlockers)
	fill(&out.LocationBlockers, d.LocationBlockers)
	fill(&out.ExperienceBlockers, d.ExperienceBlockers)
	fill(&out.EmotionKeywords, d.EmotionKeywords)
	fill(&out.ResearchKeywords, d.ResearchKeywords)
	fill(&out.AdoptionKeywords, d.AdoptionKeywords)
	fill(&out.RoleKeywords, d.RoleKeywords)
	fill(&out.TechnicalKeywords, d.TechnicalKeywords)
	fill(&out.RemoteTerms, d.RemoteTerms)
	fill(&out.AllowedLocations, d.AllowedLocations)
	fill(&out.AdoptionSpecificKeywords, d.AdoptionSpecificKeywords)
	fill(&out.AdoptionCompanyKeywords, d.AdoptionCompanyKeywords)
	if out.Weights == (Weights{}) {
		out.Weights = d.Weights
	}
	if out.ScoreDivisor <= 0 {
		out.ScoreDivisor = d.ScoreDivisor
	}
	if out.MinDisplayScore <= 0 {
		out.MinDisplayScore = d.MinDisplayScore
	}
	if out.ExplanationMax <= 3 {
		out.ExplanationMax = d.ExplanationMax
	}
	return &out
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
