package programs

// Source is one site of a program category.
type Source struct {
	Name        string
	URL         string
	Description string
}

// Category groups program sites that share filtering rules and the
// requirements/signals stamped on what they yield.
type Category struct {
	Name     string
	Label    string
	Location string
	Sources  []Source

	// LinkWords must appear in a link's text; its length must be strictly
	// between MinLen and MaxLen runes.
	LinkWords []string
	MinLen    int
	MaxLen    int

	// PageWords, when set, must appear somewhere on the page or it is skipped
	// entirely (no fallback).
	PageWords []string

	// LinkAsCompany uses the link text as the company and a fixed title.
	LinkAsCompany bool

	Requirements    []string
	ResearchSignals []string
	AdoptionSignals []string

	FallbackTitle           string
	FallbackRequirements    []string
	FallbackResearchSignals []string
	FallbackAdoptionSignals []string
}

var Accelerators = Category{
	Name:     "Accelerators",
	Label:    "Accelerator",
	Location: "Remote / Global",
	Sources: []Source{
		{"Y Combinator", "https://www.ycombinator.com/companies", "Startup accelerator with many AI companies hiring interns"},
		{"Plug and Play Tech Center", "https://www.plugandplaytechcenter.com/", "AI/ML focused accelerator"},
		{"Techstars", "https://www.techstars.com/", "Global accelerator for tech companies"},
		{"500 Global", "https://500.co/", "Venture capital and accelerator"},
		{"Anterra Capital", "https://www.anterracapital.com/", "Invests in AI/ML startups"},
	},
	LinkWords:               []string{"career", "job", "intern", "work", "team"},
	MinLen:                  5,
	MaxLen:                  200,
	LinkAsCompany:           true,
	Requirements:            []string{"Startup environment", "Innovation focus"},
	ResearchSignals:         []string{"startup", "innovation"},
	AdoptionSignals:         []string{"accelerator", "innovation", "startup"},
	FallbackTitle:           "%s - AI Internship Programs",
	FallbackRequirements:    []string{"Startup experience", "Innovation mindset"},
	FallbackResearchSignals: []string{"startup", "innovation"},
	FallbackAdoptionSignals: []string{"accelerator", "startup"},
}

var InnovationPlatforms = Category{
	Name:     "Innovation Platforms",
	Label:    "Platform",
	Location: "Remote / Online",
	Sources: []Source{
		{"Devpost", "https://devpost.com/challenges", "Hackathons and coding challenges with prizes"},
		{"IdeaScale", "https://www.ideascale.com/", "Innovation platform for idea submissions"},
		{"ChallengePost", "https://www.challengepost.com/", "Technology challenges and competitions"},
		{"HackerEarth", "https://www.hackerearth.com/challenges/", "Coding challenges and hackathons"},
		{"MLH - Major League Hacking", "https://mlh.io/", "Official independent hackathon league"},
		{"GitHub Sponsors", "https://github.com/sponsors", "Fund open source projects and innovations"},
	},
	LinkWords:               []string{"challenge", "hackathon", "competition", "contest", "innovation"},
	MinLen:                  10,
	MaxLen:                  150,
	Requirements:            []string{"Project submission", "Innovation"},
	ResearchSignals:         []string{"innovation"},
	AdoptionSignals:         []string{"hackathon", "challenge", "innovation"},
	FallbackTitle:           "%s - Innovation Challenges",
	FallbackRequirements:    []string{"Project ideas", "Innovation"},
	FallbackResearchSignals: []string{"innovation"},
	FallbackAdoptionSignals: []string{"hackathon", "challenge"},
}

var ResearchGrants = Category{
	Name:     "Research Grants",
	Label:    "Research",
	Location: "Remote / Global",
	Sources: []Source{
		{"NSERC - Natural Sciences and Engineering Research Council", "https://www.nserc-crsng.gc.ca/students-etudiants/undergrad-premier-cycle/program-programme_eng.asp", "Canadian research funding with student programs"},
		{"NSF - National Science Foundation", "https://www.nsf.gov/funding/", "US research funding with REU programs for students"},
		{"Erasmus+ Internships", "https://erasmusplus.ec.europa.eu/", "European internship and mobility program (Tunisia eligible!)"},
		{"Google Research Internships", "https://research.google/careers/", "Google's research internship program"},
		{"Meta AI Research", "https://www.metacareers.com/jobs/?q=research&department[0]=Research%20%26%20Development", "Meta's AI research internships"},
		{"DeepMind", "https://www.deepmind.com/careers", "AI research organization with internship programs"},
		{"OpenAI", "https://openai.com/careers/", "AI research and deployment organization"},
		{"OpenIstanbul Fund", "https://openistanbul.com/", "Fund for tech innovation in Middle East/North Africa"},
	},
	PageWords:               []string{"intern", "research", "program", "opportunity", "apply"},
	LinkWords:               []string{"intern", "researcher", "research", "apply", "join"},
	MinLen:                  5,
	MaxLen:                  150,
	Requirements:            []string{"Research background", "Academic focus"},
	ResearchSignals:         []string{"research", "funding"},
	AdoptionSignals:         []string{"research", "internship"},
	FallbackTitle:           "%s - Research Internship",
	FallbackRequirements:    []string{"Research interest", "Academic background"},
	FallbackResearchSignals: []string{"research", "funded"},
	FallbackAdoptionSignals: []string{"research"},
}

var OpenSource = Category{
	Name:     "Open Source Programs",
	Label:    "Open Source",
	Location: "Remote / Global",
	Sources: []Source{
		{"Google Summer of Code", "https://summerofcode.withgoogle.com/", "Google's paid summer program for students contributing to open source"},
		{"Outreachy", "https://www.outreachy.org/", "Paid internship program for underrepresented groups in tech"},
		{"Linux Foundation Internships", "https://www.linuxfoundation.org/about/careers/", "Internships with open source projects"},
		{"Mozilla Career Development Program", "https://careers.mozilla.org/", "Mozilla's internship and development programs"},
		{"Apache Software Foundation", "https://www.apache.org/", "Community-driven open source projects with contribution programs"},
		{"TensorFlow Community", "https://www.tensorflow.org/community", "Contribution opportunities for TensorFlow projects"},
		{"PyTorch Fellowship Program", "https://pytorch.org/", "PyTorch project contribution and fellowship opportunities"},
	},
	LinkWords:               []string{"intern", "fellow", "apply", "join", "participate", "contribute"},
	MinLen:                  5,
	MaxLen:                  150,
	Requirements:            []string{"Open source contribution", "Community participation"},
	ResearchSignals:         []string{"open source"},
	AdoptionSignals:         []string{"open source", "community", "contribution"},
	FallbackTitle:           "%s - Open Source Contribution",
	FallbackRequirements:    []string{"Open source experience", "Community driven"},
	FallbackResearchSignals: []string{"open source"},
	FallbackAdoptionSignals: []string{"open source", "contribution"},
}

var InnovationLabs = Category{
	Name:     "Innovation Labs",
	Label:    "Lab",
	Location: "Remote / International",
	Sources: []Source{
		{"MIT-IBM AI Lab", "https://mitibmwatsonailab.mit.edu/", "Collaborative AI research and internship opportunities"},
		{"Stanford AI Index", "https://aiindex.stanford.edu/", "AI research and internship programs"},
		{"Carnegie Mellon School of Computer Science", "https://www.cs.cmu.edu/", "Leading CS research with internship programs"},
		{"UC Berkeley AI Research Lab", "https://ai.berkeley.edu/", "Cutting-edge AI research opportunities"},
		{"Oxford Brookes University Computing Lab", "https://www.brookes.ac.uk/", "UK-based AI research and internships"},
		{"Alan Turing Institute", "https://www.turing.ac.uk/", "UK national institute for data science and AI"},
	},
	LinkWords:               []string{"research", "internship", "career", "opportunity", "intern", "apply"},
	MinLen:                  5,
	MaxLen:                  150,
	Requirements:            []string{"Research interest", "Academic excellence"},
	ResearchSignals:         []string{"research", "lab", "innovation"},
	AdoptionSignals:         []string{"research", "lab"},
	FallbackTitle:           "%s - Research Internship",
	FallbackRequirements:    []string{"Research background", "Innovation mindset"},
	FallbackResearchSignals: []string{"research", "lab"},
	FallbackAdoptionSignals: []string{"research"},
}

// AllCategories in the order they are searched.
var AllCategories = []Category{Accelerators, InnovationPlatforms, ResearchGrants, OpenSource, InnovationLabs}
