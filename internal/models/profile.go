package models

// Profile is the static candidate profile used in explanations and outreach drafts.
type Profile struct {
	FullName        string `yaml:"full_name" json:"full_name"`
	Country         string `yaml:"country" json:"country"`
	City            string `yaml:"city" json:"city"`
	Email           string `yaml:"email" json:"email"`
	Timezone        string `yaml:"timezone" json:"timezone"`
	Availability    string `yaml:"availability" json:"availability"`
	Education       string `yaml:"education" json:"education"`
	ExperienceLevel string `yaml:"experience_level" json:"experience_level"`
	LinkedIn        string `yaml:"linkedin" json:"linkedin,omitempty"`
	Portfolio       string `yaml:"portfolio" json:"portfolio,omitempty"`
}

// DefaultProfile is used when the config file does not define one.
func DefaultProfile() Profile {
	return Profile{
		FullName:        "Mohamed Chaibi",
		Country:         "Tunisia",
		City:            "Monastir",
		Email:           "medchaibi965@proton.me",
		Timezone:        "GMT+1",
		Availability:    "Full-time",
		Education:       "Computer Science Student",
		ExperienceLevel: "Entry Level / Student",
		LinkedIn:        "www.linkedin.com/in/mohamed-chaibi-6037583a0",
		Portfolio:       "https://github.com/medchaibi16/medchaibi16",
	}
}
