package scraper

import "strings"

// DetectSignals returns the keywords found in description, in list order.
func DetectSignals(description string, keywords []string) []string {
	found := []string{}
	if description == "" {
		return found
	}
	d := strings.ToLower(description)
	for _, k := range keywords {
		if k != "" && strings.Contains(d, strings.ToLower(k)) {
			found = append(found, k)
		}
	}
	return found
}

var skillTerms = []struct {
	name  string
	terms []string
}{
	{"Python", []string{"python"}},
	{"Machine Learning", []string{"machine learning", "ml"}},
	{"Deep Learning", []string{"deep learning"}},
	{"Computer Vision", []string{"computer vision", "cv"}},
	{"NLP", []string{"nlp", "natural language"}},
	{"TensorFlow", []string{"tensorflow"}},
	{"PyTorch", []string{"pytorch"}},
	{"OpenCV", []string{"opencv"}},
	{"Research", []string{"research"}},
}

// ExtractRequirements lists the skills a description mentions, plus
// "Paid internship" or "Unpaid internship" flags.
func ExtractRequirements(description string) []string {
	req := []string{}
	if description == "" {
		return req
	}
	d := strings.ToLower(description)

	for _, s := range skillTerms {
		for _, t := range s.terms {
			if strings.Contains(d, t) {
				req = append(req, s.name)
				break
			}
		}
	}

	if strings.Contains(d, "paid") || strings.Contains(d, "salary") || strings.Contains(d, "compensation") {
		req = append(req, "Paid internship")
	}
	if strings.Contains(d, "unpaid") {
		req = append(req, "Unpaid internship")
	}
	return req
}
