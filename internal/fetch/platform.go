package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

// Known job boards
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// platformRules describes how to find the posting body on a board
type platformRules struct {
	hosts   []string
	content []string
	noise   []string
}

var platforms = map[Platform]platformRules{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='_descriptionText']", "main"},
		noise:   []string{"[class*='_applicationForm']"},
	},
}

// commonNoise is removed on every board: application forms, EEO blocks, share widgets
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	"[data-testid='application-form']",
	".eeo-statement",
	".eeo-section",
	".voluntary-disclosure",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for platform, rules := range platforms {
		for _, h := range rules.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors tried, in order, to locate the posting body.
func ContentSelectors(platform Platform) []string {
	if rules, ok := platforms[platform]; ok {
		return rules.content
	}
	return GenericContentSelectors()
}

// NoiseSelectors returns the selectors removed before extraction.
func NoiseSelectors(platform Platform) []string {
	noise := append([]string(nil), commonNoise...)
	if rules, ok := platforms[platform]; ok {
		noise = append(noise, rules.noise...)
	}
	return noise
}
