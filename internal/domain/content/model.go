package content

import (
	"fmt"
	"time"
)

// MarketingContent is the full set of display strings and links rendered on
// the public landing page. Every field has a non-empty default so a partial
// or missing document can never leave the page with a hole in it.
type MarketingContent struct {
	// Header
	HeaderLogoText    string `json:"headerLogoText"`
	HeaderNavHome     string `json:"headerNavHome"`
	HeaderNavFeatures string `json:"headerNavFeatures"`
	HeaderNavAbout    string `json:"headerNavAbout"`
	HeaderNavContact  string `json:"headerNavContact"`
	HeaderCtaButton   string `json:"headerCtaButton"`

	// Hero
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	HeroCtaText  string `json:"heroCtaText"`

	// Features
	FeaturesSectionTitle string `json:"featuresSectionTitle"`
	Feature1Title        string `json:"feature1Title"`
	Feature1Description  string `json:"feature1Description"`
	Feature2Title        string `json:"feature2Title"`
	Feature2Description  string `json:"feature2Description"`
	Feature3Title        string `json:"feature3Title"`
	Feature3Description  string `json:"feature3Description"`
	Feature4Title        string `json:"feature4Title"`
	Feature4Description  string `json:"feature4Description"`

	// Testimonials (static fallback copy; live entries come from feedback)
	TestimonialsSectionTitle string `json:"testimonialsSectionTitle"`
	Testimonial1Text         string `json:"testimonial1Text"`
	Testimonial1Author       string `json:"testimonial1Author"`
	Testimonial2Text         string `json:"testimonial2Text"`
	Testimonial2Author       string `json:"testimonial2Author"`
	Testimonial3Text         string `json:"testimonial3Text"`
	Testimonial3Author       string `json:"testimonial3Author"`

	// Nutritionists
	NutritionistsSectionTitle string `json:"nutritionistsSectionTitle"`
	Nutritionist1Name         string `json:"nutritionist1Name"`
	Nutritionist1Bio          string `json:"nutritionist1Bio"`
	Nutritionist2Name         string `json:"nutritionist2Name"`
	Nutritionist2Bio          string `json:"nutritionist2Bio"`
	Nutritionist3Name         string `json:"nutritionist3Name"`
	Nutritionist3Bio          string `json:"nutritionist3Bio"`

	// Gamification
	GamificationSectionTitle string `json:"gamificationSectionTitle"`
	GamificationDescription  string `json:"gamificationDescription"`
	GamificationFeature1     string `json:"gamificationFeature1"`
	GamificationFeature2     string `json:"gamificationFeature2"`
	GamificationFeature3     string `json:"gamificationFeature3"`

	// Plan comparison
	FeaturesComparisonTitle string   `json:"featuresComparisonTitle"`
	BasicHeader             string   `json:"basicHeader"`
	PremiumHeader           string   `json:"premiumHeader"`
	BasicFeatureList        []string `json:"basicFeatureList"`
	PremiumFeatureList      []string `json:"premiumFeatureList"`
	ComparisonCtaText       string   `json:"comparisonCtaText"`

	// Download CTA
	DownloadCTATitle       string `json:"downloadCTATitle"`
	DownloadCTASubtitle    string `json:"downloadCTASubtitle"`
	AppStoreLink           string `json:"appStoreLink"`
	GooglePlayLink         string `json:"googlePlayLink"`
	APKDownloadURL         string `json:"apkDownloadUrl"`
	GoogleDriveFallbackURL string `json:"googleDriveFallbackUrl"`

	// Footer
	FooterAboutText      string `json:"footerAboutText"`
	FooterContactEmail   string `json:"footerContactEmail"`
	FooterContactPhone   string `json:"footerContactPhone"`
	FooterAddress        string `json:"footerAddress"`
	FooterCopyright      string `json:"footerCopyright"`
	FooterPrivacyPolicy  string `json:"footerPrivacyPolicy"`
	FooterTermsOfService string `json:"footerTermsOfService"`

	IsHosted bool `json:"isHosted"`
}

// Defaults returns the hardcoded fallback record used whenever the remote
// document is missing, partial, or failed to load.
func Defaults() MarketingContent {
	return MarketingContent{
		HeaderLogoText:    "DiaBeater",
		HeaderNavHome:     "Home",
		HeaderNavFeatures: "Features",
		HeaderNavAbout:    "About Us",
		HeaderNavContact:  "Contact",
		HeaderCtaButton:   "Sign Up",

		HeroTitle:    "Welcome to DiaBeater - Manage Your Diabetes Easily!",
		HeroSubtitle: "Empowering you with tools for better health management.",
		HeroCtaText:  "Start Your Journey",

		FeaturesSectionTitle: "Key Features",
		Feature1Title:        "Personalized Meal Plans",
		Feature1Description:  "Get meal plans tailored to your dietary needs and health goals, updated regularly.",
		Feature2Title:        "Glucose Tracking & Analytics",
		Feature2Description:  "Monitor your glucose levels with intuitive graphs and detailed reports for better insights.",
		Feature3Title:        "Secure Data Storage",
		Feature3Description:  "Your health data is securely stored and accessible anytime, anywhere, ensuring privacy.",
		Feature4Title:        "Direct Nutritionist Support",
		Feature4Description:  "Connect directly with certified nutritionists for expert advice and personalized guidance.",

		TestimonialsSectionTitle: "What Our Users Say",
		Testimonial1Text:         "DiaBeater changed my life! Managing my diabetes has never been easier and more effective.",
		Testimonial1Author:       "Sarah M., Happy User",
		Testimonial2Text:         "The personalized meal plans are a game-changer. I've seen significant improvements in my health.",
		Testimonial2Author:       "David P., Premium Member",
		Testimonial3Text:         "Excellent support from nutritionists and a very user-friendly interface. Highly recommend this app!",
		Testimonial3Author:       "Emily R., New Client",

		NutritionistsSectionTitle: "Meet Our Expert Nutritionists",
		Nutritionist1Name:         "Dr. Emily White",
		Nutritionist1Bio:          "Specializing in diabetic nutrition with over 10 years of experience helping patients.",
		Nutritionist2Name:         "Mark Johnson, RD",
		Nutritionist2Bio:          "A registered dietitian passionate about holistic health and personalized care plans.",
		Nutritionist3Name:         "Sophia Chen, MPH",
		Nutritionist3Bio:          "Focuses on preventative care and lifestyle modifications for long-term wellness.",

		GamificationSectionTitle: "Stay Motivated with Gamification",
		GamificationDescription:  "Earn points, unlock badges, and compete with friends to make managing diabetes fun, engaging, and rewarding!",
		GamificationFeature1:     "Daily Challenges",
		GamificationFeature2:     "Achievement Badges",
		GamificationFeature3:     "Leaderboards",

		FeaturesComparisonTitle: "Basic vs. Premium Features",
		BasicHeader:             "Basic Plan",
		PremiumHeader:           "Premium Plan",
		BasicFeatureList: []string{
			"Basic Glucose Tracking",
			"Standard Meal Ideas",
			"Community Forum Access",
		},
		PremiumFeatureList: []string{
			"Advanced Glucose Analytics",
			"Personalized Meal Plans",
			"Direct Nutritionist Chat",
			"Premium Content Library",
			"Exclusive Webinars",
		},
		ComparisonCtaText: "Upgrade Now",

		DownloadCTATitle:       "Download DiaBeater Today!",
		DownloadCTASubtitle:    "Available on iOS and Android. Start your journey to better health now.",
		AppStoreLink:           "#",
		GooglePlayLink:         "#",
		APKDownloadURL:         "/assets/Diabeater.apk",
		GoogleDriveFallbackURL: "#",

		FooterAboutText:      "DiaBeater is committed to providing innovative tools for diabetes management.",
		FooterContactEmail:   "info@diabeater.com",
		FooterContactPhone:   "(123) 456-7890",
		FooterAddress:        "123 Health Ave, Wellness City, DI 54321",
		FooterCopyright:      fmt.Sprintf("© %d DiaBeater. All rights reserved.", time.Now().Year()),
		FooterPrivacyPolicy:  "Privacy Policy",
		FooterTermsOfService: "Terms of Service",

		IsHosted: true,
	}
}

// Normalize builds a complete record from an arbitrary partial document.
// Unknown keys are ignored, missing or mistyped values fall back to the
// default, and the two list fields always come out as arrays. It never
// fails and applying it twice yields the same record as applying it once.
func Normalize(doc map[string]any) MarketingContent {
	c := Defaults()
	if doc == nil {
		return c
	}

	fields := map[string]*string{
		"headerLogoText":            &c.HeaderLogoText,
		"headerNavHome":             &c.HeaderNavHome,
		"headerNavFeatures":         &c.HeaderNavFeatures,
		"headerNavAbout":            &c.HeaderNavAbout,
		"headerNavContact":          &c.HeaderNavContact,
		"headerCtaButton":           &c.HeaderCtaButton,
		"heroTitle":                 &c.HeroTitle,
		"heroSubtitle":              &c.HeroSubtitle,
		"heroCtaText":               &c.HeroCtaText,
		"featuresSectionTitle":      &c.FeaturesSectionTitle,
		"feature1Title":             &c.Feature1Title,
		"feature1Description":       &c.Feature1Description,
		"feature2Title":             &c.Feature2Title,
		"feature2Description":       &c.Feature2Description,
		"feature3Title":             &c.Feature3Title,
		"feature3Description":       &c.Feature3Description,
		"feature4Title":             &c.Feature4Title,
		"feature4Description":       &c.Feature4Description,
		"testimonialsSectionTitle":  &c.TestimonialsSectionTitle,
		"testimonial1Text":          &c.Testimonial1Text,
		"testimonial1Author":        &c.Testimonial1Author,
		"testimonial2Text":          &c.Testimonial2Text,
		"testimonial2Author":        &c.Testimonial2Author,
		"testimonial3Text":          &c.Testimonial3Text,
		"testimonial3Author":        &c.Testimonial3Author,
		"nutritionistsSectionTitle": &c.NutritionistsSectionTitle,
		"nutritionist1Name":         &c.Nutritionist1Name,
		"nutritionist1Bio":          &c.Nutritionist1Bio,
		"nutritionist2Name":         &c.Nutritionist2Name,
		"nutritionist2Bio":          &c.Nutritionist2Bio,
		"nutritionist3Name":         &c.Nutritionist3Name,
		"nutritionist3Bio":          &c.Nutritionist3Bio,
		"gamificationSectionTitle":  &c.GamificationSectionTitle,
		"gamificationDescription":   &c.GamificationDescription,
		"gamificationFeature1":      &c.GamificationFeature1,
		"gamificationFeature2":      &c.GamificationFeature2,
		"gamificationFeature3":      &c.GamificationFeature3,
		"featuresComparisonTitle":   &c.FeaturesComparisonTitle,
		"basicHeader":               &c.BasicHeader,
		"premiumHeader":             &c.PremiumHeader,
		"comparisonCtaText":         &c.ComparisonCtaText,
		"downloadCTATitle":          &c.DownloadCTATitle,
		"downloadCTASubtitle":       &c.DownloadCTASubtitle,
		"appStoreLink":              &c.AppStoreLink,
		"googlePlayLink":            &c.GooglePlayLink,
		"apkDownloadUrl":            &c.APKDownloadURL,
		"googleDriveFallbackUrl":    &c.GoogleDriveFallbackURL,
		"footerAboutText":           &c.FooterAboutText,
		"footerContactEmail":        &c.FooterContactEmail,
		"footerContactPhone":        &c.FooterContactPhone,
		"footerAddress":             &c.FooterAddress,
		"footerCopyright":           &c.FooterCopyright,
		"footerPrivacyPolicy":       &c.FooterPrivacyPolicy,
		"footerTermsOfService":      &c.FooterTermsOfService,
	}
	for key, dst := range fields {
		if s, ok := doc[key].(string); ok {
			*dst = s
		}
	}

	c.BasicFeatureList = stringList(doc["basicFeatureList"], c.BasicFeatureList)
	c.PremiumFeatureList = stringList(doc["premiumFeatureList"], c.PremiumFeatureList)

	if b, ok := doc["isHosted"].(bool); ok {
		c.IsHosted = b
	}

	return c
}

// stringList coerces a decoded JSON value into a string slice. Anything
// that is not an array of strings falls back to def, so the list fields are
// never published as objects or null.
func stringList(v any, def []string) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return def
			}
			out = append(out, s)
		}
		return out
	default:
		return def
	}
}

// Document flattens the record back into the document shape stored in the
// content table, with the same keys Normalize reads.
func (c MarketingContent) Document() map[string]any {
	return map[string]any{
		"headerLogoText":            c.HeaderLogoText,
		"headerNavHome":             c.HeaderNavHome,
		"headerNavFeatures":         c.HeaderNavFeatures,
		"headerNavAbout":            c.HeaderNavAbout,
		"headerNavContact":          c.HeaderNavContact,
		"headerCtaButton":           c.HeaderCtaButton,
		"heroTitle":                 c.HeroTitle,
		"heroSubtitle":              c.HeroSubtitle,
		"heroCtaText":               c.HeroCtaText,
		"featuresSectionTitle":      c.FeaturesSectionTitle,
		"feature1Title":             c.Feature1Title,
		"feature1Description":       c.Feature1Description,
		"feature2Title":             c.Feature2Title,
		"feature2Description":       c.Feature2Description,
		"feature3Title":             c.Feature3Title,
		"feature3Description":       c.Feature3Description,
		"feature4Title":             c.Feature4Title,
		"feature4Description":       c.Feature4Description,
		"testimonialsSectionTitle":  c.TestimonialsSectionTitle,
		"testimonial1Text":          c.Testimonial1Text,
		"testimonial1Author":        c.Testimonial1Author,
		"testimonial2Text":          c.Testimonial2Text,
		"testimonial2Author":        c.Testimonial2Author,
		"testimonial3Text":          c.Testimonial3Text,
		"testimonial3Author":        c.Testimonial3Author,
		"nutritionistsSectionTitle": c.NutritionistsSectionTitle,
		"nutritionist1Name":         c.Nutritionist1Name,
		"nutritionist1Bio":          c.Nutritionist1Bio,
		"nutritionist2Name":         c.Nutritionist2Name,
		"nutritionist2Bio":          c.Nutritionist2Bio,
		"nutritionist3Name":         c.Nutritionist3Name,
		"nutritionist3Bio":          c.Nutritionist3Bio,
		"gamificationSectionTitle":  c.GamificationSectionTitle,
		"gamificationDescription":   c.GamificationDescription,
		"gamificationFeature1":      c.GamificationFeature1,
		"gamificationFeature2":      c.GamificationFeature2,
		"gamificationFeature3":      c.GamificationFeature3,
		"featuresComparisonTitle":   c.FeaturesComparisonTitle,
		"basicHeader":               c.BasicHeader,
		"premiumHeader":             c.PremiumHeader,
		"basicFeatureList":          c.BasicFeatureList,
		"premiumFeatureList":        c.PremiumFeatureList,
		"comparisonCtaText":         c.ComparisonCtaText,
		"downloadCTATitle":          c.DownloadCTATitle,
		"downloadCTASubtitle":       c.DownloadCTASubtitle,
		"appStoreLink":              c.AppStoreLink,
		"googlePlayLink":            c.GooglePlayLink,
		"apkDownloadUrl":            c.APKDownloadURL,
		"googleDriveFallbackUrl":    c.GoogleDriveFallbackURL,
		"footerAboutText":           c.FooterAboutText,
		"footerContactEmail":        c.FooterContactEmail,
		"footerContactPhone":        c.FooterContactPhone,
		"footerAddress":             c.FooterAddress,
		"footerCopyright":           c.FooterCopyright,
		"footerPrivacyPolicy":       c.FooterPrivacyPolicy,
		"footerTermsOfService":      c.FooterTermsOfService,
		"isHosted":                  c.IsHosted,
	}
}
