package content

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eringen/marketdesk/model"
)

type postTemplate struct {
	Content     string
	Hashtags    []string
	ImagePrompt string
}

// fallbackPost returns the deterministic template post for index i.
func fallbackPost(a model.Account, i int) postTemplate {
	emoji := func(e string) string {
		if a.Emojis() {
			return e
		}
		return ""
	}
	name := or(a.Name, "Business")
	city := strings.Join(strings.Fields(strings.ToLower(a.PrimaryLocation.City)), "")

	var templates []postTemplate
	switch strings.ToLower(strings.TrimSpace(a.Industry)) {
	case "healthcare":
		templates = []postTemplate{
			{
				Content:     fmt.Sprintf("%sYour health is our priority. At %s, we're committed to providing exceptional %s services. %sReady to take the next step in your wellness journey?", emoji("🏥 "), name, or(a.Expertise, "healthcare"), emoji("💙 ")),
				Hashtags:    []string{"healthcare", "wellness", "health", or(city, "local"), "patientcare"},
				ImagePrompt: "Modern healthcare facility interior with professional medical equipment, clean white and blue color scheme, natural lighting, welcoming atmosphere",
			},
			{
				Content:     fmt.Sprintf("%sDid you know? Early intervention can make all the difference. Our team at %s specializes in %s to help you feel your best.", emoji("✨ "), name, or(a.Expertise, "comprehensive care")),
				Hashtags:    []string{"healthtips", "prevention", "wellness", a.Industry, "expertcare"},
				ImagePrompt: "Professional healthcare consultation scene, doctor and patient discussion, modern medical office, warm lighting, trust and care atmosphere",
			},
		}
	case "technology":
		templates = []postTemplate{
			{
				Content:     fmt.Sprintf("%sInnovation never stops at %s! We're transforming %s with cutting-edge %s. Ready to revolutionize your business?", emoji("🚀 "), name, a.Industry, or(a.Expertise, "solutions")),
				Hashtags:    []string{"innovation", "technology", "digital", "business", or(city, "tech")},
				ImagePrompt: "Modern tech office with multiple monitors, coding screens, innovative workspace, blue and white color scheme, professional lighting",
			},
			{
				Content:     fmt.Sprintf("%sThe future is here! Our latest %s are helping businesses like yours stay ahead of the curve. Let's build something amazing together.", emoji("💡 "), or(a.Products, "technology solutions")),
				Hashtags:    []string{"futuretech", "innovation", "business", "solutions", "growth"},
				ImagePrompt: "Futuristic technology concept, digital interfaces, holographic displays, modern office environment, innovative atmosphere",
			},
		}
	default:
		templates = []postTemplate{
			{
				Content:     fmt.Sprintf("%sExcellence isn't just our goal, it's our standard. At %s, we're dedicated to delivering %s that exceeds your expectations.", emoji("⭐ "), name, or(a.Products, "exceptional service")),
				Hashtags:    []string{"excellence", "quality", "service", or(city, "local"), "business"},
				ImagePrompt: fmt.Sprintf("Professional business environment, team collaboration, modern office space, %s color scheme, success atmosphere", or(a.ColorScheme, "blue and white")),
			},
			{
				Content:     fmt.Sprintf("%sSuccess comes from understanding what our clients truly need. We listen, we learn, and we deliver %s that make a real difference.", emoji("🎯 "), or(a.Expertise, "solutions")),
				Hashtags:    []string{"clientfirst", "success", "solutions", "business", "results"},
				ImagePrompt: "Business consultation meeting, professional handshake, modern conference room, trust and partnership atmosphere",
			},
		}
	}
	t := templates[i%len(templates)]
	t.Hashtags = normalizeHashtags(t.Hashtags)
	return t
}

const maxHashtags = 8

// normalizeHashtags prefixes tags with '#', strips spaces, drops duplicates
// and caps the list.
func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.Join(strings.Fields(t), "")
		t = strings.TrimLeft(t, "#")
		if t == "" {
			continue
		}
		t = "#" + t
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
		if len(out) == maxHashtags {
			break
		}
	}
	return out
}

// truncateContent shortens s to limit runes, ending with "...".
func truncateContent(s string, limit int) string {
	if limit <= 3 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:limit-3])) + "..."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

type blogTemplate struct {
	Title             string
	MetaTitle         string
	MetaDescription   string
	Content           string
	SecondaryKeywords []string
	Slug              string
}

// fallbackBlog builds the template guide for keyword.
func fallbackBlog(a model.Account, keyword string) blogTemplate {
	kw := capitalize(keyword)
	industry := a.Industry
	body := fmt.Sprintf(`# %[1]s: A Complete Guide

## Introduction

In today's competitive %[3]s landscape, understanding %[2]s is crucial for success. This comprehensive guide will provide you with actionable insights and best practices.

## What You Need to Know About %[2]s

%[1]s plays a vital role in %[3]s. Here's what every professional should understand:

### Key Benefits
- Improved efficiency and productivity
- Better decision-making capabilities
- Enhanced competitive advantage
- Increased customer satisfaction

### Common Challenges
Many businesses struggle with implementing effective %[2]s strategies. The most common challenges include:

1. **Lack of expertise** - Understanding the complexities involved
2. **Resource constraints** - Allocating sufficient time and budget
3. **Technology barriers** - Choosing the right tools and platforms
4. **Change management** - Getting team buy-in and adoption

## Best Practices for %[2]s

Based on our experience in %[3]s, here are proven strategies:

### 1. Start with Clear Objectives
Define what you want to achieve with %[2]s. Set measurable goals and timelines.

### 2. Invest in the Right Tools
Choose solutions that align with your business needs and budget.

### 3. Focus on Training
Ensure your team has the skills and knowledge needed for success.

### 4. Monitor and Optimize
Regularly review performance and make adjustments as needed.

## Conclusion

Mastering %[2]s is essential for %[3]s success. By following these best practices and staying informed about industry trends, you can achieve better results.

Ready to improve your %[2]s strategy? Contact %[4]s today to learn how we can help you succeed.`, kw, keyword, industry, a.Name)

	return blogTemplate{
		Title:           fmt.Sprintf("%s: A Complete Guide for %s", kw, industry),
		MetaTitle:       fmt.Sprintf("%s Guide | %s", keyword, a.Name),
		MetaDescription: fmt.Sprintf("Discover expert insights on %s from %s. Learn best practices, tips, and strategies for %s success.", keyword, a.Name, industry),
		Content:         body,
		SecondaryKeywords: []string{
			keyword + " best practices",
			keyword + " guide",
			industry + " " + keyword,
			keyword + " strategies",
			keyword + " tips",
		},
		Slug: model.Slugify(keyword),
	}
}

// demoKeywords returns the industry demo keyword report.
func demoKeywords(a model.Account) model.KeywordAnalysis {
	industry := or(strings.ToLower(strings.TrimSpace(a.Industry)), "business")
	city := or(a.PrimaryLocation.City, "your city")
	state := or(a.PrimaryLocation.State, "your state")
	lcity, lstate := strings.ToLower(city), strings.ToLower(state)
	brand := strings.Join(strings.Fields(strings.ToLower(a.Name)), " ")

	var current []model.KeywordRanking
	var opps []model.KeywordOpportunity

	switch industry {
	case "healthcare":
		current = []model.KeywordRanking{
			{Keyword: industry + " services " + lstate, Position: 15, SearchVolume: 1200, Difficulty: "Medium"},
			{Keyword: brand, Position: 3, SearchVolume: 500, Difficulty: "Low"},
			{Keyword: "medical practice " + lcity, Position: 25, SearchVolume: 800, Difficulty: "High"},
			{Keyword: "healthcare providers near me", Position: 18, SearchVolume: 2200, Difficulty: "Medium"},
			{Keyword: industry + " specialists " + lstate, Position: 12, SearchVolume: 900, Difficulty: "Medium"},
		}
		opps = []model.KeywordOpportunity{
			{Keyword: "best " + industry + " " + lcity, SearchVolume: 1500, Difficulty: "Medium", Intent: "commercial", LocalVariations: []string{industry + " in " + city, industry + " near me"}},
			{Keyword: industry + " consultation " + lcity, SearchVolume: 600, Difficulty: "Low", Intent: "commercial", LocalVariations: []string{"consultation near me", industry + " advice " + city}},
			{Keyword: "emergency " + industry + " services", SearchVolume: 800, Difficulty: "High", Intent: "transactional", LocalVariations: []string{"emergency " + industry + " " + city, "urgent " + industry + " care"}},
			{Keyword: industry + " treatment options", SearchVolume: 1200, Difficulty: "Medium", Intent: "informational", LocalVariations: []string{"treatment " + city, industry + " therapy near me"}},
			{Keyword: "affordable " + industry + " " + lcity, SearchVolume: 400, Difficulty: "Low", Intent: "commercial", LocalVariations: []string{"cheap " + industry, "low cost " + industry}},
		}
	case "technology":
		current = []model.KeywordRanking{
			{Keyword: industry + " solutions " + lstate, Position: 20, SearchVolume: 2000, Difficulty: "High"},
			{Keyword: brand, Position: 5, SearchVolume: 300, Difficulty: "Low"},
			{Keyword: "IT services " + lcity, Position: 15, SearchVolume: 1500, Difficulty: "Medium"},
			{Keyword: "software development company", Position: 30, SearchVolume: 3000, Difficulty: "High"},
			{Keyword: "tech consulting " + lstate, Position: 22, SearchVolume: 800, Difficulty: "Medium"},
		}
		opps = []model.KeywordOpportunity{
			{Keyword: "best IT company " + lcity, SearchVolume: 1200, Difficulty: "Medium", Intent: "commercial", LocalVariations: []string{"IT services in " + city, "technology company near me"}},
			{Keyword: "custom software development", SearchVolume: 2500, Difficulty: "High", Intent: "commercial", LocalVariations: []string{"software development " + city, "custom apps near me"}},
			{Keyword: "cloud migration services", SearchVolume: 1800, Difficulty: "Medium", Intent: "commercial", LocalVariations: []string{"cloud services " + city, "cloud consulting near me"}},
			{Keyword: "cybersecurity solutions", SearchVolume: 2200, Difficulty: "High", Intent: "commercial", LocalVariations: []string{"cybersecurity " + city, "IT security near me"}},
			{Keyword: "managed IT services", SearchVolume: 1600, Difficulty: "Medium", Intent: "commercial", LocalVariations: []string{"managed IT " + city, "IT support near me"}},
		}
	default:
		current = []model.KeywordRanking{
			{Keyword: industry + " services " + lstate, Position: 18, SearchVolume: 1000, Difficulty: "Medium"},
			{Keyword: brand, Position: 8, SearchVolume: 200, Difficulty: "Low"},
			{Keyword: "professional " + industry + " " + lcity, Position: 25, SearchVolume: 600, Difficulty: "Medium"},
			{Keyword: industry + " company near me", Position: 20, SearchVolume: 800, Difficulty: "Medium"},
			{Keyword: "best " + industry + " " + lstate, Position: 35, SearchVolume: 1200, Difficulty: "High"},
		}
		opps = []model.KeywordOpportunity{
			{Keyword: "top " + industry + " " + lcity, SearchVolume: 900, Difficulty: "Medium", Intent: "commercial", LocalVariations: []string{industry + " in " + city, industry + " near me"}},
			{Keyword: industry + " consultation", SearchVolume: 700, Difficulty: "Low", Intent: "commercial", LocalVariations: []string{"consultation " + city, industry + " advice near me"}},
			{Keyword: "affordable " + industry + " services", SearchVolume: 500, Difficulty: "Low", Intent: "commercial", LocalVariations: []string{"cheap " + industry, "budget " + industry}},
			{Keyword: industry + " solutions", SearchVolume: 1100, Difficulty: "Medium", Intent: "informational", LocalVariations: []string{"solutions " + city, industry + " help near me"}},
			{Keyword: industry + " expert " + lcity, SearchVolume: 400, Difficulty: "Low", Intent: "commercial", LocalVariations: []string{industry + " specialist", "expert near me"}},
		}
	}

	return model.KeywordAnalysis{
		CurrentRankings: current,
		Opportunities:   opps,
		CompetitorGaps: []model.CompetitorGap{
			{Keyword: industry + " reviews " + lcity, Competitors: []string{"competitor1.com", "competitor2.com"}, Opportunity: "High"},
			{Keyword: industry + " pricing " + lstate, Competitors: []string{"competitor3.com"}, Opportunity: "Medium"},
		},
	}
}
