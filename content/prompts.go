package content

import (
	"fmt"
	"strings"

	"github.com/eringen/marketdesk/model"
)

type industryDirection struct {
	content string
	image   string
}

// direction returns the industry-specific copy and imagery lead-ins.
func direction(industry, name string) industryDirection {
	switch strings.ToLower(strings.TrimSpace(industry)) {
	case "retail":
		return industryDirection{
			content: fmt.Sprintf("Create engaging social media content for %s, a retail business. Focus on products, sales, customer experience, and shopping trends.", name),
			image:   fmt.Sprintf("Professional retail store interior with modern displays, bright lighting, and attractive product arrangements for %s. Clean, inviting shopping environment.", name),
		}
	case "healthcare":
		return industryDirection{
			content: fmt.Sprintf("Create professional social media content for %s in healthcare. Focus on wellness, patient care, health tips, and medical services.", name),
			image:   fmt.Sprintf("Clean, modern healthcare facility interior with professional medical equipment and calming atmosphere for %s. Bright, sterile, and welcoming environment.", name),
		}
	case "technology":
		return industryDirection{
			content: fmt.Sprintf("Create innovative social media content for %s, a technology company. Focus on digital solutions, innovation, and tech trends.", name),
			image:   fmt.Sprintf("Modern technology office with sleek computers, digital displays, and innovative workspace design for %s. Futuristic and professional atmosphere.", name),
		}
	case "restaurant":
		return industryDirection{
			content: fmt.Sprintf("Create appetizing social media content for %s, a restaurant. Focus on food, dining experience, and culinary excellence.", name),
			image:   fmt.Sprintf("Beautiful restaurant interior with elegant table settings, warm lighting, and inviting atmosphere for %s. Professional food photography style.", name),
		}
	case "fitness":
		return industryDirection{
			content: fmt.Sprintf("Create motivational social media content for %s, a fitness business. Focus on health, exercise, and wellness.", name),
			image:   fmt.Sprintf("Modern fitness gym with professional equipment, bright lighting, and energetic atmosphere for %s. Clean and motivating environment.", name),
		}
	}
	return industryDirection{
		content: fmt.Sprintf("Create professional social media content for %s. Focus on the business values, services, and customer engagement.", name),
		image:   fmt.Sprintf("Professional business environment with modern design and clean aesthetic for %s. Bright, welcoming, and professional atmosphere.", name),
	}
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func postPrompt(a model.Account, req PostRequest, recent []model.Post) string {
	var b strings.Builder
	b.WriteString(direction(a.Industry, a.Name).content)
	b.WriteString("\n\nReturn ONLY a JSON object with this exact structure:\n")
	b.WriteString(`{
  "content": "engaging post content here",
  "hashtags": ["hashtag1", "hashtag2", "hashtag3", "hashtag4", "hashtag5"],
  "imagePrompt": "detailed visual description for an image generator"
}`)

	location := "Local area"
	if a.PrimaryLocation.City != "" {
		location = joinNonEmpty(", ", a.PrimaryLocation.City, a.PrimaryLocation.State)
	}
	emojis := "No emojis"
	if a.Emojis() {
		emojis = "Include relevant emojis"
	}

	fmt.Fprintf(&b, `

BUSINESS PROFILE:
- Company: %s
- Industry: %s
- Description: %s
- Target Audience: %s
- Brand Tone: %s
- Brand Personality: %s
- Products/Services: %s
- Expertise: %s
- Company Values: %s
- Client Types: %s
- Keywords: %s
- Color Scheme: %s
- Visual Style: %s
- Image Style: %s
- Location: %s
- Website: %s

LOCATION TARGETING:
%s

CONTENT REQUIREMENTS:
- Length: keep under %d characters
- %s
- Tone: %s
- Focus on: %s
- Include a clear call-to-action or engagement hook
- Use 5-8 strategic hashtags mixing branded, industry and location tags

IMAGE PROMPT REQUIREMENTS:
- Style: %s
- Colors: %s
- Visual elements: %s
- Describe visuals only, never repeat the post text, no text in the image
`,
		a.Name, a.Industry,
		or(a.Description, "Professional business"),
		or(a.TargetAudience, "General audience"),
		a.Tone,
		or(a.BrandPersonality, "professional and reliable"),
		or(a.Products, "professional services"),
		or(a.Expertise, "industry expertise"),
		or(a.CompanyValues, "quality and service"),
		or(a.ClientTypes, "businesses and individuals"),
		or(a.Keywords, "business, professional"),
		or(a.ColorScheme, "professional colors"),
		or(a.VisualStyle, "clean and professional"),
		a.ImageStyle,
		location,
		a.WebsiteURL,
		strings.TrimSpace(a.LocationContext()),
		a.TextLength,
		emojis,
		a.Tone,
		or(a.BlogTopics, "industry insights, tips, company updates, client success"),
		a.ImageStyle,
		or(a.ColorScheme, "professional colors"),
		or(a.DesignElements, "clean, modern design"),
	)

	if req.TrendingTopic != nil && req.TrendingTopic.Title != "" {
		fmt.Fprintf(&b, "\nCreate content about this trending topic: %q - %s\n", req.TrendingTopic.Title, req.TrendingTopic.Description)
		if len(req.TrendingTopic.Hashtags) > 0 {
			fmt.Fprintf(&b, "Use these hashtags: %s\n", strings.Join(req.TrendingTopic.Hashtags, ", "))
		}
	}
	if p := strings.TrimSpace(req.CustomPrompt); p != "" {
		fmt.Fprintf(&b, "\nAdditional requirements: %s\n", p)
	}

	if len(recent) > 0 {
		b.WriteString("\nEXISTING POSTS (learn from these patterns but create NEW content):\n")
		for i, p := range recent {
			fmt.Fprintf(&b, "%d. %q | Hashtags: %s\n", i+1, p.Content, strings.Join(p.Hashtags, ", "))
		}
	} else {
		b.WriteString("\nNo existing posts to analyze - create fresh, engaging content.\n")
	}
	b.WriteString("\nReturn ONLY the JSON object, no additional text or formatting.")
	return b.String()
}

const mediaStyleSuffix = " Professional photography style, high quality, commercial use, no text or logos."

// mediaPrompt builds the image/video prompt for a post.
func mediaPrompt(a model.Account, req PostRequest, suggested string) string {
	p := strings.TrimSpace(suggested)
	if p == "" {
		p = direction(a.Industry, a.Name).image
	}
	if c := strings.TrimSpace(req.CustomPrompt); c != "" {
		p += " Additional requirements: " + c
	}
	if req.TrendingTopic != nil && req.TrendingTopic.Title != "" {
		p += fmt.Sprintf(" Incorporate elements related to %s: %s", req.TrendingTopic.Title, req.TrendingTopic.Description)
	}
	return p + mediaStyleSuffix
}

func blogPrompt(a model.Account, keyword string) string {
	return fmt.Sprintf(`Create a comprehensive, SEO-optimized blog post for %[1]s, a %[2]s business.

BUSINESS CONTEXT:
- Company: %[1]s
- Industry: %[2]s
- Description: %[3]s
- Website: %[4]s
- Target Audience: %[5]s
- Brand Tone: %[6]s
- Products/Services: %[7]s
- Expertise: %[8]s

SEO REQUIREMENTS:
- Primary Target Keyword: %[9]q
- Word Count: 1500-2500 words
- Proper heading structure (H1, H2, H3) in markdown
- Natural keyword integration with related terms and long-tail variations
- Keyword density of 1-2%%

CONTENT STRUCTURE:
1. Compelling title that includes the target keyword
2. Engaging introduction
3. Well-structured body with clear headings
4. Actionable insights and practical advice
5. Strong conclusion with a call-to-action

Return the blog post in the following JSON format:
{
  "title": "SEO-optimized blog title with target keyword",
  "metaTitle": "Meta title (50-60 characters) with target keyword",
  "metaDescription": "Compelling meta description (150-160 characters) with target keyword",
  "content": "Full blog post content with proper markdown formatting",
  "secondaryKeywords": ["related keyword 1", "related keyword 2", "related keyword 3", "related keyword 4", "related keyword 5"],
  "slug": "url-friendly-slug-with-target-keyword"
}

Establish %[1]s as an authority in %[2]s and address common pain points of its audience.

Return ONLY the JSON object with no additional formatting or text.`,
		a.Name, a.Industry,
		or(a.Description, "Professional services company"),
		a.WebsiteURL,
		or(a.TargetAudience, "Business professionals"),
		a.Tone,
		or(a.Products, "Professional services"),
		or(a.Expertise, "Industry expertise"),
		keyword,
	)
}

func keywordPrompt(a model.Account) string {
	return fmt.Sprintf(`Analyze SEO keywords for %[1]s, a %[2]s business.

BUSINESS CONTEXT:
- Company: %[1]s
- Industry: %[2]s
- Description: %[3]s
- Website: %[4]s
- Target Audience: %[5]s
- Products/Services: %[6]s
- Expertise: %[7]s

LOCATION CONTEXT:
%[8]s

ANALYSIS REQUIREMENTS:
1. Identify 5-8 keywords they're likely currently ranking for
2. Find 8-12 keyword opportunities they should target
3. Include local SEO keywords based on their service locations
4. Consider search volume, difficulty, and user intent
5. Include location-specific variations like "[service] in [city]", "[service] near me"

Return the analysis in this exact JSON format:
{
  "currentRankings": [
    {"keyword": "keyword phrase", "position": 15, "searchVolume": 1200, "difficulty": "Medium"}
  ],
  "opportunities": [
    {"keyword": "keyword phrase", "searchVolume": 800, "difficulty": "Low", "intent": "informational", "localVariations": ["keyword + city", "keyword near me"]}
  ],
  "competitorGaps": [
    {"keyword": "keyword phrase", "competitors": ["competitor1.com", "competitor2.com"], "opportunity": "High"}
  ]
}

Return ONLY the JSON object with no additional formatting or text.`,
		a.Name, a.Industry,
		or(a.Description, "Professional services company"),
		a.WebsiteURL,
		or(a.TargetAudience, "Business professionals"),
		or(a.Products, "Professional services"),
		or(a.Expertise, "Industry expertise"),
		strings.TrimSpace(a.LocationContext()),
	)
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
