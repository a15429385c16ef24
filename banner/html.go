package banner

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Content is the copy placed on every banner.
type Content struct {
	Headline string `json:"headline"`
	Body     string `json:"body_text"`
	CTA      string `json:"cta_text"`
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Document renders the animated HTML banner for s. imageURL may be empty or a
// data URL; the container gradient shows through when it is missing.
func Document(s Size, imageURL string, c Content) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		l := LayoutFor(s)

		overlay := "flex-direction: column; justify-content: space-between;"
		content := "flex-grow: 1; display: flex; flex-direction: column; justify-content: center;"
		nowrap := ""
		cta := "align-self: flex-start;"
		bodyMargin := px(math.Max(4, float64(s.Height)*0.03))
		if l.Small {
			overlay = "flex-direction: row; align-items: center;"
			content = "flex: 1; margin-right: 8px;"
			nowrap = "white-space: nowrap; overflow: hidden; text-overflow: ellipsis;"
			cta = "flex-shrink: 0; white-space: nowrap;"
			bodyMargin = "0"
		}
		bg := ""
		if imageURL != "" {
			bg = fmt.Sprintf("background-image: url('%s');", strings.ReplaceAll(imageURL, "'", "%27"))
		}

		_, err := fmt.Fprintf(w, documentTemplate,
			px(float64(s.Width)), px(float64(s.Height)),
			bg,
			overlay, px(l.Padding), px(math.Max(4, l.Padding/2)),
			content,
			px(l.HeadlineSize), px(math.Max(2, float64(s.Height)*0.02)), nowrap,
			px(l.BodySize), bodyMargin, nowrap,
			px(math.Max(4, l.CTAHeight*0.2)), px(math.Max(8, l.CTAWidth*0.12)), px(l.CTASize), cta,
			px(l.CTAWidth), px(l.CTAHeight),
			templ.EscapeString(c.Headline), templ.EscapeString(c.Body), templ.EscapeString(c.CTA),
		)
		return err
	})
}

// HTML renders Document into a string.
func HTML(ctx context.Context, s Size, imageURL string, c Content) (string, error) {
	var b strings.Builder
	if err := Document(s, imageURL, c).Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
.banner-container {
    width: %s;
    height: %s;
    position: relative;
    overflow: hidden;
    cursor: pointer;
    font-family: 'Inter', Arial, sans-serif;
    border-radius: 6px;
    box-shadow: 0 4px 20px rgba(0,0,0,0.15);
    transition: all 0.4s cubic-bezier(0.4, 0, 0.2, 1);
    background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
}
.banner-container:hover {
    transform: translateY(-2px) scale(1.02);
    box-shadow: 0 8px 30px rgba(0,0,0,0.25);
}
.banner-bg {
    width: 100%%;
    height: 100%%;
    %s
    background-size: cover;
    background-position: center;
    opacity: 0.85;
    transition: opacity 0.4s ease;
}
.banner-container:hover .banner-bg { opacity: 0.95; }
.banner-overlay {
    position: absolute;
    top: 0; left: 0; right: 0; bottom: 0;
    background: linear-gradient(135deg, rgba(0,0,0,0.5) 0%%, rgba(0,0,0,0.3) 50%%, rgba(0,0,0,0.7) 100%%);
    display: flex;
    %s
    padding: %s;
    color: white;
    gap: %s;
}
.banner-content { %s }
.banner-headline {
    font-size: %s;
    font-weight: 700;
    line-height: 1.1;
    margin-bottom: %s;
    text-shadow: 2px 2px 4px rgba(0,0,0,0.8);
    animation: slideInLeft 0.8s ease-out;
    opacity: 0;
    animation-fill-mode: forwards;
    %s
}
.banner-body {
    font-size: %s;
    font-weight: 400;
    line-height: 1.2;
    margin-bottom: %s;
    text-shadow: 1px 1px 3px rgba(0,0,0,0.7);
    animation: slideInLeft 0.8s ease-out 0.2s;
    opacity: 0;
    animation-fill-mode: forwards;
    %s
}
.banner-cta {
    background: linear-gradient(135deg, #ff6b6b 0%%, #ee5a24 100%%);
    color: white;
    border: none;
    padding: %s %s;
    border-radius: 20px;
    font-size: %s;
    font-weight: 600;
    text-transform: uppercase;
    letter-spacing: 0.3px;
    cursor: pointer;
    transition: all 0.3s cubic-bezier(0.4, 0, 0.2, 1);
    box-shadow: 0 3px 12px rgba(255, 107, 107, 0.4);
    %s
    animation: slideInUp 0.8s ease-out 0.4s;
    opacity: 0;
    animation-fill-mode: forwards;
    position: relative;
    overflow: hidden;
    min-width: %s;
    height: %s;
    display: flex;
    align-items: center;
    justify-content: center;
}
.banner-cta:hover {
    transform: translateY(-1px);
    box-shadow: 0 5px 18px rgba(255, 107, 107, 0.6);
    background: linear-gradient(135deg, #ff5252 0%%, #d63031 100%%);
}
.banner-container:hover .banner-cta { animation: pulse 1.5s infinite; }
@keyframes slideInLeft {
    from { opacity: 0; transform: translateX(-20px); }
    to { opacity: 1; transform: translateX(0); }
}
@keyframes slideInUp {
    from { opacity: 0; transform: translateY(15px); }
    to { opacity: 1; transform: translateY(0); }
}
@keyframes pulse {
    0%%, 100%% { transform: scale(1); }
    50%% { transform: scale(1.03); }
}
</style>
</head>
<body>
<div class="banner-container">
    <div class="banner-bg"></div>
    <div class="banner-overlay">
        <div class="banner-content">
            <div class="banner-headline">%s</div>
            <div class="banner-body">%s</div>
        </div>
        <button class="banner-cta">%s</button>
    </div>
</div>
</body>
</html>
`
