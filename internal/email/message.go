package email

import (
	"fmt"
	"html"
)

type message struct {
	Subject string
	Heading string
	Intro   string
	Action  string
	Link    string
	Outro   string
}

func (m message) HTML() string {
	link := html.EscapeString(m.Link)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.button { display: inline-block; padding: 12px 24px; background-color: #3b82f6; color: white; text-decoration: none; border-radius: 6px; margin: 20px 0; }
	</style>
</head>
<body>
	<div class="container">
		<h1>%s</h1>
		<p>%s</p>
		<a href="%s" class="button">%s</a>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all; color: #666;">%s</p>
		<p>%s</p>
		<hr>
		<p style="color: #999; font-size: 12px;">This is an automated message from SocialSimple.</p>
	</div>
</body>
</html>`,
		html.EscapeString(m.Heading), html.EscapeString(m.Intro), link,
		html.EscapeString(m.Action), link, html.EscapeString(m.Outro))
}

func (m message) Text() string {
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s\n\nThis is an automated message from SocialSimple.\n",
		m.Heading, m.Intro, m.Link, m.Outro)
}
