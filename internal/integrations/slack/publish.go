package slackbot

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/slack-go/slack"
)

// maxMessageChars keeps each post well under Slack's text limit.
const maxMessageChars = 3500

// Client is the subset of *slack.Client used for publishing.
type Client interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	UploadFileV2(params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

// PublishReport posts the Markdown report to channelID as mrkdwn, split into
// several messages when needed. When filePath is set the rendered file is
// attached as well.
func PublishReport(api Client, channelID, title, markdown, filePath string) error {
	if strings.TrimSpace(channelID) == "" {
		return fmt.Errorf("report channel is not configured")
	}
	chunks := splitMessage(MarkdownToMrkdwn(markdown), maxMessageChars)
	for i, chunk := range chunks {
		if _, _, err := api.PostMessage(channelID, slack.MsgOptionText(chunk, false)); err != nil {
			return fmt.Errorf("posting report part %d/%d: %w", i+1, len(chunks), err)
		}
	}
	log.Printf("slack report posted channel=%s parts=%d", channelID, len(chunks))

	if filePath == "" {
		return nil
	}
	fi, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("reading report file: %w", err)
	}
	if fi.Size() <= 0 {
		return fmt.Errorf("report file is empty: %s", filePath)
	}
	_, err = api.UploadFileV2(slack.UploadFileV2Parameters{
		File:     filePath,
		FileSize: int(fi.Size()),
		Filename: filepath.Base(filePath),
		Channel:  channelID,
		Title:    title,
	})
	if err != nil {
		return fmt.Errorf("uploading report file: %w", err)
	}
	log.Printf("slack report uploaded channel=%s file=%s", channelID, filePath)
	return nil
}

var (
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	headingRe = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	tableSep  = regexp.MustCompile(`^\|?\s*:?-{3,}`)
)

// MarkdownToMrkdwn converts the subset of Markdown the report uses into
// Slack mrkdwn. Tables are kept aligned inside code blocks.
func MarkdownToMrkdwn(md string) string {
	lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")
	var out []string
	inTable := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		isTableRow := strings.HasPrefix(trimmed, "|")
		if isTableRow != inTable {
			out = append(out, "```")
			inTable = isTableRow
		}
		if isTableRow {
			if !tableSep.MatchString(trimmed) {
				out = append(out, trimmed)
			}
			continue
		}
		if trimmed == "---" {
			out = append(out, "")
			continue
		}
		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			line = "*" + strings.ReplaceAll(m[1], "**", "") + "*"
		} else {
			line = boldRe.ReplaceAllString(line, "*$1*")
			if strings.HasPrefix(trimmed, "- ") {
				line = strings.Replace(line, "- ", "• ", 1)
			}
		}
		line = linkRe.ReplaceAllString(line, "<$2|$1>")
		out = append(out, line)
	}
	if inTable {
		out = append(out, "```")
	}
	return strings.TrimSpace(collapseBlankLines(out))
}

func collapseBlankLines(lines []string) string {
	var b strings.Builder
	prevBlank := false
	for _, l := range lines {
		blank := strings.TrimSpace(l) == ""
		if blank && prevBlank {
			continue
		}
		prevBlank = blank
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

// splitMessage cuts text at line boundaries so no part exceeds limit. Code
// fences are closed and reopened across parts.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	inCode := false
	for _, line := range strings.Split(text, "\n") {
		if cur.Len()+len(line)+1 > limit-4 && cur.Len() > 0 {
			if inCode {
				cur.WriteString("```")
			}
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			if inCode {
				cur.WriteString("```\n")
			}
		}
		if line == "```" {
			inCode = !inCode
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		parts = append(parts, strings.TrimRight(cur.String(), "\n"))
	}
	return parts
}
