package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// discordMessageLimit is the maximum content length Discord accepts per message
const discordMessageLimit = 2000

// ChannelMessenger is the part of a discordgo session the sink needs
type ChannelMessenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSink posts rendered feeds to a Discord channel
type DiscordSink struct {
	messenger ChannelMessenger
	channelID string
}

// NewDiscordSink creates a sink posting to channelID
func NewDiscordSink(messenger ChannelMessenger, channelID string) *DiscordSink {
	return &DiscordSink{
		messenger: messenger,
		channelID: channelID,
	}
}

// NewDiscordSession opens a bot session for the sink
func NewDiscordSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return session, nil
}

// Render posts the feed as one or more code-block messages, splitting at line boundaries
func (s *DiscordSink) Render(ctx context.Context, username string, lines []string) error {
	header := fmt.Sprintf("**Feed for %s**", username)
	if len(lines) == 0 {
		return s.send(ctx, header+"\n_No activity yet_")
	}

	for i, chunk := range chunkLines(lines, discordMessageLimit-len(header)-16) {
		content := "```\n" + strings.Join(chunk, "\n") + "\n```"
		if i == 0 {
			content = header + "\n" + content
		}
		if err := s.send(ctx, content); err != nil {
			return err
		}
	}
	return nil
}

func (s *DiscordSink) send(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := s.messenger.ChannelMessageSend(s.channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send feed to channel %s: %w", s.channelID, err)
	}
	log.WithFields(log.Fields{
		"channelID": s.channelID,
		"messageID": msg.ID,
	}).Debug("Posted feed to Discord")
	return nil
}

// chunkLines groups lines so that each group joined by newlines stays within limit.
// A single line longer than limit is truncated on a rune boundary.
func chunkLines(lines []string, limit int) [][]string {
	var chunks [][]string
	var current []string
	size := 0
	for _, line := range lines {
		line = truncateUTF8(line, limit)
		if size > 0 && size+1+len(line) > limit {
			chunks = append(chunks, current)
			current = nil
			size = 0
		}
		if size > 0 {
			size++
		}
		size += len(line)
		current = append(current, line)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
