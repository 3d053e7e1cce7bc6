// Package publish posts a generated workbook to a Discord channel.
package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/danielholmes839/attendance-list/internal/calendar"
	"github.com/danielholmes839/attendance-list/internal/layout"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	displayDate     = "02.01.2006"
)

type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Publisher struct {
	Sender    Sender
	ChannelID string
	Logger    *slog.Logger
}

func NewDiscordPublisher(token, channelID string, logger *slog.Logger) (*Publisher, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		Sender:    dg,
		ChannelID: channelID,
		Logger:    logger,
	}, nil
}

// Publish uploads the workbook at path with a short summary of its sheets.
func (p *Publisher) Publish(ctx context.Context, path string, workbook io.Reader, primary calendar.DateRange, extra *calendar.DateRange, sheets []layout.Sheet) error {
	msg := &discordgo.MessageSend{
		Content: FormatSummary(primary, extra, sheets),
		Files: []*discordgo.File{
			{
				Name:        filepath.Base(path),
				ContentType: xlsxContentType,
				Reader:      workbook,
			},
		},
	}

	_, err := p.Sender.ChannelMessageSendComplex(p.ChannelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send %s to channel %s: %w", path, p.ChannelID, err)
	}

	if p.Logger != nil {
		p.Logger.Info("published workbook", "path", path, "channel", p.ChannelID)
	}
	return nil
}

func FormatSummary(primary calendar.DateRange, extra *calendar.DateRange, sheets []layout.Sheet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Attendance list %s – %s\n", primary.Start.Format(displayDate), primary.End.Format(displayDate)))
	if extra != nil {
		sb.WriteString(fmt.Sprintf("Extra practices %s – %s\n", extra.Start.Format(displayDate), extra.End.Format(displayDate)))
	}
	sb.WriteString("\n")

	for _, s := range sheets {
		counts := calendar.Count(s.Layout.Sessions)
		practices := counts[calendar.RegularPractice] + counts[calendar.ExtraPractice]

		sb.WriteString(fmt.Sprintf("%s: %d players, %d practices, %d games\n", s.Name, s.Layout.PersonCount, practices, counts[calendar.Game]))
	}

	return sb.String()
}
