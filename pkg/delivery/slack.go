// Package delivery sends rendered reports to their recipients over Slack
// and email. Credentials come in through constructors; nothing here reads
// the environment.
package delivery

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackSender posts a report as a sequence of Markdown section blocks.
type SlackSender struct {
	client *slack.Client
}

func NewSlackSender(token string) *SlackSender {
	return &SlackSender{client: slack.New(token)}
}

// Send posts the report parts to the channel, one section block per part
// with dividers between them. Parts are pre-split to stay under Slack's
// 3000-character section limit.
func (s *SlackSender) Send(ctx context.Context, channel string, parts []string) error {
	var blocks []slack.Block
	for i, part := range parts {
		if i != 0 {
			blocks = append(blocks, slack.NewDividerBlock())
		}
		text := slack.NewTextBlockObject(slack.MarkdownType, part, false, false)
		blocks = append(blocks, slack.NewSectionBlock(text, nil, nil))
	}

	_, _, err := s.client.PostMessageContext(ctx, "#"+channel, slack.MsgOptionBlocks(blocks...))
	if err != nil {
		return fmt.Errorf("failed to post to slack channel #%s: %w", channel, err)
	}
	return nil
}
