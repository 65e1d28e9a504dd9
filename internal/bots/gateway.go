package bots

import (
	"context"
	"regexp"
	"strings"
)

// MessageHandler processes incoming messages and produces responses.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error)
}

// Gateway cleans platform markup out of incoming text and routes the
// message to a handler.
type Gateway struct {
	handler MessageHandler
}

func NewGateway(handler MessageHandler) *Gateway {
	return &Gateway{handler: handler}
}

// Slack user/channel mentions (<@U123>, <#C1|name>, <!here>) and Teams
// <at>Name</at> tags.
var mentionRE = regexp.MustCompile(`<[@#!][^>]*>|<at>[^<]*</at>`)

// Process strips mentions from the text so a bot id never reads as a day
// number, then hands the message over. Replies default to the message's
// channel and thread.
func (g *Gateway) Process(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	msg.Text = strings.Join(strings.Fields(mentionRE.ReplaceAllString(msg.Text, " ")), " ")

	resp, err := g.handler.HandleMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	if resp.ChannelID == "" {
		resp.ChannelID = msg.ChannelID
	}
	if resp.ThreadID == "" {
		resp.ThreadID = msg.ThreadID
	}
	return resp, nil
}
