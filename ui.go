package careermentor

import (
	"context"
	"sync"
)

// UI is the chat front end a session renders into. Implementations only need
// to eventually render what they are given.
type UI interface {
	// Send posts a new message.
	Send(ctx context.Context, content string) error
	// StreamToken appends a token to the message being streamed.
	StreamToken(ctx context.Context, token string) error
	// Update replaces the content of the message being streamed.
	Update(ctx context.Context, content string) error
}

// ChannelUI turns presentation calls into Responses on a channel, for front
// ends that render from their own event loop.
type ChannelUI struct {
	out       chan Response
	closeOnce sync.Once
}

var _ UI = &ChannelUI{}

func NewChannelUI(buffer int) *ChannelUI {
	return &ChannelUI{out: make(chan Response, buffer)}
}

// Out returns the channel the responses are delivered on.
func (u *ChannelUI) Out() <-chan Response {
	return u.out
}

func (u *ChannelUI) Send(ctx context.Context, content string) error {
	return u.push(ctx, Response{Content: content, Type: ResponseTypeMessage})
}

func (u *ChannelUI) StreamToken(ctx context.Context, token string) error {
	return u.push(ctx, Response{Content: token, Type: ResponseTypePartialText})
}

func (u *ChannelUI) Update(ctx context.Context, content string) error {
	return u.push(ctx, Response{Content: content, Type: ResponseTypeUpdate})
}

// Finish reports the outcome of a turn and closes the channel.
func (u *ChannelUI) Finish(ctx context.Context, result TurnResult) error {
	defer u.Close()
	if result.Err != nil {
		return u.push(ctx, Response{Content: result.Err.Error(), Type: ResponseTypeError})
	}
	return u.push(ctx, Response{Content: result.Agent.Name(), Type: ResponseTypeEnd})
}

func (u *ChannelUI) Close() {
	u.closeOnce.Do(func() {
		close(u.out)
	})
}

func (u *ChannelUI) push(ctx context.Context, response Response) error {
	select {
	case u.out <- response:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
