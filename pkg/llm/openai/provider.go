package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ai-digest-be/internal/pkg/apperror"
	"ai-digest-be/pkg/llm"

	"github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model string) (llm.LLMProvider, error) {
	if apiKey == "" {
		return nil, &apperror.ConfigurationError{Setting: "OPENAI_API_KEY"}
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (p *OpenAIProvider) buildRequest(history []llm.Message, options ...llm.Option) openai.ChatCompletionRequest {
	opts := llm.Options{Model: p.model}
	for _, o := range options {
		o(&opts)
	}
	if opts.Model == "" {
		opts.Model = p.model
	}

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return openai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	rsp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(history, options...))
	if err != nil {
		return "", &apperror.UpstreamError{Provider: "openai-chat", Err: err}
	}

	if len(rsp.Choices) == 0 {
		return "", &apperror.UpstreamError{Provider: "openai-chat", Err: fmt.Errorf("empty completion response")}
	}

	return rsp.Choices[0].Message.Content, nil
}

// ChatStream consumes the provider's delta stream and forwards each chunk to
// onDelta without buffering. An onDelta error (the consumer closed) stops
// consumption; the upstream call is stateless so no cleanup beyond Close.
func (p *OpenAIProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta llm.StreamHandler, options ...llm.Option) (string, error) {
	req := p.buildRequest(history, options...)
	req.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", &apperror.UpstreamError{Provider: "openai-chat", Err: err}
	}
	defer stream.Close()

	var full string
	for {
		rsp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full, &apperror.UpstreamError{Provider: "openai-chat", Err: err}
		}

		if len(rsp.Choices) == 0 {
			continue
		}

		delta := rsp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		full += delta
		if err := onDelta(delta); err != nil {
			return full, err
		}
	}

	return full, nil
}
