package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ai-digest-be/internal/dto"
	"ai-digest-be/internal/pkg/serverutils"
	"ai-digest-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
	ListConversations(ctx *fiber.Ctx) error
	ShowMessages(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Stream)
	h.Get("conversations", c.ListConversations)
	h.Get("conversations/:id/messages", c.ShowMessages)
	h.Delete("conversations/:id", c.DeleteConversation)
}

// Stream answers a chat request as a server-sent event stream. Events are
// written as they are produced; the first byte reaching the client means the
// status line is already committed, so later failures arrive as error events
// rather than HTTP statuses.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	// The fiber context is recycled once the handler returns; everything the
	// stream writer needs is captured before that.
	streamCtx := context.Background()
	chatService := c.chatService

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emit := func(event *dto.ChatEvent) error {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return err
			}
			// Flush per event so the client sees tokens as they arrive. A
			// flush error means the client went away; the producer stops.
			return w.Flush()
		}

		_ = chatService.StreamChat(streamCtx, &req, emit)
	}))

	return nil
}

func (c *chatController) ListConversations(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetConversations(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *chatController) ShowMessages(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	res, err := c.chatService.GetMessages(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	if err := c.chatService.DeleteConversation(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversation", nil))
}
