package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskflow/backend/api/transport"
	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/pkg/httpcontext"
	chatbotUC "github.com/taskflow/backend/usecase/chatbot"
)

type ChatbotHandler struct {
	baseHandler
	uc *chatbotUC.UseCase
}

func NewChatbotHandler(uc *chatbotUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Interpret a chatbot message
// @Tags chatbot
// @Router /api/v1/chatbot [post]
func (h *ChatbotHandler) Interpret(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ChatbotRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondChat(ctx, http.StatusBadRequest, transport.ChatReply{Error: "invalid payload"})
		return
	}

	intent, err := chatbotUC.ParseAction(req.Action)
	if err != nil {
		h.respondChat(ctx, http.StatusBadRequest, transport.ChatReply{Error: "invalid action"})
		return
	}

	ucReq := chatbotUC.Request{
		Intent:  intent,
		Message: req.Message,
		UserID:  userID,
		Source:  req.Source,
	}
	if req.Data != nil {
		ucReq.Title = req.Data.Title
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Interpret(stdCtx, ucReq)
	if err != nil {
		h.respondChatError(ctx, err)
		return
	}
	h.respondChat(ctx, http.StatusOK, replyFromResult(result))
}

// @Summary Receive a message from the external channel
// @Tags chatbot
// @Router /api/v1/channel/webhook [post]
func (h *ChatbotHandler) ChannelWebhook(ctx *fasthttp.RequestCtx) {
	var msg transport.ChannelMessage
	if err := json.Unmarshal(ctx.PostBody(), &msg); err != nil || msg.UserID == "" || msg.Message == "" {
		h.respondChat(ctx, http.StatusBadRequest, transport.ChatReply{Error: "invalid payload"})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Interpret(stdCtx, chatbotUC.Request{
		Intent:  chatbotUC.IntentFreeText,
		Message: msg.Message,
		UserID:  msg.UserID,
		Source:  domain.SourceChannel,
	})
	if err != nil {
		h.respondChatError(ctx, err)
		return
	}
	h.respondChat(ctx, http.StatusOK, replyFromResult(result))
}

func (h *ChatbotHandler) respondChat(ctx *fasthttp.RequestCtx, status int, reply transport.ChatReply) {
	h.respondRaw(ctx, status, reply)
}

func (h *ChatbotHandler) respondChatError(ctx *fasthttp.RequestCtx, err error) {
	status, _ := mapError(err)
	reply := transport.ChatReply{Error: err.Error()}
	if status == http.StatusInternalServerError {
		reply.Error = "server error"
		h.logger.Error("chatbot dispatch failed", zap.Error(err))
	}
	h.respondChat(ctx, status, reply)
}

func replyFromResult(result *chatbotUC.Result) transport.ChatReply {
	return transport.ChatReply{
		Success:     true,
		Message:     result.Reply,
		Intent:      result.Intent.String(),
		Task:        result.Task,
		Tasks:       result.Tasks,
		Enhancement: result.Enhancement,
	}
}
