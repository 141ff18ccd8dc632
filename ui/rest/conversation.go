package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AzielCF/az-inbox/inbox/application"
	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	pkgError "github.com/AzielCF/az-inbox/pkg/error"
	"github.com/AzielCF/az-inbox/pkg/utils"
	"github.com/AzielCF/az-inbox/ui/rest/middleware"
	"github.com/AzielCF/az-inbox/validations"
)

type Conversation struct {
	Service *application.Service
}

func InitRestConversation(app fiber.Router, service *application.Service) Conversation {
	rest := Conversation{Service: service}
	app.Get("/conversations", rest.List)
	app.Get("/conversations/:conversation_id/messages", rest.Messages)
	app.Post("/conversations/:conversation_id/reply", rest.Reply)
	app.Post("/conversations/:conversation_id/reset-bot", rest.ResetBot)
	app.Delete("/conversations/:conversation_id", rest.Delete)
	app.Post("/send", rest.Send)
	return rest
}

func conversationIDParam(c *fiber.Ctx) int64 {
	id, err := strconv.ParseInt(c.Params("conversation_id"), 10, 64)
	if err != nil || id <= 0 {
		panic(pkgError.ValidationError("conversation_id must be a positive integer"))
	}
	return id
}

func (controller *Conversation) List(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)

	summaries, err := controller.Service.ListConversations(c.UserContext(), tenant)
	utils.PanicIfNeeded(wrapInboxErr(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch conversations",
		Results: summaries,
	})
}

func (controller *Conversation) Messages(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	conversationID := conversationIDParam(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			panic(pkgError.ValidationError("limit must be a positive integer"))
		}
		limit = parsed
	}

	var beforeID int64
	if raw := c.Query("beforeId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			panic(pkgError.ValidationError("beforeId must be a positive integer"))
		}
		beforeID = parsed
	}

	page, err := controller.Service.GetMessages(c.UserContext(), tenant, conversationID, limit, beforeID)
	utils.PanicIfNeeded(wrapInboxErr(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch messages",
		Results: page,
	})
}

func (controller *Conversation) Reply(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	conversationID := conversationIDParam(c)

	var request inboxDomain.ReplyRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateReply(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	msg, err := controller.Service.Reply(c.UserContext(), tenant, conversationID, request.Text, request.MediaURL)
	utils.PanicIfNeeded(wrapInboxErr(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success send reply",
		Results: msg,
	})
}

func (controller *Conversation) ResetBot(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	conversationID := conversationIDParam(c)

	conv, err := controller.Service.ResetBot(c.UserContext(), tenant, conversationID)
	utils.PanicIfNeeded(wrapInboxErr(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Conversation returned to bot",
		Results: conv,
	})
}

func (controller *Conversation) Delete(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	conversationID := conversationIDParam(c)

	err := controller.Service.Delete(c.UserContext(), tenant, conversationID)
	utils.PanicIfNeeded(wrapInboxErr(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Conversation deleted",
	})
}

func (controller *Conversation) Send(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)

	var request inboxDomain.SendRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateSend(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	utils.SanitizePhone(&request.Phone)

	conv, msg, err := controller.Service.SendToPhone(c.UserContext(), tenant, request.Phone, request.Message)
	utils.PanicIfNeeded(wrapInboxErr(err))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success send message",
		Results: fiber.Map{
			"conversation": conv,
			"message":      msg,
		},
	})
}
