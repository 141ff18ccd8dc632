package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AzielCF/az-inbox/inbox/application"
	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	"github.com/AzielCF/az-inbox/pkg/utils"
	"github.com/AzielCF/az-inbox/ui/rest/middleware"
	"github.com/AzielCF/az-inbox/validations"
)

type Webhook struct {
	Router *application.Router
}

func InitRestWebhook(app fiber.Router, router *application.Router) Webhook {
	rest := Webhook{Router: router}
	app.Post("/whatsapp", rest.Receive)
	return rest
}

// Receive procesa el webhook de mensajes entrantes de Twilio. Siempre
// responde 200 sobre un payload válido: los fallos de envío o de flow nunca
// provocan reintentos del proveedor.
func (controller *Webhook) Receive(c *fiber.Ctx) error {
	var request inboxDomain.WebhookPayload
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateWebhookPayload(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	tenant := middleware.TenantFromCtx(c)

	err = controller.Router.Route(c.UserContext(), tenant, request.ToInbound())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message received",
	})
}
