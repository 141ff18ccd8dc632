package flows

import (
	"context"

	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	tenantDomain "github.com/AzielCF/az-inbox/tenants/domain"
)

const welcomeMessage = "Hola, mucho gusto. Gracias por escribirnos. \n" +
	"Actualmente estamos trabajando en el canal de WhatsApp por lo que podemos demorarnos en contestar.\n" +
	"También puedes escribirnos por instagram (@crunchypawsgt), facebook (Cruchy paws) o al WhatssApp +50258569667"

// WelcomeFlow responde con un mensaje de bienvenida a todo mensaje entrante
// y deja la conversación en modo BOT. El cambio a HUMAN solo ocurre cuando un
// operador responde desde el inbox. Es el flow por defecto para tenants sin
// variante propia.
type WelcomeFlow struct {
	deps Deps
}

func NewWelcomeFlow(deps Deps) *WelcomeFlow {
	return &WelcomeFlow{deps: deps}
}

func (f *WelcomeFlow) Handle(ctx context.Context, in *inboxDomain.Inbound, conv *inboxDomain.Conversation, tenant *tenantDomain.Tenant) error {
	return f.deps.sendAndSave(ctx, tenant, conv, welcomeMessage)
}
