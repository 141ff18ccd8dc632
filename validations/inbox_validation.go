package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	inboxDomain "github.com/AzielCF/az-inbox/inbox/domain"
	pkgError "github.com/AzielCF/az-inbox/pkg/error"
)

func ValidateWebhookPayload(ctx context.Context, request inboxDomain.WebhookPayload) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.From, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateReply(ctx context.Context, request inboxDomain.ReplyRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Text, validation.Required, validation.Length(1, 1600)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateSend(ctx context.Context, request inboxDomain.SendRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Phone, validation.Required),
		validation.Field(&request.Message, validation.Required, validation.Length(1, 1600)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
