package domain

import "strconv"

// ReplyRequest es el cuerpo de la respuesta de un operador. MediaURL es
// opcional; el proveedor descarga la imagen desde esa URL pública.
type ReplyRequest struct {
	Text     string `json:"text"`
	MediaURL string `json:"mediaUrl"`
}

// SendRequest inicia una conversación desde el inbox hacia un número.
type SendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// WebhookPayload es el form-encode que manda Twilio al webhook. Todos los
// campos llegan como texto; ToInbound hace el parseo numérico.
type WebhookPayload struct {
	From              string `form:"From"`
	Body              string `form:"Body"`
	NumMedia          string `form:"NumMedia"`
	MediaUrl0         string `form:"MediaUrl0"`
	MediaContentType0 string `form:"MediaContentType0"`
	Latitude          string `form:"Latitude"`
	Longitude         string `form:"Longitude"`
	MessageSid        string `form:"MessageSid"`
}

// ToInbound normaliza el payload crudo del webhook.
func (p *WebhookPayload) ToInbound() *Inbound {
	in := &Inbound{
		From:       p.From,
		Body:       p.Body,
		MessageSID: p.MessageSid,
	}

	if numMedia, err := strconv.Atoi(p.NumMedia); err == nil && numMedia > 0 && p.MediaUrl0 != "" {
		mediaURL := p.MediaUrl0
		in.MediaURL = &mediaURL
		if p.MediaContentType0 != "" {
			mediaType := p.MediaContentType0
			in.MediaType = &mediaType
		}
	}

	if p.Latitude != "" && p.Longitude != "" {
		lat, latErr := strconv.ParseFloat(p.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(p.Longitude, 64)
		if latErr == nil && lonErr == nil {
			in.Latitude = &lat
			in.Longitude = &lon
		}
	}

	return in
}
