package domain

import "strings"

// Placeholders para mensajes entrantes sin texto. El cuerpo persistido nunca
// queda vacío.
const (
	PlaceholderImage    = "[Imagen]"
	PlaceholderLocation = "[Ubicación]"
	PlaceholderNoText   = "[Sin texto]"
)

// Inbound es el payload normalizado de un mensaje entrante del webhook.
type Inbound struct {
	From       string
	Body       string
	MessageSID string
	MediaURL   *string
	MediaType  *string
	Latitude   *float64
	Longitude  *float64
}

// HasLocation indica si el mensaje trae coordenadas completas.
func (in *Inbound) HasLocation() bool {
	return in.Latitude != nil && in.Longitude != nil
}

// DisplayBody retorna el cuerpo a persistir: el texto del mensaje, o un
// placeholder cuando solo trae media o ubicación.
func (in *Inbound) DisplayBody() string {
	if body := strings.TrimSpace(in.Body); body != "" {
		return body
	}
	if in.MediaURL != nil {
		return PlaceholderImage
	}
	if in.HasLocation() {
		return PlaceholderLocation
	}
	return PlaceholderNoText
}
