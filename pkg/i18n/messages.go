// Package i18n resolves user-facing message keys to localized text.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys known to the API.
const (
	EmailInvalid           = "email.invalid"
	EmailAlreadyRegistered = "email.already_registered"
	ErrorUnexpected        = "error.unexpected"
	RequestInvalidPayload  = "request.invalid_payload"
	AuthMissingToken       = "auth.missing_token"
	AuthInvalidToken       = "auth.invalid_token"
	AuthSessionNotFound    = "auth.session_not_found"
	UserNotFound           = "user.not_found"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		EmailInvalid:           "The email format is invalid",
		EmailAlreadyRegistered: "The email is already registered",
		ErrorUnexpected:        "An unexpected error occurred",
		RequestInvalidPayload:  "Invalid request payload",
		AuthMissingToken:       "Missing bearer token",
		AuthInvalidToken:       "Invalid or expired token",
		AuthSessionNotFound:    "Session not found",
		UserNotFound:           "User not found",
	},
	language.Spanish: {
		EmailInvalid:           "El formato del correo es inválido",
		EmailAlreadyRegistered: "El correo ya registrado",
		ErrorUnexpected:        "Ocurrió un error inesperado",
		RequestInvalidPayload:  "Solicitud inválida",
		AuthMissingToken:       "Falta el token de acceso",
		AuthInvalidToken:       "Token inválido o expirado",
		AuthSessionNotFound:    "Sesión no encontrada",
		UserNotFound:           "Usuario no encontrado",
	},
}

// Catalog looks messages up for a single locale. Unknown keys resolve to the key itself.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a catalog for locale, falling back to English for unsupported locales.
func New(locale string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			_ = b.SetString(tag, key, text)
		}
	}

	tag, _, _ := b.Matcher().Match(language.Make(locale))
	base, _ := tag.Base()
	tag = language.Make(base.String())

	return &Catalog{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b))}
}

// Language is the locale actually in use after matching.
func (c *Catalog) Language() language.Tag { return c.tag }

func (c *Catalog) Message(key string) string {
	return c.printer.Sprintf(key)
}
