package templates

import (
	"fmt"

	"github.com/oksasatya/go-user-registration/config"
)

// Decorate fills the company fields every template expects, keeping values already present in data.
func Decorate(cfg *config.Config, to string, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	setIfEmpty(data, "Email", to)
	setIfEmpty(data, "AppName", cfg.AppName)
	setIfEmpty(data, "CompanyName", cfg.CompanyName)
	setIfEmpty(data, "SupportURL", cfg.SupportURL)
	return data
}

func setIfEmpty(data map[string]any, key, value string) {
	if v, ok := data[key]; ok && fmt.Sprintf("%v", v) != "" {
		return
	}
	data[key] = value
}
