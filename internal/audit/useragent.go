package audit

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseClient summarises a User-Agent header. An empty header yields the zero Client.
func ParseClient(header string) Client {
	header = strings.TrimSpace(header)
	if header == "" {
		return Client{}
	}
	ua := useragent.New(header)
	name, version := ua.Browser()
	browser := name
	if version != "" {
		browser = name + " " + version
	}
	return Client{
		Browser: browser,
		OS:      ua.OS(),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}
