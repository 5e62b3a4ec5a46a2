package handlers

import (
	"strings"

	xhttp "github.com/digitalpro/contact-gateway/pkg/http"
)

// clientIP picks the first entry of X-Forwarded-For when present,
// otherwise the direct connection address. Pure so the header parsing
// is testable without a socket.
func clientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	return remoteAddr
}

func requestIP(ctx *xhttp.RequestCtx) string {
	xff := string(ctx.Request.Header.Peek("X-Forwarded-For"))
	return clientIP(xff, ctx.RemoteIP().String())
}

func requestUserAgent(ctx *xhttp.RequestCtx) string {
	return string(ctx.Request.Header.UserAgent())
}

func requestReferrer(ctx *xhttp.RequestCtx) string {
	return string(ctx.Request.Header.Referer())
}
