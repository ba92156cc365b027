package handler

import (
	_ "embed"
	"net/http"

	"github.com/valyala/fasthttp"
)

//go:embed openapi.json
var openAPISpec []byte

// Docs serves the machine-readable API schema.
func Docs(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(openAPISpec)
}
