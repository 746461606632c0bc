package middlewares

const (
	ctxEmailKey  = "auth.email"
	CtxRequestID = "request_id"
)
