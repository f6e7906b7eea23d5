package ctxutil

import "context"

type requestDataKey struct{}

// RequestData identifies the authenticated student behind a request.
type RequestData struct {
	StudentID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// StudentID returns the authenticated student id or "".
func StudentID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.StudentID
	}
	return ""
}
